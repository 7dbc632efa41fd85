// Package mask decides whether a legacy drop-in is already covered by a
// natively packaged systemd timer.
package mask

import (
	"systemdcron/pkg/systemd"
)

// distroTimers maps drop-in names to the timer a distribution ships in
// their place when the two names differ.
var distroTimers = map[string]string{
	"apt-compat": "apt-daily",
	"dpkg":       "dpkg-db-backup",
	"ntpsec":     "ntpsec-rotate-stats",
	"plocate":    "plocate-updatedb",
	"sysstat":    "sysstat-collect",
}

// Mask answers lookups for one run. It never mutates its table.
type Mask struct {
	dirs  []string
	table map[string]string
}

// New returns a Mask searching dirs. extra entries override the built-in table.
func New(dirs []string, extra map[string]string) *Mask {
	table := make(map[string]string, len(distroTimers)+len(extra))
	for k, v := range distroTimers {
		table[k] = v
	}
	for k, v := range extra {
		table[k] = v
	}
	return &Mask{dirs: append([]string(nil), dirs...), table: table}
}

// Native returns the path of the timer that replaces the drop-in name, or
// "" when none is installed.
func (m *Mask) Native(name string) string {
	if p := systemd.UnitPath(m.dirs, systemd.TimerName(name)); p != "" {
		return p
	}
	if alias, ok := m.table[name]; ok && alias != name {
		return systemd.UnitPath(m.dirs, systemd.TimerName(alias))
	}
	return ""
}

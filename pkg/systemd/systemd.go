// Package systemd holds the small amount of systemd knowledge the
// generator needs outside of unit rendering: where vendor and admin units
// live, and how a oneshot asks the manager to reload.
package systemd

import (
	"os"
	"path/filepath"
	"strings"
)

// UnitPath returns the first dir/name that exists, or "".
// Unreadable paths count as absent.
func UnitPath(dirs []string, name string) string {
	for _, d := range dirs {
		p := filepath.Join(d, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// TimerName appends ".timer" unless already present.
func TimerName(name string) string {
	if strings.HasSuffix(name, ".timer") {
		return name
	}
	return name + ".timer"
}

// ReloadAndRestart is a shell command line that reloads all unit files and
// restarts target if it is active.
func ReloadAndRestart(systemctl, target string) string {
	return systemctl + " daemon-reload ; " + systemctl + " try-restart " + target
}

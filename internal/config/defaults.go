package config

import "strings"

const (
	DefaultPath   = "/etc/systemd-cron/generator.yaml"
	EnvConfigPath = "SYSTEMD_CRON_GENERATOR_CONFIG"

	DefaultSpool        = "/var/spool/cron/crontabs"
	DefaultRebootMarker = "/run/crond.reboot"
	DefaultShell        = "/bin/sh"
	DefaultTarget       = "cron.target"
)

// Default returns the built-in configuration for the given prefix.
func Default(prefix string) *Config {
	cfg := &Config{Prefix: strings.TrimRight(prefix, "/")}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills every empty field. It never overwrites explicit values.
func (c *Config) applyDefaults() {
	c.Prefix = strings.TrimRight(c.Prefix, "/")
	p := c.Prefix

	s := &c.Sources
	if s.Crontab == "" {
		s.Crontab = "/etc/crontab"
	}
	if s.Anacrontab == "" {
		s.Anacrontab = "/etc/anacrontab"
	}
	if s.CronD == "" {
		s.CronD = "/etc/cron.d"
	}
	if s.Parts == nil {
		s.Parts = map[string]string{}
	}
	for _, period := range Periods {
		if s.Parts[period] == "" {
			s.Parts[period] = "/etc/cron." + period
		}
	}
	if s.Spool == "" {
		s.Spool = DefaultSpool
	}
	if s.RebootMarker == "" {
		s.RebootMarker = DefaultRebootMarker
	}

	u := &c.Units
	if len(u.Dirs) == 0 {
		u.Dirs = []string{p + "/lib/systemd/system"}
		if p != "/usr" {
			u.Dirs = append(u.Dirs, "/usr/lib/systemd/system")
		}
		u.Dirs = append(u.Dirs, "/etc/systemd/system")
	}
	if u.BootDelay == "" {
		u.BootDelay = p + "/lib/systemd-cron/boot_delay"
	}
	if u.Systemctl == "" {
		u.Systemctl = p + "/bin/systemctl"
	}
	if u.Shell == "" {
		u.Shell = DefaultShell
	}
	if u.Target == "" {
		u.Target = DefaultTarget
	}
}

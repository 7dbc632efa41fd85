package config

// Config describes every path and knob the generator reads.
//
// All fields are optional in the config file; anything omitted keeps the
// built-in default (see Default). Example:
//
//	prefix: /usr
//	sources:
//	  spool: /var/spool/cron
//	mask:
//	  certbot: certbot
type Config struct {
	// Prefix is prepended to helper and vendor unit paths ("" or "/usr").
	Prefix string `json:"prefix,omitempty"`

	Sources SourcesConfig `json:"sources"`
	Units   UnitsConfig   `json:"units"`
	Logging LoggingConfig `json:"logging"`

	// Mask adds drop-in name -> native timer name overrides on top of the
	// compiled-in distribution table.
	Mask map[string]string `json:"mask,omitempty"`
}

// SourcesConfig lists the legacy inputs.
type SourcesConfig struct {
	Crontab    string `json:"crontab,omitempty"`
	Anacrontab string `json:"anacrontab,omitempty"`
	CronD      string `json:"cron_d,omitempty"`

	// Parts maps a period (hourly, daily, weekly, monthly, yearly) to its
	// run-parts directory.
	Parts map[string]string `json:"parts,omitempty"`

	// Spool is the per-user crontab directory; it may live on a late mount.
	Spool string `json:"spool,omitempty"`

	// RebootMarker is created after a successful spool scan and suppresses
	// @reboot jobs on later runs within the same boot.
	RebootMarker string `json:"reboot_marker,omitempty"`
}

// UnitsConfig controls what the generated units reference.
type UnitsConfig struct {
	// Dirs are searched for natively packaged timers (masking).
	Dirs []string `json:"dirs,omitempty"`

	BootDelay string `json:"boot_delay,omitempty"`
	Systemctl string `json:"systemctl,omitempty"`
	Shell     string `json:"shell,omitempty"`
	// Target is the activation target every timer is wired into.
	Target string `json:"target,omitempty"`
}

// LoggingConfig controls diagnostics in non-debug runs.
type LoggingConfig struct {
	Level          string `json:"level,omitempty"`
	Journal        bool   `json:"journal,omitempty"`
	Kmsg           string `json:"kmsg,omitempty"`
	KmsgRatePerSec int    `json:"kmsg_rate_per_sec,omitempty"`
	KmsgBurst      int    `json:"kmsg_burst,omitempty"`
}

// Periods lists the run-parts periods in walk order.
var Periods = []string{"hourly", "daily", "weekly", "monthly", "yearly"}

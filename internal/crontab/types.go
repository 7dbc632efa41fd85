package crontab

import "systemdcron/internal/schedule"

// Source identifies one crontab-format file and how its lines are read.
type Source struct {
	// Path is the full path, recorded as SourcePath= in every unit.
	Path string
	// Name discriminates unit names ("crontab", "anacrontab", drop-in or spool file name).
	Name string
	// User is fixed for per-user spool files and anacrontab; empty means
	// every line carries a user column before the command.
	User string

	Anacron bool
	// Spool marks a per-user spool file.
	Spool bool
}

// EnvVar is one exported assignment.
type EnvVar struct {
	Name  string
	Value string
}

// Entry is a fully resolved job line.
type Entry struct {
	Source Source
	// Line is the normalized source line, used in unit descriptions.
	Line string

	User    string
	Command string
	// JobID is the anacron job identifier (anacrontab only).
	JobID string

	// Fields is set for five-field lines, Period for keyword/anacron lines.
	Fields *schedule.Fields
	Period *schedule.Period
	// Calendar is the OnCalendar= value; empty for @reboot.
	Calendar string

	Reboot     bool
	Persistent bool
	Batch      bool
	Delay      int
	Shell      string

	// Env is a snapshot of the assignments seen so far in the file.
	Env []EnvVar
}

package unitfile

import (
	"strconv"
	"strings"

	"github.com/coreos/go-systemd/v22/unit"

	"systemdcron/internal/crontab"
)

const (
	Documentation = "man:systemd-crontab-generator(8)"
	rootUser      = "root"
	bootSec       = "1m"
)

func opt(section, name, value string) *unit.UnitOption {
	return unit.NewUnitOption(section, name, value)
}

// escapeSpecifiers protects '%' from systemd specifier expansion.
func escapeSpecifiers(s string) string {
	return strings.ReplaceAll(s, "%", "%%")
}

// TimerOptions renders the timer for entry e named name.
func TimerOptions(target, name string, e *crontab.Entry) []*unit.UnitOption {
	opts := []*unit.UnitOption{
		opt("Unit", "Description", `[Timer] "`+escapeSpecifiers(e.Line)+`"`),
		opt("Unit", "Documentation", Documentation),
		opt("Unit", "PartOf", target),
		opt("Unit", "RefuseManualStart", "true"),
		opt("Unit", "RefuseManualStop", "true"),
		opt("Unit", "SourcePath", e.Source.Path),
		opt("Timer", "Unit", name+".service"),
	}
	if e.Reboot {
		opts = append(opts, opt("Timer", "OnBootSec", bootSec))
	} else {
		opts = append(opts, opt("Timer", "OnCalendar", e.Calendar))
	}
	if e.Persistent {
		opts = append(opts, opt("Timer", "Persistent", "true"))
	}
	return opts
}

// ServiceSpec carries what the service needs beyond the entry itself.
type ServiceSpec struct {
	// ExecStart is the final command line (direct path or shell + script).
	ExecStart string
	// BootDelay is the helper run before the job when e.Delay > 0.
	BootDelay string
	// Home is the user's home directory; empty skips RequiresMountsFor=.
	Home string
}

// NeedsUserSession reports whether the job runs on behalf of a regular user.
func NeedsUserSession(e *crontab.Entry) bool {
	return e.Source.Spool || e.User != rootUser
}

// ServiceOptions renders the service for entry e.
func ServiceOptions(e *crontab.Entry, spec ServiceSpec) []*unit.UnitOption {
	opts := []*unit.UnitOption{
		opt("Unit", "Description", `[Cron] "`+escapeSpecifiers(e.Line)+`"`),
		opt("Unit", "Documentation", Documentation),
		opt("Unit", "RefuseManualStart", "true"),
		opt("Unit", "RefuseManualStop", "true"),
		opt("Unit", "SourcePath", e.Source.Path),
	}
	if NeedsUserSession(e) {
		opts = append(opts, opt("Unit", "Requires", "systemd-user-sessions.service"))
		if spec.Home != "" {
			opts = append(opts, opt("Unit", "RequiresMountsFor", spec.Home))
		}
	}

	opts = append(opts,
		opt("Service", "Type", "oneshot"),
		opt("Service", "IgnoreSIGPIPE", "false"),
	)
	if !e.Reboot && e.Delay > 0 {
		opts = append(opts, opt("Service", "ExecStartPre", "-"+spec.BootDelay+" "+strconv.Itoa(e.Delay)))
	}
	opts = append(opts, opt("Service", "ExecStart", spec.ExecStart))
	if env := Environment(e.Env); env != "" {
		opts = append(opts, opt("Service", "Environment", env))
	}
	if e.User != rootUser {
		opts = append(opts, opt("Service", "User", e.User))
	}
	if e.Batch {
		opts = append(opts,
			opt("Service", "CPUSchedulingPolicy", "idle"),
			opt("Service", "IOSchedulingClass", "idle"),
		)
	}
	return opts
}

// Environment renders assignments on one line. Empty values are dropped,
// values with blanks are quoted as a whole ("K=v w").
func Environment(vars []crontab.EnvVar) string {
	parts := make([]string, 0, len(vars))
	for _, v := range vars {
		switch {
		case v.Value == "":
			continue
		case strings.ContainsAny(v.Value, " \t"):
			parts = append(parts, `"`+v.Name+"="+v.Value+`"`)
		default:
			parts = append(parts, v.Name+"="+v.Value)
		}
	}
	return strings.Join(parts, " ")
}

// RerunOptions renders the oneshot that re-runs generators once the spool
// directory becomes available.
func RerunOptions(target, spool, execStart string) []*unit.UnitOption {
	return []*unit.UnitOption{
		opt("Unit", "Description", "Rerun systemd-crontab-generator because "+spool+" was not available"),
		opt("Unit", "After", target),
		opt("Unit", "ConditionDirectoryNotEmpty", spool),
		opt("Service", "Type", "oneshot"),
		opt("Service", "ExecStart", execStart),
	}
}

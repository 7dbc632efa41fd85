package unitfile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"

	"github.com/coreos/go-systemd/v22/unit"

	"systemdcron/internal/crontab"
	logx "systemdcron/pkg/logx"
	"systemdcron/pkg/systemd"
)

const (
	RerunUnit   = "cron-after-var.service"
	RerunTarget = "multi-user.target"
)

// WriteError reports an output file that could not be written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string { return fmt.Sprintf("cannot write %s: %v", e.Path, e.Err) }
func (e *WriteError) Unwrap() error { return e.Err }

// Options configure an Emitter.
type Options struct {
	Dest      string
	Target    string
	BootDelay string
	Systemctl string
	Log       logx.Logger

	// LookupHome resolves a user's home directory; defaults to os/user.
	LookupHome func(name string) (string, error)
}

// Emitter writes units into one destination directory.
type Emitter struct {
	dest      string
	target    string
	bootDelay string
	systemctl string
	log       logx.Logger
	home      func(string) (string, error)
}

func New(opts Options) *Emitter {
	log := opts.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	home := opts.LookupHome
	if home == nil {
		home = lookupHome
	}
	return &Emitter{
		dest:      opts.Dest,
		target:    opts.Target,
		bootDelay: opts.BootDelay,
		systemctl: opts.Systemctl,
		log:       log,
		home:      home,
	}
}

func lookupHome(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// Emit writes <name>.timer, <name>.service (and <name>.sh when the command
// needs a shell), and links the timer into <target>.wants/.
func (em *Emitter) Emit(name string, e *crontab.Entry) error {
	timerPath := filepath.Join(em.dest, name+".timer")
	if err := writeUnit(timerPath, TimerOptions(em.target, name, e)); err != nil {
		return err
	}
	if err := em.link(em.target, timerPath); err != nil {
		return err
	}

	spec := ServiceSpec{BootDelay: em.bootDelay}
	if NeedsUserSession(e) {
		home, err := em.home(e.User)
		if err != nil {
			em.log.Warn("cannot resolve home directory", logx.String("user", e.User), logx.Err(err))
		}
		spec.Home = home
	}

	if isExecutablePath(e.Command) {
		spec.ExecStart = e.Command
	} else {
		script := filepath.Join(em.dest, name+".sh")
		if err := os.WriteFile(script, []byte(e.Command+"\n"), 0o644); err != nil {
			return &WriteError{Path: script, Err: err}
		}
		spec.ExecStart = e.Shell + " " + script
	}

	return writeUnit(filepath.Join(em.dest, name+".service"), ServiceOptions(e, spec))
}

// EmitRerun writes the unit that reloads systemd once spool shows up.
func (em *Emitter) EmitRerun(spool string) error {
	path := filepath.Join(em.dest, RerunUnit)
	cmdline := "/bin/sh -c '" + systemd.ReloadAndRestart(em.systemctl, em.target) + "'"
	if err := writeUnit(path, RerunOptions(em.target, spool, cmdline)); err != nil {
		return err
	}
	return em.link(RerunTarget, path)
}

// isExecutablePath is true when the whole command names an existing file.
// Anything else (arguments, pipes, shell syntax) goes through the shell.
func isExecutablePath(cmd string) bool {
	_, err := os.Stat(cmd)
	return err == nil
}

func writeUnit(path string, opts []*unit.UnitOption) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if _, err := io.Copy(f, unit.Serialize(opts)); err != nil {
		_ = f.Close()
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// link creates <dest>/<target>.wants/<base(path)> -> path, replacing any
// previous link.
func (em *Emitter) link(target, path string) error {
	wants := filepath.Join(em.dest, target+".wants")
	if err := os.MkdirAll(wants, 0o755); err != nil {
		return &WriteError{Path: wants, Err: err}
	}
	link := filepath.Join(wants, filepath.Base(path))
	if err := os.Remove(link); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &WriteError{Path: link, Err: err}
	}
	if err := os.Symlink(path, link); err != nil {
		return &WriteError{Path: link, Err: err}
	}
	return nil
}

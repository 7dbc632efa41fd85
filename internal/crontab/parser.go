package crontab

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"systemdcron/internal/ordmap"
	"systemdcron/internal/schedule"
	logx "systemdcron/pkg/logx"
)

var ErrGarbled = errors.New("garbled line")

const (
	// Column widths accepted by the legacy parsers.
	numWidth   = 4
	jobIDWidth = 24
	userWidth  = 64

	maxShellLen = 255
)

// Options are shared by every Parser of a run.
type Options struct {
	// Shell runs commands that are not a plain executable path.
	Shell string
	// RebootDone drops @reboot lines: the jobs already ran in this boot.
	RebootDone bool
	Log        logx.Logger
}

// Parser reads one source file, line by line, in order.
type Parser struct {
	src        Source
	log        logx.Logger
	rebootDone bool

	env        *ordmap.Map[string, string]
	delay      int
	persistent bool
	batch      bool
	shell      string
}

func NewParser(src Source, opts Options) *Parser {
	log := opts.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	shell := opts.Shell
	if shell == "" {
		shell = "/bin/sh"
	}
	return &Parser{
		src:        src,
		log:        log.With(logx.String("source", src.Path)),
		rebootDone: opts.RebootDone,
		env:        ordmap.New[string, string](),
		persistent: src.Anacron,
		shell:      shell,
	}
}

// NormalizeLine turns tabs into spaces, collapses blank runs and trims both ends.
func NormalizeLine(raw string) string {
	raw = strings.TrimRight(raw, "\r\n")
	var b strings.Builder
	b.Grow(len(raw))
	prevBlank := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c == '\t' {
			c = ' '
		}
		if c == ' ' && prevBlank {
			continue
		}
		prevBlank = c == ' '
		b.WriteByte(c)
	}
	return strings.TrimSpace(b.String())
}

// ParseLine classifies one line. It returns (nil, nil) for comments, blank
// lines, assignments and suppressed @reboot jobs. Errors only concern this
// line; the caller logs them and moves on.
func (p *Parser) ParseLine(raw string) (*Entry, error) {
	line := NormalizeLine(raw)
	switch {
	case line == "", line[0] == '#':
		return nil, nil
	case line[0] == '@':
		return p.parseKeyword(line)
	}
	if name, value, ok := splitAssignment(line); ok {
		p.assign(name, value)
		return nil, nil
	}
	return p.parseSchedule(line)
}

func (p *Parser) parseKeyword(line string) (*Entry, error) {
	kw, rest, _ := strings.Cut(line, " ")
	period, err := schedule.LookupKeyword(kw)
	if err != nil {
		return nil, err
	}
	if period.Reboot && p.rebootDone {
		p.log.Debug("skipping @reboot job, already ran in this boot", logx.String("line", line))
		return nil, nil
	}

	e := p.newEntry(line)
	if p.src.Anacron {
		toks := strings.SplitN(rest, " ", 3)
		if len(toks) < 3 {
			return nil, fmt.Errorf("%w: want @period delay job-id command", ErrGarbled)
		}
		if e.Delay, err = scanInt(toks[0], numWidth); err != nil {
			return nil, fmt.Errorf("%w: delay: %v", ErrGarbled, err)
		}
		if e.JobID, err = scanWord(toks[1], jobIDWidth); err != nil {
			return nil, fmt.Errorf("%w: job-id: %v", ErrGarbled, err)
		}
		rest = toks[2]
	}
	if err := p.finish(e, rest); err != nil {
		return nil, err
	}
	e.Period = &period
	e.Reboot = period.Reboot
	if !e.Reboot {
		e.Calendar = period.Calendar(e.Delay)
	}
	return e, nil
}

func (p *Parser) parseSchedule(line string) (*Entry, error) {
	e := p.newEntry(line)
	if p.src.Anacron {
		toks := strings.SplitN(line, " ", 4)
		if len(toks) < 4 {
			return nil, fmt.Errorf("%w: want period delay job-id command", ErrGarbled)
		}
		days, err := scanInt(toks[0], numWidth)
		if err != nil {
			return nil, fmt.Errorf("%w: period: %v", ErrGarbled, err)
		}
		period, err := schedule.AnacronPeriod(days)
		if err != nil {
			return nil, err
		}
		if e.Delay, err = scanInt(toks[1], numWidth); err != nil {
			return nil, fmt.Errorf("%w: delay: %v", ErrGarbled, err)
		}
		if e.JobID, err = scanWord(toks[2], jobIDWidth); err != nil {
			return nil, fmt.Errorf("%w: job-id: %v", ErrGarbled, err)
		}
		if err := p.finish(e, toks[3]); err != nil {
			return nil, err
		}
		e.Period = &period
		e.Calendar = period.Calendar(e.Delay)
		return e, nil
	}

	toks := strings.SplitN(line, " ", 6)
	if len(toks) < 6 {
		return nil, fmt.Errorf("%w: want 5 time fields and a command", ErrGarbled)
	}
	fields := schedule.Fields{
		Minute:     toks[0],
		Hour:       toks[1],
		DayOfMonth: toks[2],
		Month:      toks[3],
		DayOfWeek:  toks[4],
	}
	if err := p.finish(e, toks[5]); err != nil {
		return nil, err
	}
	if err := fields.Lint(); err != nil {
		p.log.Warn("schedule may not be understood by systemd", logx.Err(err))
	}
	e.Fields = &fields
	e.Calendar = fields.Calendar()
	return e, nil
}

func (p *Parser) newEntry(line string) *Entry {
	e := &Entry{
		Source:     p.src,
		Line:       line,
		User:       p.src.User,
		Persistent: p.persistent,
		Batch:      p.batch,
		Delay:      p.delay,
		Shell:      p.shell,
	}
	p.env.Each(func(k, v string) bool {
		e.Env = append(e.Env, EnvVar{Name: k, Value: v})
		return true
	})
	return e
}

// finish splits the optional user column off the command.
func (p *Parser) finish(e *Entry, rest string) error {
	if p.src.User == "" {
		user, cmd, ok := strings.Cut(rest, " ")
		if !ok || cmd == "" {
			return fmt.Errorf("%w: missing user or command", ErrGarbled)
		}
		if _, err := scanWord(user, userWidth); err != nil {
			return fmt.Errorf("%w: user: %v", ErrGarbled, err)
		}
		e.User = user
		rest = cmd
	}
	if rest == "" {
		return fmt.Errorf("%w: missing command", ErrGarbled)
	}
	e.Command = rest
	return nil
}

func (p *Parser) assign(name, value string) {
	value = stripQuotes(value)
	switch name {
	case "DELAY":
		n, err := strconv.Atoi(value)
		if err != nil {
			p.log.Warn("cannot read DELAY, using 0", logx.String("value", value))
			n = 0
		}
		p.delay = n
	case "PERSISTENT":
		p.persistent = parseBool(value)
	case "BATCH":
		p.batch = parseBool(value)
	case "SHELL":
		if len(value) > maxShellLen {
			p.log.Error("bad SHELL, ignoring", logx.Int("len", len(value)))
			return
		}
		p.shell = value
	default:
		p.env.Set(name, value)
	}
}

// splitAssignment recognizes NAME=value where '=' comes before any blank.
func splitAssignment(line string) (string, string, bool) {
	eq := strings.IndexByte(line, '=')
	if eq <= 0 {
		return "", "", false
	}
	if sp := strings.IndexByte(line, ' '); sp >= 0 && sp < eq {
		return "", "", false
	}
	return line[:eq], line[eq+1:], true
}

func stripQuotes(v string) string {
	return strings.TrimRight(strings.TrimLeft(v, `"'`), `"'`)
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func scanInt(tok string, width int) (int, error) {
	if len(tok) > width {
		return 0, fmt.Errorf("%q is wider than %d", tok, width)
	}
	return strconv.Atoi(tok)
}

func scanWord(tok string, width int) (string, error) {
	if tok == "" {
		return "", errors.New("empty")
	}
	if len(tok) > width {
		return "", fmt.Errorf("%q is wider than %d", tok, width)
	}
	return tok, nil
}

package logx

import (
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ---- Config ----

type Config struct {
	Level string
	// Tag prefixes every kernel/journal record ("<tag>[<pid>]: ...").
	Tag string
	// Debug routes everything to stderr, regardless of the other sinks.
	Debug   bool
	Kmsg    KmsgConfig
	Journal bool
}

type KmsgConfig struct {
	Path       string
	RatePerSec int
	Burst      int
}

const (
	DefaultTag      = "systemd-crontab-generator"
	DefaultKmsgPath = "/dev/kmsg"
)

// ---- Logger API ----

const consoleTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Field mutates a zerolog event.
//
// Use helpers like String(), Int(), Duration(), Err(), ...
// Fields are applied in-order; if the same key is set twice, later fields win.
type Field func(e *zerolog.Event)

func String(k, v string) Field    { return func(e *zerolog.Event) { e.Str(k, v) } }
func Int(k string, v int) Field   { return func(e *zerolog.Event) { e.Int(k, v) } }
func Bool(k string, v bool) Field { return func(e *zerolog.Event) { e.Bool(k, v) } }
func Duration(k string, v time.Duration) Field {
	return func(e *zerolog.Event) { e.Dur(k, v) }
}
func Err(err error) Field {
	return func(e *zerolog.Event) {
		if err != nil {
			e.Err(err)
		}
	}
}

// Logger is a lightweight structured logger.
//
// - With() returns a derived logger with additional fixed fields.
// - Zero value is a safe no-op logger.
type Logger struct {
	base    zerolog.Logger
	hasBase bool

	fields []Field
}

// Nop returns a logger that never writes anything.
func Nop() Logger {
	return Logger{base: zerolog.Nop(), hasBase: true}
}

// NewWriter builds a logger on top of an arbitrary writer (tests, pipes).
func NewWriter(w io.Writer, level string) Logger {
	setGlobals()
	zl := zerolog.New(w).Level(parseLevel(level, zerolog.InfoLevel)).With().Timestamp().Logger()
	return Logger{base: zl, hasBase: true}
}

func (l Logger) IsZero() bool { return !l.hasBase && len(l.fields) == 0 }

func (l Logger) root() zerolog.Logger {
	if l.hasBase {
		return l.base
	}
	return zerolog.Nop()
}

func (l Logger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	cp := l
	cp.fields = append(append([]Field(nil), l.fields...), fields...)
	return cp
}

func (l Logger) Debug(msg string, fields ...Field) { l.log(zerolog.DebugLevel, msg, fields...) }
func (l Logger) Info(msg string, fields ...Field)  { l.log(zerolog.InfoLevel, msg, fields...) }
func (l Logger) Warn(msg string, fields ...Field)  { l.log(zerolog.WarnLevel, msg, fields...) }
func (l Logger) Error(msg string, fields ...Field) { l.log(zerolog.ErrorLevel, msg, fields...) }

func (l Logger) log(level zerolog.Level, msg string, fields ...Field) {
	zl := l.root()
	e := zl.WithLevel(level)
	if e == nil {
		return
	}

	// Caller: keep it short (file:line), avoid noisy function names and full paths.
	if caller := shortCaller(3); caller != "" {
		e.Str(zerolog.CallerFieldName, caller)
	}

	for _, f := range l.fields {
		if f != nil {
			f(e)
		}
	}
	for _, f := range fields {
		if f != nil {
			f(e)
		}
	}

	e.Msg(msg)
}

func shortCaller(skip int) string {
	_, file, line, ok := runtime.Caller(skip)
	if !ok || file == "" {
		return ""
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// ---- Service (sinks) ----

// Service owns the sinks opened for one generator run.
type Service struct {
	cfg  Config
	kmsg *os.File
}

// New opens the configured sinks and returns both the Service and a root Logger.
//
// Sink selection:
//   - Debug: stderr only.
//   - Otherwise: kernel log when it can be opened, stderr when it cannot,
//     plus the journal when enabled and reachable.
func New(cfg Config) (*Service, Logger) {
	setGlobals()

	if strings.TrimSpace(cfg.Tag) == "" {
		cfg.Tag = DefaultTag
	}
	s := &Service{cfg: cfg}

	def := zerolog.InfoLevel
	if cfg.Debug {
		def = zerolog.DebugLevel
	}
	lvl := parseLevel(cfg.Level, def)

	writers := make([]io.Writer, 0, 2)
	if !cfg.Debug {
		path := strings.TrimSpace(cfg.Kmsg.Path)
		if path == "" {
			path = DefaultKmsgPath
		}
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
		if err == nil {
			s.kmsg = f
			writers = append(writers, newKmsgWriter(f, cfg.Tag, os.Getpid(), cfg.Kmsg.RatePerSec, cfg.Kmsg.Burst))
		}
		if cfg.Journal {
			if jw := newJournalWriter(cfg.Tag); jw != nil {
				writers = append(writers, jw)
			}
		}
	}
	if len(writers) == 0 {
		writers = append(writers, newConsoleWriter(Stderr()))
	}

	mw := zerolog.MultiLevelWriter(writers...)
	zl := zerolog.New(mw).Level(lvl).With().Timestamp().Logger()
	return s, Logger{base: zl, hasBase: true}
}

func (s *Service) Close() error {
	if s == nil || s.kmsg == nil {
		return nil
	}
	err := s.kmsg.Close()
	s.kmsg = nil
	return err
}

func setGlobals() {
	zerolog.ErrorFieldName = "err"
	zerolog.TimeFieldFormat = consoleTimeFormat
}

func newConsoleWriter(w io.Writer) io.Writer {
	cw := zerolog.ConsoleWriter{Out: w, TimeFormat: consoleTimeFormat}
	// Keep caller short and stable.
	cw.FormatCaller = func(i interface{}) string {
		s, _ := i.(string)
		return s
	}
	return cw
}

func parseLevel(s string, def zerolog.Level) zerolog.Level {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case "TRACE":
		return zerolog.TraceLevel
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	default:
		return def
	}
}

// Stderr returns the configured stderr sink.
func Stderr() io.Writer { return os.Stderr }


package logx

import (
	"github.com/coreos/go-systemd/v22/journal"
	"github.com/rs/zerolog"
)

// journalWriter forwards records to the native journal protocol.
type journalWriter struct {
	tag string
}

// newJournalWriter returns nil when the journal socket is not reachable,
// which is the common case while generators run.
func newJournalWriter(tag string) *journalWriter {
	if !journal.Enabled() {
		return nil
	}
	return &journalWriter{tag: tag}
}

func (w *journalWriter) Write(p []byte) (int, error) {
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *journalWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	msg := formatPlainJSON(p)
	if msg == "" {
		return len(p), nil
	}
	vars := map[string]string{"SYSLOG_IDENTIFIER": w.tag}
	if err := journal.Send(msg, journal.Priority(syslogPriority(level)), vars); err != nil {
		return 0, err
	}
	return len(p), nil
}

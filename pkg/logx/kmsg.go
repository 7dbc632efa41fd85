package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	defaultKmsgRate  = 20
	defaultKmsgBurst = 200
	maxKmsgRecord    = 900
)

// kmsgWriter renders zerolog JSON lines as kernel log records:
//
//	<prio> tag[pid]: message key=value ...
//
// The kernel rate-limits userspace writers on its own and silently drops
// the overflow, so we throttle first and report suppressed records.
type kmsgWriter struct {
	mu      sync.Mutex
	out     io.Writer
	tag     string
	pid     int
	limiter *rate.Limiter
	dropped int
}

func newKmsgWriter(out io.Writer, tag string, pid, ratePerSec, burst int) *kmsgWriter {
	if ratePerSec <= 0 {
		ratePerSec = defaultKmsgRate
	}
	if burst <= 0 {
		burst = defaultKmsgBurst
	}
	return &kmsgWriter{
		out:     out,
		tag:     tag,
		pid:     pid,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst),
	}
}

func (w *kmsgWriter) Write(p []byte) (int, error) {
	// Default to info when WriteLevel isn't used.
	return w.WriteLevel(zerolog.InfoLevel, p)
}

func (w *kmsgWriter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	msg := formatPlainJSON(p)
	if msg == "" {
		return len(p), nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.limiter.Allow() {
		w.dropped++
		return len(p), nil
	}
	if w.dropped > 0 {
		// One record per write; /dev/kmsg does not split on newlines.
		_, _ = fmt.Fprintf(w.out, "<%d> %s[%d]: %d messages suppressed\n", priWarning, w.tag, w.pid, w.dropped)
		w.dropped = 0
	}
	if _, err := fmt.Fprintf(w.out, "<%d> %s[%d]: %s\n", syslogPriority(level), w.tag, w.pid, msg); err != nil {
		return 0, err
	}
	return len(p), nil
}

// syslog priorities, as understood by /dev/kmsg and the journal.
const (
	priErr     = 3
	priWarning = 4
	priNotice  = 5
	priInfo    = 6
	priDebug   = 7
)

func syslogPriority(level zerolog.Level) int {
	switch {
	case level >= zerolog.ErrorLevel:
		return priErr
	case level == zerolog.WarnLevel:
		return priWarning
	case level == zerolog.InfoLevel:
		return priNotice
	default:
		return priDebug
	}
}

// formatPlainJSON flattens a zerolog JSON line to "message k=v k=v".
// Keys are sorted so identical events produce identical records.
func formatPlainJSON(p []byte) string {
	var m map[string]any
	if err := json.Unmarshal(p, &m); err != nil {
		return truncate(strings.TrimSpace(string(p)), maxKmsgRecord)
	}

	msg, _ := m[zerolog.MessageFieldName].(string)

	keys := make([]string, 0, len(m))
	for k := range m {
		switch k {
		case zerolog.TimestampFieldName, zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.CallerFieldName:
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(msg)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(fmt.Sprint(m[k]))
	}
	return truncate(b.String(), maxKmsgRecord)
}

func truncate(s string, maxN int) string {
	if maxN <= 0 || len(s) <= maxN {
		return s
	}
	if maxN < 10 {
		return s[:maxN]
	}
	return s[:maxN-3] + "..."
}

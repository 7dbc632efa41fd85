package logx

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKmsgWriterFormatsRecords(t *testing.T) {
	var buf bytes.Buffer
	w := newKmsgWriter(&buf, "tag", 42, 0, 0)
	log := Logger{base: zerolog.New(w).Level(zerolog.DebugLevel), hasBase: true}

	log.Warn("skipping line", String("path", "/etc/crontab"), Int("line", 3))
	log.Error("cannot write")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "<4> tag[42]: skipping line line=3 path=/etc/crontab", lines[0])
	assert.Equal(t, "<3> tag[42]: cannot write", lines[1])
}

func TestKmsgWriterThrottles(t *testing.T) {
	var buf bytes.Buffer
	w := newKmsgWriter(&buf, "tag", 1, 1, 2)
	log := Logger{base: zerolog.New(w), hasBase: true}
	for i := 0; i < 5; i++ {
		log.Info("tick")
	}
	assert.Equal(t, 2, strings.Count(buf.String(), "tick"))
	assert.Equal(t, 3, w.dropped)
}

func TestSyslogPriority(t *testing.T) {
	assert.Equal(t, priErr, syslogPriority(zerolog.ErrorLevel))
	assert.Equal(t, priWarning, syslogPriority(zerolog.WarnLevel))
	assert.Equal(t, priNotice, syslogPriority(zerolog.InfoLevel))
	assert.Equal(t, priDebug, syslogPriority(zerolog.DebugLevel))
}

func TestNopLogger(t *testing.T) {
	var zero Logger
	assert.True(t, zero.IsZero())
	zero.Error("dropped")
	assert.False(t, Nop().IsZero())
}

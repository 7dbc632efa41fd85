package generator

import (
	"strings"
	"testing"

	logx "systemdcron/pkg/logx"
)

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// NewTestLogger routes generator diagnostics into the test log.
func NewTestLogger(t *testing.T) logx.Logger {
	return logx.NewWriter(testWriter{t: t}, "debug")
}

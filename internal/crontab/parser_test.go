package crontab

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systemdcron/internal/schedule"
)

func systemSource() Source {
	return Source{Path: "/etc/crontab", Name: "crontab"}
}

func parseAll(t *testing.T, p *Parser, lines ...string) []*Entry {
	t.Helper()
	var out []*Entry
	for _, l := range lines {
		e, err := p.ParseLine(l)
		require.NoError(t, err, l)
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func TestNormalizeLine(t *testing.T) {
	assert.Equal(t, "0 5 * * * root /bin/true", NormalizeLine("0\t5  *\t\t* *   root /bin/true\r\n"))
	assert.Equal(t, "", NormalizeLine("   \t"))
}

func TestParseLineSkipsCommentsAndBlanks(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	for _, l := range []string{"", "   ", "# 0 5 * * * root /bin/true", "\t# indented"} {
		e, err := p.ParseLine(l)
		require.NoError(t, err)
		assert.Nil(t, e, l)
	}
}

func TestParseSystemLine(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	got := parseAll(t, p, "17 *\t* * 1-3 root cd / && run-parts --report /etc/cron.hourly")
	require.Len(t, got, 1)
	e := got[0]
	assert.Equal(t, "root", e.User)
	assert.Equal(t, "cd / && run-parts --report /etc/cron.hourly", e.Command)
	assert.Equal(t, "Mon,Tue,Wed *-*-* *:17:00", e.Calendar)
	assert.Equal(t, "17 * * * 1-3 root cd / && run-parts --report /etc/cron.hourly", e.Line)
	require.NotNil(t, e.Fields)
	assert.Equal(t, "1-3", e.Fields.DayOfWeek)
	assert.False(t, e.Persistent)
	assert.Equal(t, "/bin/sh", e.Shell)
}

func TestParseSpoolLineUsesFixedUser(t *testing.T) {
	p := NewParser(Source{Path: "/var/spool/cron/crontabs/alice", Name: "alice", User: "alice", Spool: true}, Options{})
	got := parseAll(t, p, "*/15 * * * * echo hi there")
	require.Len(t, got, 1)
	assert.Equal(t, "alice", got[0].User)
	assert.Equal(t, "echo hi there", got[0].Command)
	assert.Equal(t, "*-*-* *:0,15,30,45:00", got[0].Calendar)
}

func TestParseKeywordWithDelay(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	got := parseAll(t, p,
		"DELAY=15",
		"@weekly root /usr/sbin/rotate",
		"@midnight root /usr/sbin/other",
	)
	require.Len(t, got, 2)
	assert.Equal(t, "Mon *-*-* 0:15:0", got[0].Calendar)
	assert.Equal(t, 15, got[0].Delay)
	assert.Equal(t, "*-*-* 0:15:0", got[1].Calendar)
}

func TestParseUnknownKeyword(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	e, err := p.ParseLine("@fortnightly root /bin/true")
	assert.Nil(t, e)
	assert.True(t, errors.Is(err, schedule.ErrUnknownKeyword))

	// the parser keeps going
	got := parseAll(t, p, "@daily root /bin/true")
	assert.Len(t, got, 1)
}

func TestParseReboot(t *testing.T) {
	fresh := NewParser(systemSource(), Options{})
	got := parseAll(t, fresh, "@reboot root /usr/local/bin/warmup")
	require.Len(t, got, 1)
	assert.True(t, got[0].Reboot)
	assert.Empty(t, got[0].Calendar)

	done := NewParser(systemSource(), Options{RebootDone: true})
	assert.Empty(t, parseAll(t, done, "@reboot root /usr/local/bin/warmup"))
}

func TestAssignments(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	got := parseAll(t, p,
		`SHELL="/bin/dash"`,
		`MAILTO='ops'`,
		"PATH=/usr/bin",
		"PERSISTENT=Yes",
		"BATCH=true",
		"0 1 * * * root first",
		"PATH=/usr/local/bin:/usr/bin",
		"PERSISTENT=no",
		"0 2 * * * root second",
	)
	require.Len(t, got, 2)

	first, second := got[0], got[1]
	assert.Equal(t, "/bin/dash", first.Shell)
	assert.True(t, first.Persistent)
	assert.True(t, first.Batch)
	assert.Equal(t, []EnvVar{{"MAILTO", "ops"}, {"PATH", "/usr/bin"}}, first.Env)

	assert.False(t, second.Persistent)
	assert.Equal(t, []EnvVar{{"MAILTO", "ops"}, {"PATH", "/usr/local/bin:/usr/bin"}}, second.Env)
}

func TestAssignmentNeedsEqualBeforeBlank(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	got := parseAll(t, p, "0 3 * * * root FOO=bar /bin/env")
	require.Len(t, got, 1)
	assert.Equal(t, "FOO=bar /bin/env", got[0].Command)
	assert.Empty(t, got[0].Env)
}

func TestBadDirectives(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	long := make([]byte, maxShellLen+1)
	for i := range long {
		long[i] = 'x'
	}
	got := parseAll(t, p,
		"DELAY=soon",
		"SHELL=/"+string(long),
		"@daily root /bin/true",
	)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Delay)
	assert.Equal(t, "daily", got[0].Calendar)
	assert.Equal(t, "/bin/sh", got[0].Shell)
}

func TestGarbledLines(t *testing.T) {
	p := NewParser(systemSource(), Options{})
	for _, l := range []string{
		"0 5 * *",
		"0 5 * * * root",
	} {
		e, err := p.ParseLine(l)
		assert.Nil(t, e, l)
		assert.ErrorIs(t, err, ErrGarbled, l)
	}
}

func TestParseAnacrontab(t *testing.T) {
	src := Source{Path: "/etc/anacrontab", Name: "anacrontab", User: "root", Anacron: true}
	p := NewParser(src, Options{})
	got := parseAll(t, p,
		"SHELL=/bin/sh",
		"START_HOURS_RANGE=3-22",
		"1 5 cron.daily run-parts --report /etc/cron.daily",
		"7 10 cron.weekly run-parts --report /etc/cron.weekly",
		"@monthly 15 cron.monthly run-parts --report /etc/cron.monthly",
		"31 0 eom /usr/local/bin/eom",
	)
	require.Len(t, got, 4)

	assert.Equal(t, "*-*-* 0:5:0", got[0].Calendar)
	assert.Equal(t, "cron.daily", got[0].JobID)
	assert.Equal(t, 5, got[0].Delay)
	assert.Equal(t, "root", got[0].User)
	assert.True(t, got[0].Persistent)
	assert.Equal(t, "run-parts --report /etc/cron.daily", got[0].Command)
	assert.Equal(t, []EnvVar{{"START_HOURS_RANGE", "3-22"}}, got[0].Env)

	assert.Equal(t, "Mon *-*-* 0:10:0", got[1].Calendar)
	assert.Equal(t, "*-*-1 0:15:0", got[2].Calendar)
	assert.Equal(t, "cron.monthly", got[2].JobID)
	assert.Equal(t, "monthly", got[3].Calendar)
}

func TestParseAnacrontabErrors(t *testing.T) {
	src := Source{Path: "/etc/anacrontab", Name: "anacrontab", User: "root", Anacron: true}
	p := NewParser(src, Options{})

	_, err := p.ParseLine("14 5 fortnight /bin/true")
	assert.ErrorIs(t, err, schedule.ErrUnsupportedPeriod)

	_, err = p.ParseLine("1 12345 wide /bin/true")
	assert.ErrorIs(t, err, ErrGarbled)

	_, err = p.ParseLine("1 5 abcdefghijklmnopqrstuvwxyz /bin/true")
	assert.ErrorIs(t, err, ErrGarbled)
}

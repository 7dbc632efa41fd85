package schedule

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// Fields are the five crontab time columns as written in the source.
type Fields struct {
	Minute     string
	Hour       string
	DayOfMonth string
	Month      string
	DayOfWeek  string
}

// Calendar builds "<weekdays> *-<month>-<dom> <hour>:<minute>:00".
//
// Note: cron ORs a restricted day-of-month with a restricted day-of-week,
// systemd ANDs them. The legacy translation has always accepted that.
func (f Fields) Calendar() string {
	dows := MapWeekdays(ExpandField(DayOfWeek, f.DayOfWeek))
	if dows != "" {
		dows += " "
	}
	return fmt.Sprintf("%s*-%s-%s %s:%s:00",
		dows,
		ExpandField(Month, f.Month),
		ExpandField(DayOfMonth, f.DayOfMonth),
		ExpandField(Hour, f.Hour),
		ExpandField(Minute, f.Minute),
	)
}

func (f Fields) String() string {
	return strings.Join([]string{f.Minute, f.Hour, f.DayOfMonth, f.Month, f.DayOfWeek}, " ")
}

var lintParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Lint reports fields a standard cron daemon would reject. Translation
// does not depend on it; callers only log the result.
func (f Fields) Lint() error {
	// robfig's day-of-week domain is 0-6; cron also takes 7 for Sunday.
	lint := f
	lint.DayOfWeek = sundayAsZero(ExpandField(DayOfWeek, f.DayOfWeek))
	if _, err := lintParser.Parse(lint.String()); err != nil {
		return fmt.Errorf("schedule %q: %w", f.String(), err)
	}
	return nil
}

func sundayAsZero(dows string) string {
	parts := strings.Split(dows, ",")
	for i, p := range parts {
		if p == "7" {
			parts[i] = "0"
		}
	}
	return strings.Join(parts, ",")
}

package schedule

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownKeyword    = errors.New("unknown @keyword")
	ErrUnsupportedPeriod = errors.New("unsupported anacron period")
)

// Period is a named cadence ("daily", "weekly", ...).
//
// The bare name is a valid OnCalendar= shorthand. delayed, when set, is the
// calendar template used once a DELAY is configured: the job then fires at
// minute <delay> of the first hour of its window instead of at :00.
type Period struct {
	Name    string
	Reboot  bool
	delayed string
}

var periods = map[string]Period{
	"minutely":     {Name: "minutely"},
	"hourly":       {Name: "hourly", delayed: "*-*-* *:%d:0"},
	"daily":        {Name: "daily", delayed: "*-*-* 0:%d:0"},
	"weekly":       {Name: "weekly", delayed: "Mon *-*-* 0:%d:0"},
	"monthly":      {Name: "monthly", delayed: "*-*-1 0:%d:0"},
	"quarterly":    {Name: "quarterly", delayed: "*-1,4,7,10-1 0:%d:0"},
	"semiannually": {Name: "semiannually", delayed: "*-1,7-1 0:%d:0"},
	"yearly":       {Name: "yearly", delayed: "*-1-1 0:%d:0"},
	"reboot":       {Name: "reboot", Reboot: true},
}

// keywords maps every accepted @keyword spelling to its period.
var keywords = map[string]string{
	"minutely":      "minutely",
	"hourly":        "hourly",
	"daily":         "daily",
	"midnight":      "daily",
	"weekly":        "weekly",
	"monthly":       "monthly",
	"quarterly":     "quarterly",
	"semiannually":  "semiannually",
	"semi-annually": "semiannually",
	"biannually":    "semiannually",
	"bi-annually":   "semiannually",
	"yearly":        "yearly",
	"annually":      "yearly",
	"anually":       "yearly",
	"reboot":        "reboot",
}

// LookupKeyword resolves "@weekly" (or "weekly") to its period.
func LookupKeyword(kw string) (Period, error) {
	name, ok := keywords[strings.ToLower(strings.TrimPrefix(kw, "@"))]
	if !ok {
		return Period{}, fmt.Errorf("%w: %q", ErrUnknownKeyword, kw)
	}
	return periods[name], nil
}

// LookupPeriod returns a canonical period by name (as used for run-parts
// directories).
func LookupPeriod(name string) (Period, bool) {
	p, ok := periods[name]
	return p, ok
}

// AnacronPeriod maps an anacrontab period-in-days column.
func AnacronPeriod(days int) (Period, error) {
	switch days {
	case 1:
		return periods["daily"], nil
	case 7:
		return periods["weekly"], nil
	case 30, 31:
		return periods["monthly"], nil
	default:
		return Period{}, fmt.Errorf("%w: %d days", ErrUnsupportedPeriod, days)
	}
}

// Calendar returns the OnCalendar= value for the period.
// A positive delay pins the firing minute; periods without a delayed
// template (minutely, reboot) ignore it.
func (p Period) Calendar(delay int) string {
	if delay > 0 && p.delayed != "" {
		return fmt.Sprintf(p.delayed, delay)
	}
	return p.Name
}

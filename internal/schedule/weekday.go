package schedule

import "strings"

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MapWeekdays converts a day-of-week column to systemd weekday syntax.
// Digits 0-7 become Sun..Sat (7 is Sunday again), "*" is dropped, anything
// else passes through untouched. The result is "" when every day matches.
func MapWeekdays(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c >= '0' && c <= '7':
			b.WriteString(weekdays[(c-'0')%7])
		case c == '*':
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

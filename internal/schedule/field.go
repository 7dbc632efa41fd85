package schedule

import (
	"strconv"
	"strings"
)

// Field describes one crontab time column.
type Field struct {
	Name  string
	Min   int
	Max   int
	// Limit is the largest explicit value accepted; 0 means Max.
	Limit int
	Names map[string]int
}

var (
	Minute     = Field{Name: "minute", Min: 0, Max: 59}
	Hour       = Field{Name: "hour", Min: 0, Max: 23}
	DayOfMonth = Field{Name: "day-of-month", Min: 1, Max: 31}
	Month      = Field{Name: "month", Min: 1, Max: 12, Names: map[string]int{
		"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
		"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
	}}
	// DayOfWeek accepts 7 as Sunday in explicit values and ranges; "*/n"
	// steps stop at Saturday.
	DayOfWeek = Field{Name: "day-of-week", Min: 0, Max: 6, Limit: 7, Names: map[string]int{
		"sun": 0, "mon": 1, "tue": 2, "wed": 3, "thu": 4, "fri": 5, "sat": 6,
	}}
)

// ExpandField rewrites range and step syntax into an explicit comma list:
//
//	"1-3"     -> "1,2,3"
//	"1-5/2,9" -> "1,3,5,9"
//	"*/20"    -> "0,20,40"  (minute)
//	"*"       -> "*"
//
// Elements it cannot interpret, and values or steps outside the field's
// domain, are kept verbatim; systemd gets the final say.
func ExpandField(f Field, raw string) string {
	if raw == "*" || raw == "" {
		return raw
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, f.expandElem(p))
	}
	return strings.Join(out, ",")
}

func (f Field) expandElem(elem string) string {
	base, stepRaw, hasStep := strings.Cut(elem, "/")
	step := 1
	if hasStep {
		n, err := strconv.Atoi(stepRaw)
		if err != nil || n <= 0 || n > f.Max {
			return elem
		}
		step = n
	}

	var lo, hi int
	switch {
	case base == "*":
		if !hasStep {
			return elem
		}
		lo, hi = f.Min, f.Max
	case strings.Contains(base, "-"):
		a, b, _ := strings.Cut(base, "-")
		var okA, okB bool
		lo, okA = f.value(a)
		hi, okB = f.value(b)
		if !okA || !okB || lo > hi {
			return elem
		}
	default:
		v, ok := f.value(base)
		if !ok {
			return elem
		}
		if !hasStep {
			return strconv.Itoa(v)
		}
		if v > f.Max {
			return elem
		}
		lo, hi = v, f.Max
	}

	var b strings.Builder
	for i := lo; i <= hi; i += step {
		if i > lo {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func (f Field) value(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, n >= f.Min && n <= f.limit()
	}
	if v, ok := f.Names[strings.ToLower(s)]; ok {
		return v, true
	}
	return 0, false
}

func (f Field) limit() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return f.Max
}

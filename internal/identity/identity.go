// Package identity names the timer/service pair generated for a job.
//
// Persistent jobs are content addressed: the name only depends on the
// schedule and the command, so systemd finds the same stamp file after a
// reboot and neither re-fires nor skips the job. Other jobs are numbered
// per user in file order; those numbers shift when the file is edited.
package identity

import (
	"crypto/md5"
	"encoding/hex"
	"strconv"
	"strings"

	"systemdcron/internal/crontab"
	"systemdcron/internal/ordmap"
)

const prefix = "cron-"

// Hash returns the lowercase hex MD5 of calendar, a NUL byte, and command.
// The NUL keeps "a"+"bc" and "ab"+"c" apart and matches existing stamps.
func Hash(calendar, command string) string {
	h := md5.New()
	h.Write([]byte(calendar))
	h.Write([]byte{0})
	h.Write([]byte(command))
	return hex.EncodeToString(h.Sum(nil))
}

// Sequence hands out per-user ordinals starting at 0.
type Sequence struct {
	next ordmap.Map[string, int]
}

// Next returns the current ordinal for user and advances it.
func (s *Sequence) Next(user string) int {
	n, _ := s.next.Get(user)
	s.next.Set(user, n+1)
	return n
}

// Assigner is scoped to one source file.
type Assigner struct {
	seq Sequence
}

func NewAssigner() *Assigner { return &Assigner{} }

// Assign returns "cron-<discriminator>-<user>-<suffix>" for e.
func (a *Assigner) Assign(e *crontab.Entry) string {
	var b strings.Builder
	b.WriteString(prefix)
	if e.Persistent {
		b.WriteString(Discriminator(e))
		b.WriteByte('-')
		b.WriteString(e.User)
		b.WriteByte('-')
		b.WriteString(Hash(scheduleKey(e), e.Command))
		return b.String()
	}
	b.WriteString(e.Source.Name)
	b.WriteByte('-')
	b.WriteString(e.User)
	b.WriteByte('-')
	b.WriteString(strconv.Itoa(a.seq.Next(e.User)))
	return b.String()
}

// scheduleKey is the calendar expression, or the period name for @reboot
// jobs, which have no calendar.
func scheduleKey(e *crontab.Entry) string {
	if e.Calendar == "" && e.Period != nil {
		return e.Period.Name
	}
	return e.Calendar
}

// Discriminator is the anacron job-id reduced to [A-Za-z0-9], or the
// source name for every other entry.
func Discriminator(e *crontab.Entry) string {
	if e.JobID == "" {
		return e.Source.Name
	}
	return alnum(e.JobID)
}

func alnum(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Package schedule turns crontab time fields, @keywords and anacron periods
// into systemd calendar expressions (OnCalendar=).
//
// Everything here is a pure function of its input: identical crontab text
// always yields identical calendar strings, which the content-hashed unit
// names depend on.
package schedule

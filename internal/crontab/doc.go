// Package crontab classifies crontab and anacrontab lines and turns
// schedule lines into Entries.
//
// A Parser is bound to one source file. Assignments update its environment
// table and directives (DELAY, PERSISTENT, BATCH, SHELL); every following
// schedule line sees the state accumulated so far, in file order.
package crontab

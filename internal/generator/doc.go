// Package generator walks the legacy cron sources in a fixed order and
// drives every job line through parsing, naming, masking and emission.
//
// Per-file state (environment table, directives, per-user ordinals) lives
// only for the duration of that file. Read and parse problems are logged
// and skipped; any output failure aborts the run.
package generator

// Package unitfile writes the generated .timer/.service pairs, the helper
// shell scripts, and the wants/ symlinks into the generator output
// directory.
//
// Every write failure is returned as a *WriteError. Callers treat it as
// fatal: a half-written unit set must not be activated.
package unitfile

// Package preflight provides readiness checks for the studio directories and
// the external tools substudio depends on.
//
// The interactive session runs RunAll once at startup and warns about failed
// checks; the doctor command renders every result as a table.
package preflight

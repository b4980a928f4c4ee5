// Package progress implements the timestamped human-readable progress
// log this solver prints to standard output while it runs, grounded on
// original_source/src/main.c's printf_ts/printf_err_ts helpers. Plain
// fmt/os is deliberate here, not an oversight: go-highway's own CLI
// tools print the same way, and no structured logging library shows up
// anywhere in this codebase's dependency stack.
package progress

import (
	"fmt"
	"os"
	"time"
)

// nowFunc is overridable by tests that need deterministic timestamps.
var nowFunc = time.Now

// Logf prints a timestamped progress line to standard output, matching
// printf_ts's "[HH:MM:SS] " prefix convention.
func Logf(format string, args ...any) {
	fmt.Printf("[%s] "+format, append([]any{nowFunc().Format("15:04:05")}, args...)...)
}

// Errf prints a timestamped error line to standard error, matching
// printf_err_ts.
func Errf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "[%s] "+format, append([]any{nowFunc().Format("15:04:05")}, args...)...)
}

// Plain writes an untimestamped detail line (original_source's bare
// printf calls used for indented sub-details under a Logf header).
func Plain(format string, args ...any) {
	fmt.Printf(format, args...)
}

// Package cliutil holds the small text helpers shared by the oasconform
// commands.
package cliutil

import (
	"fmt"
	"io"
	"os"
)

// Status marks printed before a passing or failing line.
const (
	MarkPass = "✓"
	MarkFail = "✗"
)

// errOut receives write failures. Tests replace it.
var errOut io.Writer = os.Stderr

// Writef writes formatted output to w. A failed write is reported on stderr
// instead of being returned, since there is nowhere better to send it.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(errOut, "write error: %v\n", err)
	}
}

// Mark returns MarkPass when ok is true and MarkFail otherwise.
func Mark(ok bool) string {
	if ok {
		return MarkPass
	}
	return MarkFail
}

// Count renders n with noun, pluralized by appending "s" when n != 1.
func Count(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

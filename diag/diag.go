// Package diag defines the diagnostic carrier threaded through
// compilation and evaluation error paths (spec §7). Nothing in this
// repository panics on a user-facing error; compile functions return a
// []diag.Diagnostic and eval functions return an error instead.
package diag

import "fmt"

// Severity classifies a Diagnostic for reporting and exit-code purposes
// (spec §6 exit codes, §7 error policy table).
type Severity int

//nolint:revive
const (
	Error Severity = iota
	Warning
	Info
)

func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "error"
	}
}

// Diagnostic is one compile-time or run-time message, carrying enough
// location information to render a useful report.
type Diagnostic struct {
	Severity Severity
	Message  string
	Line     int
	File     string
}

// New builds an Error-severity Diagnostic at line (0 if unknown).
func New(line int, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Error, Message: fmt.Sprintf(format, args...), Line: line}
}

// Warningf builds a Warning-severity Diagnostic at line.
func Warningf(line int, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warning, Message: fmt.Sprintf(format, args...), Line: line}
}

// Infof builds an Info-severity Diagnostic at line, for non-error,
// non-warning notices such as an interactive import's echoed names
// (spec §4.5 step 6).
func Infof(line int, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Info, Message: fmt.Sprintf(format, args...), Line: line}
}

// HasErrors reports whether diags contains at least one Error-severity
// entry. Compile callers use this to decide compile_success vs
// compile_fail (spec §7) — a batch of diagnostics may be all warnings
// (e.g. a skipped missing re-export name) without failing compilation.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

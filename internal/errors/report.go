// Package errors is Fabrique's diagnostics model: a single Report struct
// carries every fatal error and warning the compiler produces, a
// structured-report pattern used across every phase (parser, loader,
// typecheck) rather than a forest of bespoke error types.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/fabrique-build/fabrique/internal/source"
)

// Severity classifies how a Report should affect the run.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return "unknown"
	}
}

// Kind is the error taxonomy. Every fatal Report carries one; warnings
// and notes leave it as KindNone.
type Kind int

const (
	KindNone Kind = iota
	Syntax
	Semantic
	WrongType
	OS
	Assertion
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Semantic:
		return "semantic"
	case WrongType:
		return "wrong-type"
	case OS:
		return "os"
	case Assertion:
		return "assertion"
	default:
		return "none"
	}
}

// Report is the canonical structured diagnostic. It is JSON-friendly so
// tooling (an LSP, a test harness) can consume it without parsing the
// human-readable rendering.
type Report struct {
	Code     string         `json:"code"`
	Kind     Kind           `json:"kind"`
	Severity Severity       `json:"severity"`
	Message  string         `json:"message"`
	Range    source.Range   `json:"range"`
	Detail   string         `json:"detail,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as a Go error so it can travel through normal
// error-returning call chains and still be recovered with errors.As.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return fmt.Sprintf("%s: %s: %s", e.Rep.Range, e.Rep.Severity, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// Wrap turns a Report into an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

func newReport(code string, kind Kind, sev Severity, r source.Range, msg string, args ...any) *Report {
	return &Report{
		Code:     code,
		Kind:     kind,
		Severity: sev,
		Message:  fmt.Sprintf(msg, args...),
		Range:    r,
	}
}

// SyntaxErrorf reports that the parser could not recognize the token stream.
func SyntaxErrorf(r source.Range, msg string, args ...any) *Report {
	return newReport(ParserUnexpectedToken, Syntax, Error, r, msg, args...)
}

// SemanticErrorf reports a valid parse with an invalid meaning.
func SemanticErrorf(code string, r source.Range, msg string, args ...any) *Report {
	return newReport(code, Semantic, Error, r, msg, args...)
}

// WrongTypeErrorf reports that an expression's type is not a subtype of
// the type required by its context.
func WrongTypeErrorf(r source.Range, required, actual fmt.Stringer) *Report {
	rep := newReport(TypeMismatch, WrongType, Error, r,
		"expected a value of type %s, got %s", required, actual)
	rep.Data = map[string]any{"required": required.String(), "actual": actual.String()}
	return rep
}

// OSErrorf reports a filesystem or plugin-loading failure.
func OSErrorf(r source.Range, msg string, args ...any) *Report {
	return newReport(OSFailure, OS, Error, r, msg, args...)
}

// Assert reports an internal invariant violation: a bug, recovered only
// at the top-level run boundary.
func Assert(r source.Range, msg string, args ...any) *Report {
	return newReport(InternalInvariant, Assertion, Error, r, msg, args...)
}

// Warnf reports a non-fatal diagnostic; warnings never abort a run.
func Warnf(code string, r source.Range, msg string, args ...any) *Report {
	return newReport(code, KindNone, Warning, r, msg, args...)
}

// WithDetail attaches an indented detail block (e.g. the set of tokens the
// parser expected) and returns r for chaining.
func (r *Report) WithDetail(detail string) *Report {
	r.Detail = detail
	return r
}

// WithData merges key/value pairs into the report's structured payload.
func (r *Report) WithData(kv map[string]any) *Report {
	if r.Data == nil {
		r.Data = make(map[string]any, len(kv))
	}
	for k, v := range kv {
		r.Data[k] = v
	}
	return r
}

// Format renders the plain-text form used on stderr:
// "<file>:<line>:<col>: <severity>: <message>", with an optional indented
// detail block.
func (r *Report) Format() string {
	out := fmt.Sprintf("%s: %s: %s", r.Range, r.Severity, r.Message)
	if r.Detail != "" {
		out += "\n    " + r.Detail
	}
	return out
}

// Sink collects Reports for the duration of a run. It is append-only and
// owned by a single run; no synchronization is required.
type Sink struct {
	reports []*Report
}

// NewSink constructs an empty diagnostics sink.
func NewSink() *Sink { return &Sink{} }

// Add appends a report to the sink.
func (s *Sink) Add(r *Report) { s.reports = append(s.reports, r) }

// Reports returns every collected report, in emission order.
func (s *Sink) Reports() []*Report { return s.reports }

// HasErrors reports whether any collected report is at Error severity. A
// run that has errors must not emit a DAG to backends.
func (s *Sink) HasErrors() bool {
	for _, r := range s.reports {
		if r.Severity == Error {
			return true
		}
	}
	return false
}

// Errors returns only the Error-severity reports.
func (s *Sink) Errors() []*Report {
	var out []*Report
	for _, r := range s.reports {
		if r.Severity == Error {
			out = append(out, r)
		}
	}
	return out
}

package diag

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pac-lang/pac/internal/ast"
)

// Severity distinguishes a fatal Report from one that is merely advisory
// (spec.md §7: warnings are printed but do not fail the build).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Fix is a suggested, machine-readable correction attached to a Report.
type Fix struct {
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// Report bundles a diagnostic's title, originating file, and rendered
// message, plus the structured metadata the teacher's errors.Report
// schema exposes for --json output (SPEC_FULL.md §1.1).
type Report struct {
	Schema   string         `json:"schema"`
	Code     string         `json:"code"`
	Phase    string         `json:"phase"`
	Severity Severity       `json:"-"`
	Title    string         `json:"title"`
	Path     string         `json:"path"`
	Message  string         `json:"message"`
	Region   *ast.Region    `json:"region,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
	Fix      *Fix           `json:"fix,omitempty"`

	doc Document // the full rendered hint/snippet body, kept out of JSON
}

// New constructs a Report with a rendered Document body.
func New(code, phase, title, path string, region *ast.Region, body Document) *Report {
	return &Report{
		Schema: "pac.diagnostic/v1",
		Code:   code,
		Phase:  phase,
		Title:  title,
		Path:   path,
		Region: region,
		doc:    body,
	}
}

// WithSeverity sets the Report's severity and returns it for chaining.
func (r *Report) WithSeverity(s Severity) *Report {
	r.Severity = s
	return r
}

// WithData attaches structured data for --json consumers.
func (r *Report) WithData(data map[string]any) *Report {
	r.Data = data
	return r
}

// WithFix attaches a suggested fix.
func (r *Report) WithFix(f *Fix) *Report {
	r.Fix = f
	return r
}

// Render produces the full human-readable diagnostic: a dashed,
// cyan-colored "-- TITLE ────── path --" header followed by the message
// body (spec.md §4.6).
func (r *Report) Render(width int) string {
	header := renderHeader(r.Title, r.Path, width)
	body := Render(r.doc, width)
	r.Message = body
	if body == "" {
		return header
	}
	return header + "\n" + body + "\n"
}

func renderHeader(title, path string, width int) string {
	label := fmt.Sprintf("-- %s ", strings.ToUpper(title))
	tail := fmt.Sprintf(" %s --", path)
	dashes := width - len(label) - len(tail)
	if dashes < 4 {
		dashes = 4
	}
	full := label + strings.Repeat("─", dashes) + tail
	return Render(Colored(Cyan, Text(full)), width)
}

// ToJSON serializes the Report's structured fields, matching the teacher's
// deterministic json_encoder conventions (sorted map keys via
// encoding/json's default map ordering).
func (r *Report) ToJSON(compact bool) (string, error) {
	if r.Message == "" {
		r.Message = Render(r.doc, 80)
	}
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReportError adapts a Report to the error interface so it survives
// errors.As() unwrapping through the pipeline.
type ReportError struct{ Rep *Report }

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.Code + ": " + e.Rep.Title
}

// Wrap adapts r to an error.
func Wrap(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// AsReport extracts a Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

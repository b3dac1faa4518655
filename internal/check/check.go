// Package check exposes the type-checker boundary between canonicalization
// and optimization (spec.md §4.3). The implementation behind that boundary
// is a stub: it never rejects a program, but it holds the shape a future
// Hindley-Milner pass would fill in without disturbing any caller.
package check

import (
	"github.com/pac-lang/pac/internal/canon"
	"github.com/pac-lang/pac/internal/diag"
)

// Checker consumes a canonicalized program and reports type errors, if any.
// Implementations must not mutate mods and must be deterministic given the
// same input; they must collect every error found rather than stop at the
// first (spec.md §4.3).
type Checker interface {
	Check(mods map[string]*canon.CanonModule) []*diag.Report
}

// StubChecker always succeeds. spec.md leaves the type system itself out of
// scope and permits exactly this: "continue to pass unconditionally" (§9).
type StubChecker struct{}

func NewStubChecker() StubChecker { return StubChecker{} }

func (StubChecker) Check(mods map[string]*canon.CanonModule) []*diag.Report {
	return nil
}

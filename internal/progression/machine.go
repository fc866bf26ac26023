// Package progression governs the module sequence, per-module pagination,
// and gating of modules that are not yet available.
package progression

import (
	"github.com/abhisek/learnai/internal/learner"
)

// Sequence is the fixed module order. The diagnostic and capstone sentinels
// are not part of the sequence: diagnostic precedes it and
// capstone_completed is reached only through the capstone flow.
var Sequence = []string{
	"fundamentals",
	"transformers_llms",
	"agents",
	"build_todo_agent",
}

// gated holds modules present in the sequence but not yet open. Advancing
// into one is refused without touching state.
var gated = map[string]bool{
	"agents":           true,
	"build_todo_agent": true,
}

// ComingSoonMessage is returned to the caller when an advance hits a gated
// module.
const ComingSoonMessage = "AI Agents and Capstone modules are coming soon! Stay tuned for updates."

// PageCounter reports how many pages a module has. Implemented by the
// content package; every non-sentinel module has at least one page.
type PageCounter interface {
	PageCount(module string) int
}

// Result describes the outcome of an advance request.
type Result struct {
	Advanced   bool
	ComingSoon bool
	Message    string
}

// IsGated reports whether the module is in the not-yet-available set.
func IsGated(module string) bool {
	return gated[module]
}

// sequenceIndex returns the position of module in Sequence, or -1.
func sequenceIndex(module string) int {
	for i, m := range Sequence {
		if m == module {
			return i
		}
	}
	return -1
}

// EnsureStarted moves a learner still in the diagnostic sentinel into the
// first real module. Returns true if the transition happened. Called the
// first time lesson content is requested.
func EnsureStarted(rec *learner.Record) bool {
	if rec.CurrentModule != learner.ModuleDiagnostic {
		return false
	}
	rec.MarkCompleted(learner.ModuleDiagnostic)
	rec.CurrentModule = Sequence[0]
	rec.CurrentPage = 0
	return true
}

// AdvancePage moves to the next page of the current module, or to the next
// module when the last page is showing. A page advance never changes the
// module; a module advance always resets the page to 0.
func AdvancePage(rec *learner.Record, pages PageCounter) Result {
	total := pages.PageCount(rec.CurrentModule)
	if rec.CurrentPage+1 < total {
		rec.CurrentPage++
		return Result{Advanced: true}
	}
	return AdvanceModule(rec)
}

// AdvanceModule moves to the next module in the sequence.
//
// Gating and boundary checks run before any mutation, so a refused advance
// leaves the record exactly as it was. An unknown current module (including
// the sentinels) is a no-op returning Advanced=false.
func AdvanceModule(rec *learner.Record) Result {
	idx := sequenceIndex(rec.CurrentModule)
	if idx < 0 || idx >= len(Sequence)-1 {
		return Result{}
	}

	next := Sequence[idx+1]
	if gated[next] {
		return Result{ComingSoon: true, Message: ComingSoonMessage}
	}

	rec.MarkCompleted(rec.CurrentModule)
	rec.CurrentModule = next
	rec.CurrentPage = 0
	return Result{Advanced: true}
}

// CompleteCapstone transitions the record to the terminal sentinel,
// marking the module the learner was in as completed.
func CompleteCapstone(rec *learner.Record) {
	rec.MarkCompleted(rec.CurrentModule)
	rec.CurrentModule = learner.ModuleCapstoneCompleted
}

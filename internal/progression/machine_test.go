package progression

import (
	"testing"

	"github.com/abhisek/learnai/internal/learner"
)

// stubPages maps module names to page counts; unknown modules get 1.
type stubPages map[string]int

func (s stubPages) PageCount(module string) int {
	if n, ok := s[module]; ok {
		return n
	}
	return 1
}

func TestEnsureStarted(t *testing.T) {
	rec := learner.NewRecord("a")

	if !EnsureStarted(rec) {
		t.Fatal("expected transition out of diagnostic")
	}
	if rec.CurrentModule != "fundamentals" {
		t.Errorf("module = %q, want fundamentals", rec.CurrentModule)
	}
	if len(rec.CompletedModules) != 1 || rec.CompletedModules[0] != learner.ModuleDiagnostic {
		t.Errorf("completed = %v, want [diagnostic]", rec.CompletedModules)
	}

	// Already started: no-op.
	if EnsureStarted(rec) {
		t.Error("second EnsureStarted should report false")
	}
}

func TestAdvancePageWithinModule(t *testing.T) {
	rec := learner.NewRecord("a")
	EnsureStarted(rec)
	pages := stubPages{"fundamentals": 3}

	result := AdvancePage(rec, pages)
	if !result.Advanced || rec.CurrentPage != 1 || rec.CurrentModule != "fundamentals" {
		t.Errorf("got %+v, page %d, module %q", result, rec.CurrentPage, rec.CurrentModule)
	}
}

func TestAdvancePageRollsToNextModule(t *testing.T) {
	rec := learner.NewRecord("a")
	EnsureStarted(rec)
	pages := stubPages{"fundamentals": 2}
	rec.CurrentPage = 1 // last page

	result := AdvancePage(rec, pages)
	if !result.Advanced {
		t.Fatalf("expected advance, got %+v", result)
	}
	if rec.CurrentModule != "transformers_llms" || rec.CurrentPage != 0 {
		t.Errorf("module %q page %d, want transformers_llms page 0", rec.CurrentModule, rec.CurrentPage)
	}
	if len(rec.CompletedModules) != 2 {
		t.Errorf("completed = %v, want diagnostic and fundamentals", rec.CompletedModules)
	}
}

func TestAdvanceModuleGated(t *testing.T) {
	rec := learner.NewRecord("a")
	rec.CurrentModule = "transformers_llms"
	rec.CurrentPage = 0

	result := AdvanceModule(rec)
	if !result.ComingSoon {
		t.Fatalf("expected coming soon, got %+v", result)
	}
	if result.Message != ComingSoonMessage {
		t.Errorf("message = %q", result.Message)
	}
	// Refusal must not mutate anything.
	if rec.CurrentModule != "transformers_llms" || len(rec.CompletedModules) != 0 {
		t.Errorf("record mutated on gated advance: %+v", rec)
	}
}

func TestAdvanceModuleRepeatGatedIsIdempotent(t *testing.T) {
	rec := learner.NewRecord("a")
	rec.CurrentModule = "transformers_llms"

	for range 3 {
		result := AdvanceModule(rec)
		if !result.ComingSoon {
			t.Fatalf("expected coming soon, got %+v", result)
		}
	}
	if len(rec.CompletedModules) != 0 {
		t.Errorf("completed = %v, want empty", rec.CompletedModules)
	}
}

func TestAdvanceModuleUnknownOrTerminal(t *testing.T) {
	for _, module := range []string{learner.ModuleDiagnostic, learner.ModuleCapstoneCompleted, "nonsense", "build_todo_agent"} {
		rec := learner.NewRecord("a")
		rec.CurrentModule = module

		result := AdvanceModule(rec)
		if result.Advanced || result.ComingSoon {
			t.Errorf("module %q: got %+v, want refusal", module, result)
		}
		if rec.CurrentModule != module {
			t.Errorf("module %q mutated to %q", module, rec.CurrentModule)
		}
	}
}

func TestCompleteCapstone(t *testing.T) {
	rec := learner.NewRecord("a")
	rec.CurrentModule = "build_todo_agent"

	CompleteCapstone(rec)
	if rec.CurrentModule != learner.ModuleCapstoneCompleted {
		t.Errorf("module = %q, want %q", rec.CurrentModule, learner.ModuleCapstoneCompleted)
	}
	if len(rec.CompletedModules) != 1 || rec.CompletedModules[0] != "build_todo_agent" {
		t.Errorf("completed = %v", rec.CompletedModules)
	}
}

func TestIsGated(t *testing.T) {
	if !IsGated("agents") || !IsGated("build_todo_agent") {
		t.Error("agents and build_todo_agent should be gated")
	}
	if IsGated("fundamentals") || IsGated("transformers_llms") {
		t.Error("open modules reported as gated")
	}
}

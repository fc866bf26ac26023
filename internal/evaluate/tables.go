package evaluate

// confusionPhrases mark an answer as a confusion/frustration signal the
// moment any of them appears (case-insensitive substring match). The check
// short-circuits all further evaluation. This table is the single source
// of truth; callers must not keep their own copies.
var confusionPhrases = []string{
	"all of it seems unclear",
	"i don't think you're listening",
	"i don't understand",
	"i don't know",
	"don't know",
	"dunno",
	"this doesn't make sense",
	"confused",
	"unclear",
	"not listening",
	"doesn't help",
	"still confused",
	"makes no sense",
	"i'm lost",
	"no idea",
	"clueless",
	"have no idea",
	"not sure",
}

// understandingKeywords suggest the learner engaged with the material.
// Used only by the heuristic fallback when no semantic evaluator is
// reachable.
var understandingKeywords = []string{
	"pattern", "learn", "predict", "token", "model", "training",
	"data", "generate", "process", "input", "output", "neural",
	"algorithm", "autocomplete", "sequence", "context",
}

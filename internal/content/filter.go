package content

import (
	"regexp"
	"strings"
)

// Syllabus files are shared with authoring tools and sometimes contain
// instructions addressed at "the learner" in the third person. Those lines
// read wrong when shown directly, so they are rewritten into second person
// or stripped before display.
var (
	reHelpLearner  = regexp.MustCompile(`(?i)\bhelp\s+(the\s+)?learner\s+`)
	reAskLearnerC  = regexp.MustCompile(`(?i)\bask\s+(the\s+)?learner\s*:\s*`)
	reDirectVerb   = regexp.MustCompile(`(?i)\b(tell|show|guide)\s+(the\s+)?learner\s+`)
	reLearnerModal = regexp.MustCompile(`(?i)\bthe\s+learner\s+(should|will|can|must)\b`)
	reAskLearner   = regexp.MustCompile(`(?i)\bask\s+(the\s+)?learner\s+`)
)

// FilterMetaText rewrites or drops meta-instructional lines in lesson
// content. Lines left empty by the rewrite are dropped.
func FilterMetaText(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		switch {
		case reHelpLearner.MatchString(line):
			line = capitalize(reHelpLearner.ReplaceAllString(line, ""))
		case reAskLearnerC.MatchString(line):
			line = reAskLearnerC.ReplaceAllString(line, "Consider: ")
		case reDirectVerb.MatchString(line):
			line = capitalize(reDirectVerb.ReplaceAllString(line, ""))
		case reLearnerModal.MatchString(line):
			line = reLearnerModal.ReplaceAllString(line, "you $1")
		case reAskLearner.MatchString(line) && !strings.Contains(line, ":"):
			line = capitalize(reAskLearner.ReplaceAllString(line, ""))
		}

		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}

	return strings.Join(out, "\n")
}

// capitalize uppercases the first letter of a line if it is lowercase.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first := s[0]
	if first >= 'a' && first <= 'z' {
		return string(first-'a'+'A') + s[1:]
	}
	return s
}

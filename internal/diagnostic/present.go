package diagnostic

import (
	"math/rand/v2"
)

// Presentation is a question as shown to the learner: the four real options
// shuffled for this presentation, with "I'm not sure" appended last.
// CorrectOption is the post-shuffle position of the correct answer; the
// caller must hold on to it and echo it back with the learner's answer,
// since the scorer cannot rederive it from the static data.
type Presentation struct {
	QuestionIndex    int
	TotalQuestions   int
	Text             string
	Options          [5]string
	CorrectOption    int
	DifficultyWeight int
}

// Present builds a shuffled presentation of the question at index.
// Option order is randomized independently per call; only the first four
// options move, the unsure option stays pinned at the last position.
func Present(index int) (Presentation, bool) {
	q, ok := GetQuestion(index)
	if !ok {
		return Presentation{}, false
	}

	order := rand.Perm(4)

	p := Presentation{
		QuestionIndex:    q.Index,
		TotalQuestions:   QuestionCount,
		Text:             q.Text,
		DifficultyWeight: q.DifficultyWeight,
		CorrectOption:    0,
	}
	for pos, orig := range order {
		p.Options[pos] = q.Options[orig]
		if orig == q.CorrectOption {
			p.CorrectOption = pos
		}
	}
	p.Options[UnsureOptionIndex] = unsureOption

	return p, true
}

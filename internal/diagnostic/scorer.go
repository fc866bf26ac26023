package diagnostic

// Answer is one entry in a calibration batch. CorrectOption is the
// post-shuffle correct index captured at presentation time (see Present).
type Answer struct {
	QuestionIndex     int
	SelectedOption    int
	CorrectOption     int
	HesitationSeconds float64
}

// Assessment is the outcome of scoring a calibration batch.
type Assessment struct {
	Level      int
	AllCorrect bool
	AllUnsure  bool
}

// Score converts a batch of calibration answers into a starting difficulty
// level. It is a pure function: the same batch always yields the same
// assessment.
//
// Unsure answers contribute neither score nor weight; wrong answers
// contribute weight only, dragging the average down. The decision ladder
// runs in order and the first matching rule wins.
//
// An empty batch returns the intermediate default rather than failing;
// callers are expected to submit the full batch, but the scorer never
// divides by zero.
func Score(answers []Answer) Assessment {
	if len(answers) == 0 {
		return Assessment{Level: 1}
	}

	weights := Weights()

	var score, weight int
	var unsureCount, correctCount int
	total := len(answers)

	for _, a := range answers {
		w := 1
		if a.QuestionIndex >= 0 && a.QuestionIndex < len(weights) {
			w = weights[a.QuestionIndex]
		}

		switch {
		case a.SelectedOption == UnsureOptionIndex:
			unsureCount++
		case a.SelectedOption == a.CorrectOption:
			correctCount++
			score += w
			weight += w
		default:
			weight += w
		}
	}

	switch {
	case unsureCount == total:
		return Assessment{Level: 0, AllUnsure: true}
	case correctCount == total:
		return Assessment{Level: 3, AllCorrect: true}
	case correctCount == 0:
		return Assessment{Level: 0}
	case unsureCount >= 3:
		return Assessment{Level: 0}
	}

	// correctCount > 0 here, so weight > 0.
	avg := float64(score) / float64(weight)
	switch {
	case avg >= 0.8:
		return Assessment{Level: 3}
	case avg >= 0.6:
		return Assessment{Level: 2}
	case avg >= 0.4:
		return Assessment{Level: 1}
	default:
		return Assessment{Level: 0}
	}
}

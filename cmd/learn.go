package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/learnai/internal/diagnostic"
	"github.com/abhisek/learnai/internal/engine"
	"github.com/abhisek/learnai/internal/learner"
	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Start or continue a learning session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLearn(cmd)
	},
}

func runLearn(cmd *cobra.Command) error {
	log := newLogger(cmd)
	defer log.Sync()

	eng, st, err := buildEngine(cmd, log)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	id := learnerID(cmd)
	in := bufio.NewReader(os.Stdin)

	summary, err := eng.Summary(ctx, id)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("LearnAI — how LLMs and agents actually work"))
	fmt.Println()

	if summary.CurrentModule == learner.ModuleDiagnostic {
		if err := runDiagnostic(ctx, eng, id, in); err != nil {
			return err
		}
	}

	return lessonLoop(ctx, eng, id, in)
}

// runDiagnostic walks the learner through the five calibration questions
// and reports the assessed starting level.
func runDiagnostic(ctx context.Context, eng *engine.Engine, id string, in *bufio.Reader) error {
	fmt.Println(headerStyle.Render("Quick check-in — five questions to find your starting level."))
	fmt.Println(dimStyle.Render("Pick the closest answer; \"I'm not sure\" is always fine."))
	fmt.Println()

	var answers []diagnostic.Answer
	for i := 0; ; i++ {
		p, ok := eng.DiagnosticQuestion(i)
		if !ok {
			break
		}

		fmt.Printf("%s %s\n", headerStyle.Render(fmt.Sprintf("[%d/%d]", i+1, p.TotalQuestions)), p.Text)
		for j, opt := range p.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}

		start := time.Now()
		choice := readChoice(in, len(p.Options))
		answers = append(answers, diagnostic.Answer{
			QuestionIndex:     p.QuestionIndex,
			SelectedOption:    choice,
			CorrectOption:     p.CorrectOption,
			HesitationSeconds: time.Since(start).Seconds(),
		})
		fmt.Println()
	}

	assessment, err := eng.SubmitDiagnostic(ctx, id, answers)
	if err != nil {
		return err
	}

	switch {
	case assessment.AllUnsure:
		fmt.Println(noteStyle.Render("No worries — we'll start from the very beginning."))
	case assessment.AllCorrect:
		fmt.Println(successStyle.Render("Impressive! Starting you at the expert level."))
	default:
		fmt.Printf("Starting difficulty level: %s\n", headerStyle.Render(strconv.Itoa(assessment.Level)))
	}
	fmt.Println()
	return nil
}

// lessonLoop serves lessons, clarifications, and check questions until the
// learner quits or completes the course.
func lessonLoop(ctx context.Context, eng *engine.Engine, id string, in *bufio.Reader) error {
	for {
		lesson, err := eng.NextLesson(ctx, id, false)
		if err != nil {
			return err
		}

		renderLesson(lesson)

		if lesson.IsClarification {
			fmt.Print(dimStyle.Render("[Enter] mark reviewed and continue, q to quit: "))
			if readLine(in) == "q" {
				return nil
			}
			if _, err := eng.CompleteClarification(ctx, id, lesson.ClarificationID); err != nil {
				return err
			}
			continue
		}

		if lesson.Module == learner.ModuleCapstoneCompleted {
			return nil
		}

		for _, q := range lesson.CheckQuestions {
			if err := askQuestion(ctx, eng, id, in, q); err != nil {
				return err
			}
		}

		fmt.Print(dimStyle.Render("[Enter] continue, s skip module, c capstone, q quit: "))
		switch readLine(in) {
		case "q":
			return nil
		case "s":
			result, err := eng.AdvanceModule(ctx, id)
			if err != nil {
				return err
			}
			if result.ComingSoon {
				fmt.Println(noteStyle.Render(result.Message))
			}
		case "c":
			return runCapstone(ctx, eng, id, in)
		default:
			result, err := eng.AdvancePage(ctx, id)
			if err != nil {
				return err
			}
			if result.ComingSoon {
				fmt.Println(noteStyle.Render(result.Message))
				fmt.Println(dimStyle.Render("Type c at the prompt to build your capstone project instead."))
			}
		}
		fmt.Println()
	}
}

func renderLesson(lesson *engine.Lesson) {
	header := lesson.Module
	if lesson.IsClarification {
		header = fmt.Sprintf("clarification (from %s)", lesson.SourceModule)
	} else if lesson.IsPaginated {
		header = fmt.Sprintf("%s — page %d/%d", lesson.Module, lesson.CurrentPage+1, lesson.TotalPages)
	}
	fmt.Println(titleStyle.Render(header) + dimStyle.Render(fmt.Sprintf("  (difficulty %d)", lesson.Difficulty)))
	fmt.Println()
	fmt.Println(lesson.Content)
	if lesson.ImageURL != "" {
		fmt.Println(dimStyle.Render("Illustration: " + lesson.ImageURL))
	}
	if lesson.PersonalizationNote != "" {
		fmt.Println(noteStyle.Render("Coach note: " + lesson.PersonalizationNote))
	}
	fmt.Println()
}

// askQuestion runs one check question and prints the feedback.
func askQuestion(ctx context.Context, eng *engine.Engine, id string, in *bufio.Reader, q engine.LessonQuestion) error {
	fmt.Println(headerStyle.Render("Check your understanding"))
	fmt.Println(q.Question)

	sub := engine.AnswerSubmission{QuestionID: q.ID, Question: q.Question}
	start := time.Now()

	if q.OpenEnded {
		fmt.Print("> ")
		sub.Answer = readLine(in)
	} else {
		for j, opt := range q.Options {
			fmt.Printf("  %d) %s\n", j+1, opt)
		}
		choice := readChoice(in, len(q.Options))
		sub.IsSelection = true
		sub.SelectedOption = choice
		sub.CorrectOption = q.CorrectOption
		sub.Answer = q.Options[choice]
		sub.CorrectAnswer = q.Options[q.CorrectOption]
	}
	sub.HesitationSeconds = time.Since(start).Seconds()

	feedback, err := eng.SubmitAnswer(ctx, id, sub)
	if err != nil {
		return err
	}

	switch {
	case feedback.Correct:
		fmt.Println(successStyle.Render("Correct!"))
	case feedback.Confused:
		fmt.Println(noteStyle.Render("Let's slow down — the next lessons will use more examples."))
	default:
		fmt.Println(errorStyle.Render("Not quite."))
	}
	if feedback.Reasoning != "" {
		fmt.Println(dimStyle.Render(feedback.Reasoning))
	}
	if feedback.NewDifficulty != feedback.PreviousDifficulty {
		fmt.Println(dimStyle.Render(fmt.Sprintf("Difficulty adjusted: %d → %d",
			feedback.PreviousDifficulty, feedback.NewDifficulty)))
	}
	if feedback.ClarificationQueued {
		fmt.Println(dimStyle.Render("A clarification lesson was added to your queue."))
	}
	fmt.Println()
	return nil
}

// runCapstone collects the project brief and prints the generated agent.
func runCapstone(ctx context.Context, eng *engine.Engine, id string, in *bufio.Reader) error {
	fmt.Println(headerStyle.Render("Capstone: describe what your todo agent should do."))
	fmt.Print("> ")
	task := readLine(in)

	result, err := eng.RunCapstone(ctx, id, task)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(titleStyle.Render("Your agent"))
	fmt.Println(dimStyle.Render(result.Description))
	fmt.Println()
	fmt.Println(result.AgentCode)
	fmt.Println(headerStyle.Render("Next steps"))
	for _, step := range result.NextSteps {
		fmt.Println("  - " + step)
	}
	fmt.Println()
	fmt.Println(successStyle.Render("Course complete — congratulations!"))
	return nil
}

func readLine(in *bufio.Reader) string {
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// readChoice reads a 1-based menu selection, returning the 0-based index.
// Invalid input re-prompts.
func readChoice(in *bufio.Reader, n int) int {
	for {
		fmt.Print("> ")
		line := readLine(in)
		if v, err := strconv.Atoi(line); err == nil && v >= 1 && v <= n {
			return v - 1
		}
		fmt.Printf("Enter a number between 1 and %d.\n", n)
	}
}

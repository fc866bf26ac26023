package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show learning progress and adaptations",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		eng, st, err := buildEngine(cmd, log)
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := eng.Summary(cmd.Context(), learnerID(cmd))
		if err != nil {
			return err
		}

		fmt.Println(titleStyle.Render("Progress — " + s.LearnerID))
		fmt.Println()
		fmt.Printf("%s %s\n", headerStyle.Render("Current module:"), s.CurrentModule)
		if len(s.CompletedModules) > 0 {
			fmt.Printf("%s %s\n", headerStyle.Render("Completed:"), strings.Join(s.CompletedModules, ", "))
		}
		fmt.Printf("%s %d\n", headerStyle.Render("Difficulty level:"), s.DifficultyLevel)

		if s.TotalQuestions > 0 {
			fmt.Printf("%s %d/%d (%.0f%%)\n", headerStyle.Render("Questions:"),
				s.CorrectAnswers, s.TotalQuestions, s.Accuracy*100)
		} else {
			fmt.Println(dimStyle.Render("No questions answered yet."))
		}
		if s.PendingClarifications > 0 {
			fmt.Printf("%s %d\n", noteStyle.Render("Pending clarifications:"), s.PendingClarifications)
		}

		fmt.Println()
		fmt.Println(headerStyle.Render("Adaptations"))
		fmt.Printf("  Recommended style: %s\n", s.Adaptations.RecommendedStyle)
		if s.Adaptations.ShouldUseExamples {
			fmt.Println(noteStyle.Render("  Switching to examples-first explanations."))
		}
		if s.Adaptations.ShouldSimplify {
			fmt.Println(noteStyle.Render("  Simplifying explanations."))
		}

		if t := s.RecentTrend; t != nil {
			fmt.Println()
			fmt.Println(headerStyle.Render("Recent trend (last 3)"))
			fmt.Printf("  Accuracy: %.0f%%   Avg hesitation: %.1fs\n", t.Accuracy*100, t.AvgHesitation)
		}
		return nil
	},
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset learner data and start over",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger(cmd)
		defer log.Sync()

		eng, st, err := buildEngine(cmd, log)
		if err != nil {
			return err
		}
		defer st.Close()

		id := learnerID(cmd)
		if err := eng.Reset(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Learner %q reset. The next session starts with the diagnostic.\n", id)
		return nil
	},
}

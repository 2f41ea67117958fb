package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iyngr/ci-mock-sub000/internal/assessment"
)

var loadCmd = &cobra.Command{
	Use:   "load <submission|assessment> <file.json>",
	Short: "Load a submission or assessment document into the store",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		switch args[0] {
		case "submission":
			sub, err := assessment.DecodeSubmission(raw)
			if err != nil {
				return err
			}
			if err := st.Submissions().Put(ctx, sub); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded submission %s\n", sub.ID)
		case "assessment":
			asm, err := assessment.DecodeAssessment(raw)
			if err != nil {
				return err
			}
			if err := st.Assessments().Put(ctx, asm); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded assessment %s\n", asm.ID)
		default:
			return fmt.Errorf("unknown document type %q (want submission or assessment)", args[0])
		}
		return nil
	},
}

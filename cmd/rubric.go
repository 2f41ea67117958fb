package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyngr/ci-mock-sub000/internal/config"
	"github.com/iyngr/ci-mock-sub000/internal/rubric"
)

var rubricCmd = &cobra.Command{
	Use:   "rubric [name]",
	Short: "Print the resolved rubric, falling back to the default",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.FromEnv(ctx)
		if err != nil {
			return err
		}

		name := cfg.RubricName
		if len(args) == 1 {
			name = args[0]
		}

		p := rubric.NewProvider(cfg.RubricBaseURL, cfg.RubricTimeout, cfg.RubricCacheTTL)
		r := p.Get(ctx, name)

		out, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

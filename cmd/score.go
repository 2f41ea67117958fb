package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyngr/ci-mock-sub000/internal/config"
	"github.com/iyngr/ci-mock-sub000/internal/evaluation"
	"github.com/iyngr/ci-mock-sub000/internal/judge"
	"github.com/iyngr/ci-mock-sub000/internal/rubric"
)

var scoreCmd = &cobra.Command{
	Use:   "score <submission-id>",
	Short: "Score one submission and print the evaluation result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.FromEnv(ctx)
		if err != nil {
			return err
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		jc, err := judge.NewClient(ctx, cfg.Judge)
		if err != nil {
			return err
		}

		svc := evaluation.NewService(
			st.Submissions(),
			st.Assessments(),
			rubric.NewProvider(cfg.RubricBaseURL, cfg.RubricTimeout, cfg.RubricCacheTTL),
			jc,
			evaluation.NewRecorder(st.Evaluations(), st.Submissions(), cfg.PersistTimeout),
			cfg.RubricName,
		)

		res, err := svc.Score(ctx, args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iyngr/ci-mock-sub000/internal/config"
)

var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Judge client utilities",
}

var judgeDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report judge configuration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.FromEnv(cmd.Context())
		if err != nil {
			return err
		}
		j := cfg.Judge

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "backend:     %s\n", j.Backend)
		fmt.Fprintf(w, "enabled:     %v\n", j.Enabled)
		fmt.Fprintf(w, "endpoint:    %s\n", orUnset(j.Endpoint))
		fmt.Fprintf(w, "credential:  %s\n", setOrUnset(j.APIKey))
		fmt.Fprintf(w, "deployment:  %s\n", orUnset(j.Deployment))
		fmt.Fprintf(w, "timeout:     %s\n", j.Timeout)
		fmt.Fprintf(w, "max retries: %d\n", j.MaxRetries)

		if j.Ready() {
			fmt.Fprintln(w, "status:      ready")
		} else {
			fmt.Fprintln(w, "status:      not ready (judged answers will score at the default 0.5 breakdown)")
		}
		return nil
	},
}

func orUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}

func setOrUnset(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "(set)"
}

func init() {
	judgeCmd.AddCommand(judgeDoctorCmd)
}

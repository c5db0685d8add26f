package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const defaultRetention = 24 * time.Hour

var cleanupRetention time.Duration

var rateLimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Inspect and maintain anonymous chat quotas",
}

var rateLimitStatusCmd = &cobra.Command{
	Use:   "status <identifier>",
	Short: "Show the remaining quota for an identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limiter, err := requireRateLimit()
		if err != nil {
			return err
		}
		status, err := limiter.Status(cmd.Context(), args[0], false)
		if err != nil {
			return fmt.Errorf("rate limit status: %w", err)
		}

		out := cmd.OutOrStdout()
		printField(out, "identifier", args[0])
		printField(out, "remaining", fmt.Sprintf("%d/%d", status.Remaining, status.Total))
		printField(out, "resets at", status.ResetAt.Format(time.RFC3339))
		return nil
	},
}

var rateLimitResetCmd = &cobra.Command{
	Use:   "reset <identifier>",
	Short: "Restore the full quota for an identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limiter, err := requireRateLimit()
		if err != nil {
			return err
		}
		if err := limiter.Reset(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("reset %s: %w", args[0], err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Quota reset for %s\n", args[0])
		return nil
	},
}

var rateLimitCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete quota records older than the retention window",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limiter, err := requireRateLimit()
		if err != nil {
			return err
		}
		removed, err := limiter.Cleanup(cmd.Context(), cleanupRetention)
		if err != nil {
			return fmt.Errorf("cleanup: %w", err)
		}
		okColor.Fprintf(cmd.OutOrStdout(), "Removed %d stale records\n", removed)
		return nil
	},
}

func init() {
	rateLimitCleanupCmd.Flags().DurationVar(&cleanupRetention, "retention", defaultRetention, "keep records whose window started within this duration")
	rateLimitCmd.AddCommand(rateLimitStatusCmd, rateLimitResetCmd, rateLimitCleanupCmd)
	rootCmd.AddCommand(rateLimitCmd)
}

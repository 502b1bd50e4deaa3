package commands

import (
	"context"
	"fmt"

	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Logs in and out again to verify the credentials.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *bni.BNIScraper) error {
			session := s.Session()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s, session valid until %s\n",
				s.DisplayName(), session.ExpiresAt.Format("15:04:05"))
			return nil
		})
	},
}

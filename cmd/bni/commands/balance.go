package commands

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(balanceCmd)
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Prints every account with its balances.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSession(cmd.Context(), func(ctx context.Context, s *bni.BNIScraper) error {
			summary, err := s.Summary(ctx)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Account", "Name", "Product", "Currency", "Effective", "Blocked", "Balance"})
			for _, acc := range summary.Accounts {
				t.AppendRow(table.Row{
					acc.General.AccountNumber,
					acc.General.Name,
					acc.General.Product,
					acc.General.Currency,
					acc.Balance.EffectiveBalance,
					acc.Balance.BlockingBalance,
					acc.Balance.Balance,
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "", "Total", summary.TotalBalance})
			alignAmounts(t, 5, 6, 7)
			t.Render()
			return nil
		})
	},
}

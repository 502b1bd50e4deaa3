package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lc-at/bni-api/internal/scraper/bank"
	"github.com/lc-at/bni-api/internal/scraper/bank/bni"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	historyFrom string
	historyTo   string
)

func init() {
	historyCmd.Flags().StringVar(&historyFrom, "from", "", "first day, e.g. 01-Jun-2019 (default: a week before --to)")
	historyCmd.Flags().StringVar(&historyTo, "to", "", "last day, e.g. 08-Jun-2019 (default: today)")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history <account number> [--from DD-Mon-YYYY] [--to DD-Mon-YYYY]",
	Short: "Prints the transactions of an account.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := historyRange(time.Now(), historyFrom, historyTo)
		if err != nil {
			return err
		}
		// Fail before logging in.
		if err := bni.ValidateDateRange(from, to); err != nil {
			return err
		}

		return withSession(cmd.Context(), func(ctx context.Context, s *bni.BNIScraper) error {
			txns, err := s.TransactionHistory(ctx, args[0], from, to)
			if err != nil {
				return err
			}

			t := newTable(cmd.OutOrStdout())
			t.SetTitle(fmt.Sprintf("%s  %s to %s", args[0], bni.FormatDate(from), bni.FormatDate(to)))
			t.AppendHeader(table.Row{"Date", "Description", "Type", "Amount", "Balance"})
			for _, txn := range txns {
				t.AppendRow(table.Row{txn.Date, txn.Description, txn.Type, txn.Amount, txn.Balance})
			}
			t.AppendFooter(table.Row{"", fmt.Sprintf("%d transactions", len(txns)), "Net", netFlow(txns).StringFixed(2), ""})
			alignAmounts(t, 4, 5)
			t.Render()
			return nil
		})
	},
}

func historyRange(now time.Time, fromFlag, toFlag string) (from, to time.Time, err error) {
	y, m, d := now.Date()
	to = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if toFlag != "" {
		if to, err = bni.ParseDate(toFlag); err != nil {
			return from, to, fmt.Errorf("--to: %w", err)
		}
	}

	from = to.AddDate(0, 0, -7)
	if fromFlag != "" {
		if from, err = bni.ParseDate(fromFlag); err != nil {
			return from, to, fmt.Errorf("--from: %w", err)
		}
	}
	return from, to, nil
}

// netFlow sums credits minus debits. Rows with an unreadable amount are
// skipped.
func netFlow(txns []bank.Transaction) decimal.Decimal {
	net := decimal.Zero
	for _, txn := range txns {
		amount, err := bni.ParseAmount(txn.Amount)
		if err != nil {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(txn.Type)) {
		case "CR", "K":
			net = net.Add(amount)
		case "DB", "D":
			net = net.Sub(amount)
		}
	}
	return net
}

// Package statement handles categorization straight from CAMT.053 bank
// statements.
package statement

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mlaurent/stmt-categorize/cmd/categorize"
	"mlaurent/stmt-categorize/cmd/root"
	"mlaurent/stmt-categorize/internal/ingest"
)

// Cmd represents the statement command.
var Cmd = &cobra.Command{
	Use:   "statement",
	Short: "Categorize a CAMT.053 bank statement",
	Long: `Statement reads a CAMT.053 XML bank statement, extracts its booked
entries and runs them through the same categorization flow as the
categorize command.`,
	RunE: statementFunc,
}

func statementFunc(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transactions, _, err := ingest.ReadCAMT(root.SharedFlags.Input, nil)
	if err != nil {
		return err
	}

	return categorize.Run(ctx, transactions)
}

// Package categorize handles categorization of converted statement tables.
package categorize

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mlaurent/stmt-categorize/cmd/root"
	"mlaurent/stmt-categorize/internal/container"
	"mlaurent/stmt-categorize/internal/ingest"
	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/models"
	"mlaurent/stmt-categorize/internal/report"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a converted transaction table",
	Long: `Categorize reads a CSV transaction table (date, description, amount),
assigns every row a category and writes the enriched table. With --totals,
a statement summary per line item is written as well.`,
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	transactions, _, err := ingest.ReadCSV(root.SharedFlags.Input, nil)
	if err != nil {
		return err
	}

	return Run(ctx, transactions)
}

// Run categorizes the given transactions under the configured industry and
// writes the output files. It is shared by the categorize and statement
// commands, which differ only in how they ingest transactions.
func Run(ctx context.Context, transactions []models.Transaction) error {
	c, err := container.NewContainer(ctx, root.Cfg, root.SharedFlags.Industry)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			c.GetLogger().WithError(err).Warn("Failed to close container")
		}
	}()

	logger := c.GetLogger()

	categorized, summary := c.GetPipeline().Categorize(ctx, transactions)
	if summary.Warnings > 0 {
		logger.WithField(logging.FieldCount, summary.Warnings).
			Warn("Some transactions fell back to the default category, review match_source=DEFAULT rows")
	}

	if err := report.WriteTransactions(categorized, root.SharedFlags.Output, root.Delimiter(), logger); err != nil {
		return err
	}

	if root.SharedFlags.Totals != "" {
		totals, err := report.Totals(categorized, c.GetIndustryConfig())
		if err != nil {
			return err
		}
		if err := report.WriteTotals(totals, root.SharedFlags.Totals, root.Delimiter(), logger); err != nil {
			return err
		}
	}

	return nil
}

// Package batch handles categorization of a whole directory of converted
// statement tables.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"mlaurent/stmt-categorize/cmd/root"
	"mlaurent/stmt-categorize/internal/container"
	"mlaurent/stmt-categorize/internal/ingest"
	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/perrors"
	"mlaurent/stmt-categorize/internal/report"
)

// Cmd represents the batch command.
var Cmd = &cobra.Command{
	Use:   "batch",
	Short: "Categorize every transaction table in a directory",
	Long: `Batch reads every CSV file in the input directory, categorizes it and
writes the enriched table under the same name in the output directory.
Files that are not valid transaction tables are skipped with an error
log; one bad file does not abort the batch.`,
	RunE: batchFunc,
}

func batchFunc(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	entries, err := os.ReadDir(root.SharedFlags.Input)
	if err != nil {
		return fmt.Errorf("error reading input directory: %w", err)
	}

	processed, failed := 0, 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		if ctx.Err() != nil {
			logger.Warn("Batch cancelled")
			break
		}

		inPath := filepath.Join(root.SharedFlags.Input, entry.Name())
		outPath := filepath.Join(root.SharedFlags.Output, entry.Name())

		if err := processFile(ctx, c, inPath, outPath); err != nil {
			var formatErr *perrors.FormatError
			if errors.As(err, &formatErr) {
				logger.WithError(err).WithField(logging.FieldInputFile, inPath).
					Error("Skipping file that is not a transaction table")
				failed++
				continue
			}
			return err
		}
		processed++
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: processed},
		logging.Field{Key: logging.FieldSkipped, Value: failed},
	).Info("Batch complete")

	return nil
}

func processFile(ctx context.Context, c *container.Container, inPath, outPath string) error {
	logger := c.GetLogger()

	transactions, _, err := ingest.ReadCSV(inPath, logger)
	if err != nil {
		return err
	}

	categorized, summary := c.GetPipeline().Categorize(ctx, transactions)
	if summary.Warnings > 0 {
		logger.WithFields(
			logging.Field{Key: logging.FieldInputFile, Value: inPath},
			logging.Field{Key: logging.FieldCount, Value: summary.Warnings},
		).Warn("Some transactions fell back to the default category")
	}

	return report.WriteTransactions(categorized, outPath, root.Delimiter(), logger)
}

// Package report writes categorization output: the enriched transaction
// table and the per-line-item statement totals.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"mlaurent/stmt-categorize/internal/industry"
	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/models"
)

// LineItemTotal is one row of the statement summary: a line item from the
// industry configuration and the sum of all transaction amounts whose
// category maps to it.
type LineItemTotal struct {
	LineItem string          `csv:"line_item"`
	Total    decimal.Decimal `csv:"total"`
}

// WriteTransactions writes the enriched transaction table to path.
func WriteTransactions(transactions []models.Transaction, path string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
	).Info("Writing categorized transactions")

	return writeCSV(&transactions, path, delimiter, logger)
}

// Totals sums transaction amounts per statement line item. The result
// follows the line-item order of the industry configuration and includes
// every configured line item, zero or not, so statements line up across
// periods. A category no config resolves surfaces as UnknownCategoryError.
func Totals(transactions []models.Transaction, cfg *industry.Config) ([]LineItemTotal, error) {
	mapper := industry.NewMapper(cfg)

	sums := make(map[string]decimal.Decimal, len(cfg.LineItems))
	for _, tx := range transactions {
		lineItem, err := mapper.Map(tx.Category)
		if err != nil {
			return nil, err
		}
		sums[lineItem] = sums[lineItem].Add(tx.Amount)
	}

	totals := make([]LineItemTotal, 0, len(cfg.LineItems))
	for _, li := range cfg.LineItems {
		totals = append(totals, LineItemTotal{LineItem: li, Total: sums[li]})
	}
	return totals, nil
}

// WriteTotals writes the statement summary to path.
func WriteTotals(totals []LineItemTotal, path string, delimiter rune, logger logging.Logger) error {
	if logger == nil {
		logger = logging.GetLogger()
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(totals)},
	).Info("Writing statement totals")

	return writeCSV(&totals, path, delimiter, logger)
}

func writeCSV(rows interface{}, path string, delimiter rune, logger logging.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close output file")
		}
	}()

	writer := csv.NewWriter(file)
	if delimiter != 0 {
		writer.Comma = delimiter
	}

	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(writer)); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return nil
}

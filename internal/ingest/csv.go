// Package ingest reads transaction tables from their source formats: the
// CSV tables produced by the statement conversion step and raw CAMT.053
// XML statements.
package ingest

import (
	"os"

	"github.com/gocarina/gocsv"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/models"
	"mlaurent/stmt-categorize/internal/perrors"
)

// statementRow is the on-disk shape of a converted statement table.
// Amount stays a string here so a bad value can skip one row instead of
// failing the whole file.
type statementRow struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
}

// ReadCSV loads transactions from a converted statement table. Rows
// missing a required column or carrying an unparsable amount are excluded
// and counted, not treated as errors; that is the data-quality policy for
// converter output.
func ReadCSV(path string, logger logging.Logger) ([]models.Transaction, int, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, &perrors.FormatError{File: path, Expected: "CSV", Reason: "file not readable"}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	var rows []statementRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, 0, &perrors.FormatError{File: path, Expected: "CSV", Reason: err.Error()}
	}

	transactions := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for i, r := range rows {
		if r.Date == "" || r.Description == "" || r.Amount == "" {
			logger.WithFields(
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldReason, Value: "missing required column"},
				logging.Field{Key: logging.FieldCount, Value: i + 1},
			).Warn("Skipping incomplete row")
			skipped++
			continue
		}

		amount, ok := models.ParseAmount(r.Amount)
		if !ok {
			logger.WithFields(
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldReason, Value: "unparsable amount"},
				logging.Field{Key: logging.FieldCount, Value: i + 1},
			).Warn("Skipping row with bad amount")
			skipped++
			continue
		}

		transactions = append(transactions, models.Transaction{
			Date:        r.Date,
			Description: r.Description,
			Amount:      amount,
		})
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldSkipped, Value: skipped},
	).Info("Loaded transactions from CSV")

	return transactions, skipped, nil
}

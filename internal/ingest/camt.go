package ingest

import (
	"os"
	"strings"

	"gopkg.in/xmlpath.v2"

	"mlaurent/stmt-categorize/internal/logging"
	"mlaurent/stmt-categorize/internal/models"
	"mlaurent/stmt-categorize/internal/perrors"
)

var (
	pathStatement  = xmlpath.MustCompile("//BkToCstmrStmt/Stmt")
	pathEntry      = xmlpath.MustCompile("//Ntry")
	pathBookgDate  = xmlpath.MustCompile("BookgDt/Dt")
	pathAmount     = xmlpath.MustCompile("Amt")
	pathCdtDbtInd  = xmlpath.MustCompile("CdtDbtInd")
	pathRemittance = xmlpath.MustCompile("NtryDtls/TxDtls/RmtInf/Ustrd")
	pathAddtlInfo  = xmlpath.MustCompile("AddtlNtryInf")
)

// ReadCAMT loads transactions from a CAMT.053 bank statement. Entries
// missing a booking date, description or parsable amount are excluded and
// counted, mirroring the CSV data-quality policy. Debit entries get a
// negated amount so the sign convention matches converter output.
func ReadCAMT(path string, logger logging.Logger) ([]models.Transaction, int, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, &perrors.FormatError{File: path, Expected: "CAMT.053 XML", Reason: "file not readable"}
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close input file")
		}
	}()

	root, err := xmlpath.Parse(file)
	if err != nil {
		return nil, 0, &perrors.FormatError{File: path, Expected: "CAMT.053 XML", Reason: "not well-formed XML"}
	}

	if iter := pathStatement.Iter(root); !iter.Next() {
		return nil, 0, &perrors.FormatError{File: path, Expected: "CAMT.053 XML", Reason: "no bank-to-customer statement element"}
	}

	var transactions []models.Transaction
	skipped := 0

	entries := pathEntry.Iter(root)
	for entries.Next() {
		entry := entries.Node()

		date, _ := pathBookgDate.String(entry)
		rawAmount, _ := pathAmount.String(entry)
		description := entryDescription(entry)

		amount, ok := models.ParseAmount(rawAmount)
		if date == "" || description == "" || !ok {
			logger.WithFields(
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldReason, Value: "incomplete statement entry"},
			).Warn("Skipping statement entry")
			skipped++
			continue
		}

		if ind, _ := pathCdtDbtInd.String(entry); strings.TrimSpace(ind) == "DBIT" {
			amount = amount.Neg()
		}

		transactions = append(transactions, models.Transaction{
			Date:        strings.TrimSpace(date),
			Description: cleanText(description),
			Amount:      amount,
		})
	}

	logger.WithFields(
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: logging.FieldSkipped, Value: skipped},
	).Info("Loaded transactions from CAMT.053 statement")

	return transactions, skipped, nil
}

// entryDescription prefers the unstructured remittance info and falls back
// to the additional entry info, which some banks use instead.
func entryDescription(entry *xmlpath.Node) string {
	if s, ok := pathRemittance.String(entry); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if s, ok := pathAddtlInfo.String(entry); ok {
		return s
	}
	return ""
}

// cleanText collapses the whitespace and newlines XML text content tends
// to carry.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

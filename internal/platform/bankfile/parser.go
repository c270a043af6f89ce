package bankfile

import (
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/hearthfin/hearth_backend/internal/core/domain"
	"github.com/hearthfin/hearth_backend/internal/utils/hashing"
	"github.com/shopspring/decimal"
)

// layoutReplacer converts both Python-style (%d/%m/%Y) and token-style
// (DD/MM/YYYY) date format specs to Go reference layouts.
var layoutReplacer = strings.NewReplacer(
	"%d", "02",
	"%m", "01",
	"%Y", "2006",
	"%y", "06",
	"YYYY", "2006",
	"DD", "02",
	"MM", "01",
	"YY", "06",
)

func toGoLayout(dateFormat string) string {
	return layoutReplacer.Replace(dateFormat)
}

var amountCleaner = strings.NewReplacer(",", "", "$", "", "£", "", "€", "")

// ParseCSV parses a bank statement export into raw transactions per the bank
// config. Malformed rows are skipped; the remaining rows come back in file
// order with their fingerprints computed.
func ParseCSV(csvContent string, cfg *Config) ([]domain.RawTransaction, error) {
	multiplier := decimal.NewFromInt(1)
	if cfg.AmountMultiplier != "" {
		var err error
		multiplier, err = decimal.NewFromString(cfg.AmountMultiplier)
		if err != nil {
			return nil, fmt.Errorf("invalid amount multiplier %q: %w", cfg.AmountMultiplier, err)
		}
	}

	reader := csv.NewReader(strings.NewReader(csvContent))
	if cfg.Delimiter != "" {
		reader.Comma = rune(cfg.Delimiter[0])
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []domain.RawTransaction{}, nil
	}

	header := records[0]
	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		colIndex[strings.TrimSpace(h)] = i
	}

	rows := records[1:]
	if cfg.SkipRows > 0 && cfg.SkipRows < len(rows) {
		rows = rows[cfg.SkipRows:]
	} else if cfg.SkipRows >= len(rows) {
		rows = nil
	}

	transactions := make([]domain.RawTransaction, 0, len(rows))
	for _, record := range rows {
		txn, ok := parseRow(record, colIndex, cfg, multiplier)
		if !ok {
			continue
		}
		transactions = append(transactions, txn)
	}

	return transactions, nil
}

func field(record []string, colIndex map[string]int, name string) string {
	idx, ok := colIndex[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func parseRow(record []string, colIndex map[string]int, cfg *Config, multiplier decimal.Decimal) (domain.RawTransaction, bool) {
	var txn domain.RawTransaction

	dateStr := field(record, colIndex, cfg.Columns.Date)
	if dateStr == "" {
		return txn, false
	}
	date, err := time.Parse(toGoLayout(cfg.DateFormat), dateStr)
	if err != nil {
		return txn, false
	}

	description := field(record, colIndex, cfg.Columns.Description)
	if description == "" {
		return txn, false
	}

	var amount decimal.Decimal
	if cfg.Columns.Amount != "" {
		amountStr := amountCleaner.Replace(field(record, colIndex, cfg.Columns.Amount))
		if amountStr == "" {
			return txn, false
		}
		amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return txn, false
		}
		amount = amount.Mul(multiplier)
	} else if cfg.Columns.Debit != "" && cfg.Columns.Credit != "" {
		debit, credit := decimal.Zero, decimal.Zero
		if s := amountCleaner.Replace(field(record, colIndex, cfg.Columns.Debit)); s != "" {
			if debit, err = decimal.NewFromString(s); err != nil {
				return txn, false
			}
		}
		if s := amountCleaner.Replace(field(record, colIndex, cfg.Columns.Credit)); s != "" {
			if credit, err = decimal.NewFromString(s); err != nil {
				return txn, false
			}
		}
		amount = credit.Sub(debit)
	} else {
		return txn, false
	}

	if cfg.SignConvention == "inverted" {
		amount = amount.Neg()
	}

	txn.Date = date
	txn.Description = description
	txn.Amount = amount
	if cfg.Columns.Reference != "" {
		if ref := field(record, colIndex, cfg.Columns.Reference); ref != "" {
			txn.Reference = &ref
		}
	}
	isoDate := date.Format("2006-01-02")
	txn.Fingerprint = hashing.Fingerprint(isoDate, amount.String(), description)

	return txn, true
}

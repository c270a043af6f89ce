package bankfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthfin/hearth_backend/internal/utils/hashing"
)

func genericConfig() *Config {
	cfg := builtinConfigs()["generic-csv"]
	return &cfg
}

func TestParseCSVStandard(t *testing.T) {
	csvContent := "Date,Description,Amount\n" +
		"15/01/2024,TESCO STORES 3297,-42.50\n" +
		"16/01/2024,SALARY ACME LTD,2500.00\n"

	txns, err := ParseCSV(csvContent, genericConfig())
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, "TESCO STORES 3297", txns[0].Description)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("-42.50")))
	assert.Equal(t, 2024, txns[0].Date.Year())
	assert.Equal(t, 15, txns[0].Date.Day())

	assert.Equal(t, "SALARY ACME LTD", txns[1].Description)
	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("2500.00")))
}

func TestParseCSVComputesFingerprints(t *testing.T) {
	csvContent := "Date,Description,Amount\n15/01/2024,TESCO STORES 3297,-42.50\n"

	txns, err := ParseCSV(csvContent, genericConfig())
	require.NoError(t, err)
	require.Len(t, txns, 1)

	want := hashing.Fingerprint("2024-01-15", txns[0].Amount.String(), "TESCO STORES 3297")
	assert.Equal(t, want, txns[0].Fingerprint)
}

func TestParseCSVDebitCreditSplit(t *testing.T) {
	cfg := builtinConfigs()["uk-bank-debit-credit"]
	csvContent := "Date,Description,Debit,Credit\n" +
		"15/01/2024,COUNCIL TAX,120.00,\n" +
		"16/01/2024,REFUND,,30.00\n"

	txns, err := ParseCSV(csvContent, &cfg)
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("-120.00")), "Debit becomes a negative amount")
	assert.True(t, txns[1].Amount.Equal(decimal.RequireFromString("30.00")), "Credit becomes a positive amount")
}

func TestParseCSVInvertedSignConvention(t *testing.T) {
	cfg := genericConfig()
	cfg.SignConvention = "inverted"

	txns, err := ParseCSV("Date,Description,Amount\n15/01/2024,CARD PAYMENT,42.50\n", cfg)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("-42.50")))
}

func TestParseCSVAmountCleaning(t *testing.T) {
	txns, err := ParseCSV("Date,Description,Amount\n15/01/2024,TRANSFER,\"£1,250.00\"\n", genericConfig())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.True(t, txns[0].Amount.Equal(decimal.RequireFromString("1250.00")))
}

func TestParseCSVAmountMultiplier(t *testing.T) {
	cfg := genericConfig()
	cfg.AmountMultiplier = "0.01"

	// Penny-denominated file: 12345 pennies is exactly 123.45.
	txns, err := ParseCSV("Date,Description,Amount\n15/01/2024,MINOR UNITS,12345\n", cfg)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "123.45", txns[0].Amount.String())
}

func TestParseCSVInvalidMultiplier(t *testing.T) {
	cfg := genericConfig()
	cfg.AmountMultiplier = "not-a-number"

	_, err := ParseCSV("Date,Description,Amount\n15/01/2024,ROW,10.00\n", cfg)
	assert.ErrorContains(t, err, "invalid amount multiplier")
}

func TestParseCSVUSDateFormat(t *testing.T) {
	cfg := builtinConfigs()["us-bank-standard"]

	txns, err := ParseCSV("Date,Description,Amount\n01/15/2024,WHOLEFOODS,-42.50\n", &cfg)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, 15, txns[0].Date.Day())
	assert.Equal(t, 1, int(txns[0].Date.Month()))
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	csvContent := "Date,Description,Amount\n" +
		"not-a-date,BAD ROW,10.00\n" +
		"15/01/2024,,10.00\n" +
		"15/01/2024,NO AMOUNT,\n" +
		"15/01/2024,GOOD ROW,10.00\n"

	txns, err := ParseCSV(csvContent, genericConfig())
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "GOOD ROW", txns[0].Description)
}

func TestParseCSVSkipRows(t *testing.T) {
	cfg := genericConfig()
	cfg.SkipRows = 1
	csvContent := "Date,Description,Amount\n" +
		"15/01/2024,SKIPPED,1.00\n" +
		"16/01/2024,KEPT,2.00\n"

	txns, err := ParseCSV(csvContent, cfg)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "KEPT", txns[0].Description)
}

func TestParseCSVReferenceColumn(t *testing.T) {
	cfg := genericConfig()
	cfg.Columns.Reference = "Reference"
	csvContent := "Date,Description,Amount,Reference\n15/01/2024,BACS IN,100.00,INV-0042\n"

	txns, err := ParseCSV(csvContent, cfg)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	require.NotNil(t, txns[0].Reference)
	assert.Equal(t, "INV-0042", *txns[0].Reference)
}

func TestToGoLayout(t *testing.T) {
	assert.Equal(t, "02/01/2006", toGoLayout("DD/MM/YYYY"))
	assert.Equal(t, "01/02/2006", toGoLayout("MM/DD/YYYY"))
	assert.Equal(t, "2006-01-02", toGoLayout("YYYY-MM-DD"))
	assert.Equal(t, "02/01/2006", toGoLayout("%d/%m/%Y"))
}

func TestRegistryBuiltins(t *testing.T) {
	registry, err := NewRegistry("")
	require.NoError(t, err)

	assert.NotNil(t, registry.Get("generic-csv"))
	assert.NotNil(t, registry.Get("uk-bank-debit-credit"))
	assert.Nil(t, registry.Get("no-such-bank"))
	assert.GreaterOrEqual(t, len(registry.Names()), 4)
}

func TestRegistryMergesDirConfigs(t *testing.T) {
	dir := t.TempDir()
	yamlCfg := "name: my-credit-union\n" +
		"description: Credit union export\n" +
		"dateFormat: YYYY-MM-DD\n" +
		"signConvention: inverted\n" +
		"columns:\n" +
		"  date: Posted\n" +
		"  description: Memo\n" +
		"  amount: Value\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "credit-union.yaml"), []byte(yamlCfg), 0o644))

	registry, err := NewRegistry(dir)
	require.NoError(t, err)

	cfg := registry.Get("my-credit-union")
	require.NotNil(t, cfg)
	assert.Equal(t, "Posted", cfg.Columns.Date)
	assert.Equal(t, "inverted", cfg.SignConvention)
	assert.Equal(t, ",", cfg.Delimiter, "Delimiter defaults when omitted")
	assert.Equal(t, "1", cfg.AmountMultiplier, "Multiplier defaults when omitted")

	// Built-ins survive the merge.
	assert.NotNil(t, registry.Get("generic-csv"))
}

func TestRegistryRejectsNamelessConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("description: no name here\n"), 0o644))

	_, err := NewRegistry(dir)
	assert.Error(t, err)
}

func TestRegistryRejectsInvalidMultiplier(t *testing.T) {
	dir := t.TempDir()
	yamlCfg := "name: bad-multiplier\n" +
		"dateFormat: YYYY-MM-DD\n" +
		"amountMultiplier: \"1,000\"\n" +
		"columns:\n" +
		"  date: Date\n" +
		"  description: Description\n" +
		"  amount: Amount\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte(yamlCfg), 0o644))

	_, err := NewRegistry(dir)
	assert.ErrorContains(t, err, "invalid amountMultiplier")
}

package bankfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ColumnMapping names the CSV columns carrying each field. Either Amount or
// the Debit/Credit pair must be set.
type ColumnMapping struct {
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount,omitempty"`
	Debit       string `yaml:"debit,omitempty"`
	Credit      string `yaml:"credit,omitempty"`
	Reference   string `yaml:"reference,omitempty"`
}

// Config describes one bank's statement export format. AmountMultiplier is a
// decimal string (e.g. "0.01" for penny-denominated files) so amounts never
// pass through a float.
type Config struct {
	Name             string        `yaml:"name"`
	Description      string        `yaml:"description"`
	DateFormat       string        `yaml:"dateFormat"`
	Columns          ColumnMapping `yaml:"columns"`
	SkipRows         int           `yaml:"skipRows"`
	Delimiter        string        `yaml:"delimiter"`
	SignConvention   string        `yaml:"signConvention"` // "standard" or "inverted"
	AmountMultiplier string        `yaml:"amountMultiplier"`
}

func builtinConfigs() map[string]Config {
	return map[string]Config{
		"generic-csv": {
			Name:             "generic-csv",
			Description:      "Generic CSV (Date, Description, Amount)",
			DateFormat:       "DD/MM/YYYY",
			Columns:          ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"},
			Delimiter:        ",",
			SignConvention:   "standard",
			AmountMultiplier: "1",
		},
		"uk-bank-standard": {
			Name:             "uk-bank-standard",
			Description:      "UK Bank - Standard Format",
			DateFormat:       "DD/MM/YYYY",
			Columns:          ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"},
			Delimiter:        ",",
			SignConvention:   "standard",
			AmountMultiplier: "1",
		},
		"uk-bank-debit-credit": {
			Name:             "uk-bank-debit-credit",
			Description:      "UK Bank - Debit/Credit Split",
			DateFormat:       "DD/MM/YYYY",
			Columns:          ColumnMapping{Date: "Date", Description: "Description", Debit: "Debit", Credit: "Credit"},
			Delimiter:        ",",
			SignConvention:   "standard",
			AmountMultiplier: "1",
		},
		"us-bank-standard": {
			Name:             "us-bank-standard",
			Description:      "US Bank - Standard Format",
			DateFormat:       "MM/DD/YYYY",
			Columns:          ColumnMapping{Date: "Date", Description: "Description", Amount: "Amount"},
			Delimiter:        ",",
			SignConvention:   "standard",
			AmountMultiplier: "1",
		},
	}
}

// Registry resolves bank configs by name.
type Registry struct {
	configs map[string]Config
}

// NewRegistry returns a registry with the built-in configs, merged with any
// *.yaml files found in dir (dir may be empty).
func NewRegistry(dir string) (*Registry, error) {
	configs := builtinConfigs()

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to read bank config dir %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("failed to read bank config %s: %w", entry.Name(), err)
			}
			var cfg Config
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse bank config %s: %w", entry.Name(), err)
			}
			if cfg.Name == "" {
				return nil, fmt.Errorf("bank config %s has no name", entry.Name())
			}
			if cfg.AmountMultiplier == "" {
				cfg.AmountMultiplier = "1"
			}
			if _, err := decimal.NewFromString(cfg.AmountMultiplier); err != nil {
				return nil, fmt.Errorf("bank config %s has invalid amountMultiplier %q: %w", entry.Name(), cfg.AmountMultiplier, err)
			}
			if cfg.Delimiter == "" {
				cfg.Delimiter = ","
			}
			configs[cfg.Name] = cfg
		}
	}

	return &Registry{configs: configs}, nil
}

// Get returns the named config, or nil if unknown.
func (r *Registry) Get(name string) *Config {
	cfg, ok := r.configs[name]
	if !ok {
		return nil
	}
	return &cfg
}

// Names lists the registered config names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.configs))
	for name := range r.configs {
		names = append(names, name)
	}
	return names
}

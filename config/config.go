// Package config defines and validates the JSON run definition consumed by
// the engine
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/apexquant/apexbt/common"
	"github.com/apexquant/apexbt/eventhandlers/strategies"
	"github.com/shopspring/decimal"
)

// Sizer names accepted in SizeSettings
const (
	SizerFixedFractional = "fixed-fractional"
	SizerRiskPerTrade    = "risk-per-trade"
)

var one = decimal.NewFromInt(1)

// ReadConfigFromFile loads and parses a run definition from a path
func ReadConfigFromFile(path string) (*Config, error) {
	fileData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(fileData)
}

// LoadConfig unmarshalls byte data into a config struct
func LoadConfig(data []byte) (resp *Config, err error) {
	err = json.Unmarshal(data, &resp)
	return resp, err
}

// Validate checks all config settings
func (c *Config) Validate() error {
	if err := c.validateDataSettings(); err != nil {
		return err
	}
	if err := c.validateStrategySettings(); err != nil {
		return err
	}
	if err := c.validatePortfolioSettings(); err != nil {
		return err
	}
	if err := c.validateExchangeSettings(); err != nil {
		return err
	}
	return c.validateJournalSettings()
}

func (c *Config) validateDataSettings() error {
	if len(c.Data) == 0 {
		return errNoDataSettings
	}
	for i := range c.Data {
		if c.Data[i].Symbol == "" {
			return errNoSymbol
		}
		if c.Data[i].CSVPath == "" {
			return fmt.Errorf("%w for %v", errNoCSVPath, c.Data[i].Symbol)
		}
		if _, err := common.ParseInterval(c.Data[i].Interval); err != nil {
			return fmt.Errorf("%w '%v' for %v", errBadInterval, c.Data[i].Interval, c.Data[i].Symbol)
		}
	}
	return nil
}

func (c *Config) validateStrategySettings() error {
	if c.Strategy.Name == "" {
		return errNoStrategySettings
	}
	strat, err := strategies.LoadStrategyByName(c.Strategy.Name)
	if err != nil {
		return err
	}
	if len(c.Strategy.CustomSettings) > 0 {
		return strat.SetCustomSettings(c.Strategy.CustomSettings)
	}
	return nil
}

func (c *Config) validatePortfolioSettings() error {
	if c.Portfolio.InitialCash.LessThanOrEqual(decimal.Zero) {
		return errNoInitialCash
	}
	if c.Portfolio.MarginRequirement.IsNegative() ||
		c.Portfolio.MarginRequirement.GreaterThanOrEqual(one) {
		return errBadMarginRequirement
	}
	switch c.Portfolio.Size.Name {
	case SizerFixedFractional, SizerRiskPerTrade:
	default:
		return fmt.Errorf("%w '%v'", errBadSizer, c.Portfolio.Size.Name)
	}
	return nil
}

func (c *Config) validateExchangeSettings() error {
	for _, v := range []decimal.Decimal{
		c.Exchange.SlippagePercent,
		c.Exchange.SpreadPercent,
		c.Exchange.CommissionPerTrade,
		c.Exchange.CommissionPerUnit,
	} {
		if v.IsNegative() {
			return errNegativeFriction
		}
	}
	return nil
}

func (c *Config) validateJournalSettings() error {
	if c.Journal.Enabled && c.Journal.DatabasePath == "" {
		return errNoJournalPath
	}
	return nil
}

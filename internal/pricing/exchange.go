package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/storefront/internal/domain/errors"
	"github.com/polkiloo/storefront/internal/domain/model"
)

// ImportShippingBase is added once to every custom request estimate.
var ImportShippingBase = decimal.NewFromInt(100)

// DefaultRates returns the THB conversion rate per sourcing region.
func DefaultRates() map[model.Region]decimal.Decimal {
	return map[model.Region]decimal.Decimal{
		model.RegionUS: decimal.RequireFromString("36.50"),
		model.RegionJP: decimal.RequireFromString("0.25"),
		model.RegionCN: decimal.RequireFromString("5.10"),
		model.RegionKR: decimal.RequireFromString("0.027"),
	}
}

// RateTable is a static region to THB rate lookup.
type RateTable struct {
	rates map[model.Region]decimal.Decimal
}

// NewRateTable builds the default table with overrides applied. Overrides may only
// replace rates of known regions and must be positive.
func NewRateTable(overrides map[string]decimal.Decimal) (*RateTable, error) {
	rates := DefaultRates()
	for key, rate := range overrides {
		region := model.Region(key)
		if _, ok := rates[region]; !ok {
			return nil, &domainErrors.UnknownRegionError{Region: key}
		}
		if !rate.IsPositive() {
			return nil, fmt.Errorf("fx rate for %s must be positive", key)
		}
		rates[region] = rate
	}
	return &RateTable{rates: rates}, nil
}

// Rate returns the THB rate for region.
func (t *RateTable) Rate(region model.Region) (decimal.Decimal, error) {
	rate, ok := t.rates[region]
	if !ok {
		return decimal.Zero, &domainErrors.UnknownRegionError{Region: string(region)}
	}
	return rate, nil
}

// Convert returns the THB value of a foreign unit price, rounded to satang.
func (t *RateTable) Convert(region model.Region, foreign decimal.Decimal) (decimal.Decimal, error) {
	rate, err := t.Rate(region)
	if err != nil {
		return decimal.Zero, err
	}
	return foreign.Mul(rate).Round(2), nil
}

// Estimate computes foreignUnitPrice × rate × quantity + ImportShippingBase.
func (t *RateTable) Estimate(region model.Region, foreignUnitPrice decimal.Decimal, quantity int) (decimal.Decimal, error) {
	rate, err := t.Rate(region)
	if err != nil {
		return decimal.Zero, err
	}
	goods := foreignUnitPrice.Mul(rate).Mul(decimal.NewFromInt(int64(quantity)))
	return goods.Add(ImportShippingBase).Round(2), nil
}

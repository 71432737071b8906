package pricing

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/config"
)

// Module provides the FX rate table configured from FX_RATES.
var Module = fx.Provide(newRateTable)

func newRateTable(cfg *config.Config) (*RateTable, error) {
	return NewRateTable(cfg.FXRates)
}

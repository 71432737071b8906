package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newPointsLedger,
	NewOrderUseCase,
	NewRequestUseCase,
	NewCartUseCase,
)

func newPointsLedger(factory repository.Factory, uow repository.UnitOfWork) *PointsLedger {
	return NewPointsLedger(factory.Points(), uow)
}

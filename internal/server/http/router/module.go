package router

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/storefront/internal/app"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(newRouter)

func newRouter(facade *app.StoreFacade, logger *slog.Logger) *gin.Engine {
	return Setup(facade, logger)
}

package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storefront/internal/server/http/handlers"
	"github.com/polkiloo/storefront/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.StoreFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	sessionHandler := handlers.NewSessionHandler(facade)
	cartHandler := handlers.NewCartHandler(facade)
	orderHandler := handlers.NewOrderHandler(facade)
	requestHandler := handlers.NewRequestHandler(facade)

	api := engine.Group("/api")
	api.POST("/session", sessionHandler.Open)
	api.DELETE("/session", sessionHandler.Close)
	api.POST("/fx/estimate", requestHandler.Estimate)

	user := api.Group("")
	user.Use(middleware.AuthRequired(facade))
	user.GET("/session", sessionHandler.Current)

	user.GET("/cart", cartHandler.Get)
	user.DELETE("/cart", cartHandler.Clear)
	user.POST("/cart/lines", cartHandler.Add)
	user.DELETE("/cart/lines/:productID", cartHandler.Remove)
	user.GET("/cart/quote", cartHandler.Quote)
	user.GET("/purchases", cartHandler.Purchased)
	user.GET("/points", cartHandler.Points)

	user.POST("/orders", orderHandler.Checkout)
	user.GET("/orders", orderHandler.List)
	user.GET("/orders/:id", orderHandler.Get)
	user.POST("/orders/:id/cancel", orderHandler.Cancel)
	user.POST("/orders/:id/slip", orderHandler.SubmitSlip)
	user.POST("/orders/:id/delivered", orderHandler.ConfirmDelivery)
	user.POST("/orders/:id/remainder", orderHandler.RequestRemainder)

	user.POST("/requests", requestHandler.Submit)
	user.GET("/requests", requestHandler.List)
	user.GET("/requests/:id", requestHandler.Get)
	user.POST("/requests/:id/payment", requestHandler.SubmitPayment)

	admin := user.Group("/admin")
	admin.Use(middleware.AdminRequired())
	admin.POST("/orders/:id/slip/reject", orderHandler.RejectSlip)
	admin.POST("/orders/:id/confirm", orderHandler.ConfirmPayment)
	admin.POST("/orders/:id/ship", orderHandler.Ship)
	admin.POST("/orders/:id/arrived", orderHandler.MarkArrived)

	admin.GET("/requests", requestHandler.Queue)
	admin.POST("/requests/:id/approve", requestHandler.Approve)
	admin.POST("/requests/:id/reject", requestHandler.Reject)
	admin.POST("/requests/:id/verify", requestHandler.VerifyPayment)
	admin.POST("/requests/:id/arrived", requestHandler.MarkArrived)
	admin.POST("/requests/:id/shipping", requestHandler.MarkShipping)
	admin.POST("/requests/:id/complete", requestHandler.Complete)
	admin.PUT("/requests/:id/notes", requestHandler.Annotate)
	admin.POST("/requests/:id/order", requestHandler.SpawnOrder)

	return engine
}

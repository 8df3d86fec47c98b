package routes

import (
	"time"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/handlers"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func OrderRoutes(app *fiber.App, limiter *middleware.RateLimiter) {
	api := app.Group("/api")
	perMinute := config.AppConfig.RateLimitOrdersPerMinute

	orders := api.Group("/orders", middleware.Protected())
	orders.Post("", limiter.PerUser("orders", perMinute, time.Minute), handlers.CreateOrder)
	orders.Get("", handlers.ListMyOrders)
}

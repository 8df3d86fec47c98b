package routes

import (
	"time"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/handlers"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func PaymentRoutes(app *fiber.App, limiter *middleware.RateLimiter) {
	api := app.Group("/api")
	perMinute := config.AppConfig.RateLimitOrdersPerMinute

	payments := api.Group("/payments", middleware.Protected())
	payments.Post("", limiter.PerUser("payments", perMinute, time.Minute), handlers.CreatePayment)
	payments.Get("", handlers.ListMyPayments)
}

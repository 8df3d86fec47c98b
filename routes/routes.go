package routes

import (
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes mounts every API group. A nil limiter disables rate limiting.
func SetupRoutes(app *fiber.App, limiter *middleware.RateLimiter) {
	PublicRoutes(app)
	AuthRoutes(app)
	OrderRoutes(app, limiter)
	PaymentRoutes(app, limiter)
	AccountRoutes(app)
	UploadRoutes(app)
	AdminRoutes(app)
}

package routes

import (
	"github.com/darlington872/lastman55444-sub000/handlers"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	users := admin.Group("/users")
	users.Get("", handlers.AdminListUsers)
	users.Patch("/:id", handlers.AdminUpdateUser)

	orders := admin.Group("/orders")
	orders.Get("", handlers.AdminListOrders)
	orders.Patch("/:id", handlers.AdminUpdateOrder)

	payments := admin.Group("/payments")
	payments.Get("", handlers.AdminListPayments)
	payments.Patch("/:id", handlers.AdminUpdatePayment)

	kyc := admin.Group("/kyc")
	kyc.Get("", handlers.AdminListKyc)
	kyc.Patch("/:id", handlers.AdminUpdateKyc)

	numbers := admin.Group("/phone-numbers")
	numbers.Get("", handlers.AdminListPhoneNumbers)
	numbers.Post("", handlers.AdminCreatePhoneNumber)
	numbers.Patch("/:id", handlers.AdminUpdatePhoneNumber)
	numbers.Delete("/:id", handlers.AdminDeletePhoneNumber)

	admin.Get("/settings", handlers.AdminGetSettings)
	admin.Put("/settings", handlers.AdminUpdateSettings)
	admin.Get("/activities", handlers.AdminListActivities)
	admin.Get("/stats", handlers.AdminGetStats)
}

package routes

import (
	"github.com/darlington872/lastman55444-sub000/handlers"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func AccountRoutes(app *fiber.App) {
	api := app.Group("/api")

	kyc := api.Group("/kyc", middleware.Protected())
	kyc.Post("", handlers.SubmitKyc)
	kyc.Get("", handlers.GetMyKyc)

	api.Get("/activities", middleware.Protected(), handlers.ListMyActivities)
	api.Get("/referrals", middleware.Protected(), handlers.GetReferralSummary)

	// Authenticated by the first frame, see handlers.ServeWs.
	api.Get("/ws", handlers.WebsocketUpgrade, websocket.New(handlers.ServeWs))
}

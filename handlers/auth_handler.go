package handlers

import (
	"time"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/notifications"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const tokenTTL = 72 * time.Hour

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

func RegisterUser(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}

	user, err := services.RegisterUser(database.DB, req)
	if err != nil {
		return respondError(c, err)
	}

	token, err := issueToken(user)
	if err != nil {
		return respondError(c, err)
	}

	go notifications.SendEmail(user.FullName, user.Email, "Welcome!",
		"<h1>Welcome!</h1><p>Your account is ready. Share your referral code "+user.ReferralCode+" to earn a free number.</p>")

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, User: user})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	user, err := services.Authenticate(database.DB, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := issueToken(user)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(AuthResponse{Token: token, User: user})
}

func GetMe(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err)
	}
	user, err := services.GetUser(database.DB, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

package middleware

import (
	"errors"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrInvalidClaims is returned when the request carries no usable user_id claim.
var ErrInvalidClaims = errors.New("invalid token claims")

const accountKey = "account"

func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   []byte(config.AppConfig.JWTSecret),
		ErrorHandler: jwtError,
	})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"status": "error", "error": "Unauthorized", "message": "Missing or malformed JWT"})
	}
	return c.Status(fiber.StatusUnauthorized).
		JSON(fiber.Map{"status": "error", "error": "Unauthorized", "message": "Invalid or expired JWT"})
}

// AdminRequired checks the stored account, not the token's is_admin claim, so
// demotions and bans apply to tokens already issued.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := CurrentAccount(c)
		if err != nil && !errors.Is(err, ErrInvalidClaims) && services.KindOf(err) != services.KindNotFound {
			logger.Log.Error("admin check failed", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"status":  "error",
				"error":   "Internal",
				"message": "Something went wrong, please try again",
			})
		}
		if err != nil || !user.IsAdmin || user.IsBanned {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"status":  "error",
				"error":   "Forbidden",
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}

// CurrentUserID reads the authenticated user's id from the JWT set by Protected.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	claims, ok := userClaims(c)
	if !ok {
		return uuid.Nil, ErrInvalidClaims
	}
	raw, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidClaims
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidClaims
	}
	return id, nil
}

// CurrentAccount loads the authenticated user's row, once per request.
func CurrentAccount(c *fiber.Ctx) (*models.User, error) {
	if user, ok := c.Locals(accountKey).(*models.User); ok {
		return user, nil
	}
	id, err := CurrentUserID(c)
	if err != nil {
		return nil, err
	}
	user, err := services.GetUser(database.DB, id)
	if err != nil {
		return nil, err
	}
	c.Locals(accountKey, user)
	return user, nil
}

func userClaims(c *fiber.Ctx) (jwt.MapClaims, bool) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	return claims, ok
}

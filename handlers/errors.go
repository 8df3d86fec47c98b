package handlers

import (
	"errors"
	"strconv"

	"github.com/darlington872/lastman55444-sub000/logger"
	"github.com/darlington872/lastman55444-sub000/middleware"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/darlington872/lastman55444-sub000/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var validate = utils.NewValidator()

var statusByKind = map[services.ErrorKind]int{
	services.KindNotFound:              fiber.StatusNotFound,
	services.KindUnavailable:           fiber.StatusConflict,
	services.KindInsufficientReferrals: fiber.StatusBadRequest,
	services.KindKycRequired:           fiber.StatusForbidden,
	services.KindInsufficientBalance:   fiber.StatusBadRequest,
	services.KindValidation:            fiber.StatusBadRequest,
	services.KindInvalidTransition:     fiber.StatusConflict,
	services.KindConflict:              fiber.StatusConflict,
	services.KindUnauthorized:          fiber.StatusUnauthorized,
	services.KindForbidden:             fiber.StatusForbidden,
}

// respondError writes the JSON error body for err. Unknown errors are logged
// and hidden behind a generic 500.
func respondError(c *fiber.Ctx, err error) error {
	var le *services.LedgerError
	if errors.As(err, &le) {
		status, ok := statusByKind[le.Kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		body := fiber.Map{
			"status":  "error",
			"error":   string(le.Kind),
			"message": le.Message,
		}
		if le.Current != nil {
			body["current"] = le.Current
		}
		if le.Required != nil {
			body["required"] = le.Required
		}
		return c.Status(status).JSON(body)
	}

	logger.Log.Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status":  "error",
		"error":   "Internal",
		"message": "Something went wrong, please try again",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"error":   string(services.KindValidation),
		"message": message,
	})
}

// currentUser returns the id of the authenticated account. Deleted accounts
// are Unauthorized and banned ones Forbidden, whatever the token says.
func currentUser(c *fiber.Ctx) (uuid.UUID, error) {
	user, err := middleware.CurrentAccount(c)
	switch {
	case errors.Is(err, middleware.ErrInvalidClaims):
		return uuid.Nil, &services.LedgerError{Kind: services.KindUnauthorized, Message: "Invalid token claims"}
	case services.KindOf(err) == services.KindNotFound:
		return uuid.Nil, &services.LedgerError{Kind: services.KindUnauthorized, Message: "Account no longer exists"}
	case err != nil:
		return uuid.Nil, err
	case user.IsBanned:
		return uuid.Nil, &services.LedgerError{Kind: services.KindForbidden, Message: "This account has been suspended"}
	}
	return user.ID, nil
}

func paramUUID(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	return id, err == nil
}

// pagination reads ?page=&limit= with limit capped at 100.
func pagination(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit, (page - 1) * limit
}

func paginated(c *fiber.Ctx, data interface{}, total int64, page, limit int) error {
	return c.JSON(fiber.Map{
		"data":  data,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

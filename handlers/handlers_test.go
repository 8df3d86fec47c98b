package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	config "github.com/darlington872/lastman55444-sub000/configs"
	"github.com/darlington872/lastman55444-sub000/database"
	"github.com/darlington872/lastman55444-sub000/database/dbtest"
	"github.com/darlington872/lastman55444-sub000/models"
	"github.com/darlington872/lastman55444-sub000/routes"
	"github.com/darlington872/lastman55444-sub000/services"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

type testServer struct {
	t   *testing.T
	app *fiber.App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	config.AppConfig = config.Config{JWTSecret: testSecret, CorsOrigins: "*"}
	db := dbtest.New(t)
	require.NoError(t, services.EnsureDefaultSettings(db))
	database.DB = db
	t.Cleanup(func() { database.DB = nil })
	return &testServer{t: t, app: routes.NewApp(nil), db: db}
}

func (s *testServer) createUser(mutate func(*models.User)) models.User {
	s.t.Helper()
	id := uuid.New()
	user := models.User{
		ID:           id,
		FullName:     "Test User",
		Email:        id.String()[:8] + "@example.com",
		Password:     "x",
		ReferralCode: id.String()[:8],
		KycStatus:    models.KycStatusPending,
	}
	if mutate != nil {
		mutate(&user)
	}
	require.NoError(s.t, s.db.Create(&user).Error)
	return user
}

func (s *testServer) createPhoneNumber(price string) models.PhoneNumber {
	s.t.Helper()
	number := models.PhoneNumber{
		Number:      "+1555" + uuid.New().String()[:7],
		Country:     "United States",
		Service:     "whatsapp",
		Price:       decimal.RequireFromString(price),
		IsAvailable: true,
	}
	require.NoError(s.t, s.db.Create(&number).Error)
	return number
}

func tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID.String(),
		"is_admin": user.IsAdmin,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

// do sends a JSON request and decodes the JSON response into a map.
func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	out := map[string]interface{}{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) doList(method, path, token string) (int, []interface{}) {
	s.t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var out []interface{}
	if resp.StatusCode == http.StatusOK {
		require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func money(t *testing.T, v interface{}) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(fmt.Sprint(v))
	require.NoError(t, err)
	return d
}

func (s *testServer) balanceOf(id uuid.UUID) decimal.Decimal {
	s.t.Helper()
	var user models.User
	require.NoError(s.t, s.db.First(&user, "id = ?", id).Error)
	return user.Balance
}

package auth

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"attendku_backend/internals/constants"
	helper "attendku_backend/internals/helpers"
	helperAuth "attendku_backend/internals/helpers/auth"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func accessClaims(userID uuid.UUID, role string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":  "access",
		"id":   userID.String(),
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().Unix(),
	}
}

func newApp(opts AuthJWTOpts, extra ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	handlers := append([]fiber.Handler{AuthJWT(opts)}, extra...)
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.SendString(helperAuth.GetRole(c))
	})
	app.Get("/", handlers...)
	return app
}

func status(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	return resp.StatusCode
}

func TestAuthJWT(t *testing.T) {
	uid := uuid.New()
	valid := sign(t, accessClaims(uid, constants.RoleStudent, time.Now().Add(time.Hour)), testSecret)

	tests := []struct {
		name  string
		token string
		opts  AuthJWTOpts
		want  int
	}{
		{"valid", valid, AuthJWTOpts{Secret: testSecret}, 200},
		{"missing", "", AuthJWTOpts{Secret: testSecret}, 401},
		{"bad signature", sign(t, accessClaims(uid, "admin", time.Now().Add(time.Hour)), "other"), AuthJWTOpts{Secret: testSecret}, 401},
		{"expired", sign(t, accessClaims(uid, "admin", time.Now().Add(-time.Hour)), testSecret), AuthJWTOpts{Secret: testSecret}, 401},
		{"refresh as access", sign(t, jwt.MapClaims{"typ": "refresh", "sub": uid.String(), "exp": time.Now().Add(time.Hour).Unix()}, testSecret), AuthJWTOpts{Secret: testSecret}, 401},
		{"no user id", sign(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()}, testSecret), AuthJWTOpts{Secret: testSecret}, 401},
		{
			"blacklisted", valid,
			AuthJWTOpts{Secret: testSecret, BlacklistChecker: func(string) (bool, error) { return true, nil }},
			401,
		},
		{
			"blacklist error", valid,
			AuthJWTOpts{Secret: testSecret, BlacklistChecker: func(string) (bool, error) { return false, errors.New("db") }},
			500,
		},
		{
			"inactive user", valid,
			AuthJWTOpts{Secret: testSecret, UserActiveChecker: func(context.Context, uuid.UUID) error { return errUserInactive }},
			403,
		},
		{"missing secret", valid, AuthJWTOpts{}, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := status(t, newApp(tt.opts), tt.token); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAuthJWT_CookieFallback(t *testing.T) {
	token := sign(t, accessClaims(uuid.New(), constants.RoleAdmin, time.Now().Add(time.Hour)), testSecret)

	for _, allow := range []bool{true, false} {
		app := newApp(AuthJWTOpts{Secret: testSecret, AllowCookieFallback: allow})
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Cookie", helper.CookieAccessToken+"="+token)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		want := 401
		if allow {
			want = 200
		}
		if resp.StatusCode != want {
			t.Fatalf("allow=%v status = %d, want %d", allow, resp.StatusCode, want)
		}
	}
}

func TestOnlyRoles(t *testing.T) {
	opts := AuthJWTOpts{Secret: testSecret}
	exp := time.Now().Add(time.Hour)

	faculty := newApp(opts, OnlyRolesSlice(constants.RoleErrorFaculty("sessions"), constants.FacultyAndAdmin))
	admin := newApp(opts, OnlyRoles(constants.RoleErrorAdmin("users"), constants.RoleAdmin))

	tests := []struct {
		app  *fiber.App
		role string
		want int
	}{
		{faculty, constants.RoleSubjectTeacher, 200},
		{faculty, constants.RoleClassTeacher, 200},
		{faculty, constants.RoleAdmin, 200},
		{faculty, constants.RoleStudent, 403},
		{admin, constants.RoleAdmin, 200},
		{admin, constants.RoleClassTeacher, 403},
		{admin, "", 401},
	}
	for _, tt := range tests {
		token := sign(t, accessClaims(uuid.New(), tt.role, exp), testSecret)
		if got := status(t, tt.app, token); got != tt.want {
			t.Errorf("role %q: status = %d, want %d", tt.role, got, tt.want)
		}
	}
}

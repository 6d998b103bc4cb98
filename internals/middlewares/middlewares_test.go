package middlewares

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"attendku_backend/internals/configs"
)

func TestAllowedOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://attend.example.edu/ , ,http://localhost:5173")
	if got := AllowedOrigins(); got != "https://attend.example.edu, http://localhost:5173" {
		t.Fatalf("AllowedOrigins = %q", got)
	}
	t.Setenv("CORS_ORIGINS", "")
	if got := AllowedOrigins(); got == "" {
		t.Fatalf("default origins expected")
	}
}

func TestLoginRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(200) })

	var last int
	for i := 0; i < 6; i++ {
		resp, err := app.Test(httptest.NewRequest("POST", "/login", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		last = resp.StatusCode
		if i < 5 && last != 200 {
			t.Fatalf("request %d: status = %d", i+1, last)
		}
	}
	if last != fiber.StatusTooManyRequests {
		t.Fatalf("6th login attempt status = %d, want 429", last)
	}
}

func loginReq(identifier, xff string) *http.Request {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"identifier":"`+identifier+`","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	return req
}

func TestLoginRateLimiterIgnoresUntrustedForwardedFor(t *testing.T) {
	app := fiber.New(ProxyConfig(fiber.Config{}, nil))
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(401) })

	limited := 0
	for i := 0; i < 20; i++ {
		resp, err := app.Test(loginReq("CS21001", fmt.Sprintf("10.0.%d.%d", i/200, i%200+1)))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if i < 5 && resp.StatusCode != 401 {
			t.Fatalf("attempt %d: status = %d", i+1, resp.StatusCode)
		}
		if resp.StatusCode == fiber.StatusTooManyRequests {
			limited++
		}
	}
	if limited != 15 {
		t.Fatalf("rotating X-Forwarded-For: %d of 15 extra attempts limited", limited)
	}
}

func TestProxyConfigTrustsOnlyListedProxies(t *testing.T) {
	ipOf := func(trusted []string) string {
		app := fiber.New(ProxyConfig(fiber.Config{}, trusted))
		app.Get("/ip", func(c *fiber.Ctx) error { return c.SendString(c.IP()) })
		req := httptest.NewRequest("GET", "/ip", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}
	if got := ipOf(nil); got == "203.0.113.7" {
		t.Fatalf("untrusted peer: c.IP() = %s, header must be ignored", got)
	}
	if got := ipOf([]string{"0.0.0.0/0"}); got != "203.0.113.7" {
		t.Fatalf("trusted proxy: c.IP() = %s, want 203.0.113.7", got)
	}
}

func TestLoginRateLimiterKeyedPerAccount(t *testing.T) {
	app := fiber.New()
	app.Post("/login", LoginRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(401) })

	status := func(id string) int {
		resp, err := app.Test(loginReq(id, ""))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}
	for i := 0; i < 5; i++ {
		status("cs21001")
	}
	if got := status("CS21001"); got != fiber.StatusTooManyRequests {
		t.Fatalf("6th attempt same account = %d, want 429", got)
	}
	// teman sekelas di balik NAT yang sama tetap bisa login
	if got := status("cs21002"); got != 401 {
		t.Fatalf("other account same IP = %d, want 401", got)
	}
}

func TestLoginIPRateLimiter(t *testing.T) {
	configs.RateLimitLoginIP = 3
	t.Cleanup(func() { configs.RateLimitLoginIP = 0 })

	app := fiber.New()
	app.Post("/login", LoginIPRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(401) })
	for i := 0; i < 3; i++ {
		resp, _ := app.Test(loginReq(fmt.Sprintf("cs2100%d", i), ""))
		if resp.StatusCode != 401 {
			t.Fatalf("attempt %d = %d", i+1, resp.StatusCode)
		}
	}
	resp, _ := app.Test(loginReq("cs21009", ""))
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("spraying across accounts = %d, want 429", resp.StatusCode)
	}
}

func TestScanRateLimiterKeyedPerUser(t *testing.T) {
	app := fiber.New()
	app.Post("/scan", func(c *fiber.Ctx) error {
		c.Locals("user_id", c.Get("X-User"))
		return c.Next()
	}, ScanRateLimiter(), func(c *fiber.Ctx) error { return c.SendStatus(201) })

	hit := func(user string) int {
		req := httptest.NewRequest("POST", "/scan", nil)
		req.Header.Set("X-User", user)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}
	for i := 0; i < 10; i++ {
		hit("u1")
	}
	if got := hit("u1"); got != fiber.StatusTooManyRequests {
		t.Fatalf("u1 11th scan = %d, want 429", got)
	}
	if got := hit("u2"); got != 201 {
		t.Fatalf("u2 from same IP = %d, want 201", got)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(RecoveryMiddleware())
	app.Get("/", func(c *fiber.Ctx) error { panic("boom") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != 500 {
		t.Fatalf("status = %d, want 500", resp.StatusCode)
	}
}

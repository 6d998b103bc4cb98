package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type fakePgErr struct{ code string }

func (e fakePgErr) SQLState() string { return e.code }
func (e fakePgErr) Error() string    { return "pg error " + e.code }

func TestPGErrors(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", fakePgErr{"23505"})
	if !IsUniqueViolation(wrapped) {
		t.Fatalf("wrapped 23505 should be unique violation")
	}
	if !IsUniqueViolation(errors.New(`ERROR: duplicate key value violates unique constraint "uq_x"`)) {
		t.Fatalf("message fallback should match")
	}
	if IsUniqueViolation(nil) || IsUniqueViolation(errors.New("boom")) {
		t.Fatalf("false positive")
	}
	if !IsUniqueViolationOn(errors.New(`duplicate key "uq_attendance_student_subject_date"`), "uq_attendance_student_subject_date") {
		t.Fatalf("constraint match failed")
	}

	cases := map[string]int{
		"23505": fiber.StatusConflict,
		"23503": fiber.StatusBadRequest,
		"23514": fiber.StatusBadRequest,
		"42P01": fiber.StatusInternalServerError,
	}
	for code, want := range cases {
		if got, _ := MapPGError(fakePgErr{code}); got != want {
			t.Errorf("MapPGError(%s) = %d, want %d", code, got, want)
		}
	}
}

func TestBearerFromHeader(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":     "abc",
		"bearer   abc  ": "abc",
		`Bearer "abc"`:   "abc",
		"Basic abc":      "",
		"Bearer":         "",
		"":               "",
	}
	for in, want := range cases {
		if got := BearerFromHeader(in); got != want {
			t.Errorf("BearerFromHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetRefreshToken(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error { return c.SendString(GetRefreshToken(c)) })

	read := func(req *http.Request) string {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		b, _ := io.ReadAll(resp.Body)
		return string(b)
	}

	cookie := newReq(`{"refresh_token":"from-body"}`)
	cookie.Header.Set("Cookie", CookieRefreshToken+"=from-cookie")
	if got := read(cookie); got != "from-cookie" {
		t.Fatalf("cookie first: got %q", got)
	}
	if got := read(newReq(`{"refresh_token":" from-body "}`)); got != "from-body" {
		t.Fatalf("body: got %q", got)
	}
	if got := read(newReq("")); got != "" {
		t.Fatalf("empty: got %q", got)
	}
}

func newReq(body string) *http.Request {
	r := httptest.NewRequest("POST", "/", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func TestParseFiberAndOrder(t *testing.T) {
	app := fiber.New()
	var got Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = ParseFiber(c, "created_at", "desc", DefaultOpts)
		return nil
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/?page=3&per_page=999&sort_by=name&order=ASC&q=%20budi%20", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got.Page != 3 || got.PerPage != DefaultOpts.MaxPerPage || got.SortOrder != "asc" {
		t.Fatalf("params = %+v", got)
	}
	if got.Search != "budi" {
		t.Fatalf("search = %q", got.Search)
	}
	if got.Offset() != 2*DefaultOpts.MaxPerPage || got.Limit() != DefaultOpts.MaxPerPage {
		t.Fatalf("offset/limit = %d/%d", got.Offset(), got.Limit())
	}

	allowed := map[string]string{"name": "u.full_name", "created_at": "u.created_at"}
	if o, _ := got.SafeOrderClause(allowed, "created_at"); o != "u.full_name ASC" {
		t.Fatalf("order = %q", o)
	}
	got.SortBy = "password; DROP TABLE users"
	got.SortOrder = "whatever"
	if o, _ := got.SafeOrderClause(allowed, "created_at"); o != "u.created_at DESC" {
		t.Fatalf("unknown key should fall back, got %q", o)
	}
	if _, err := got.SafeOrderClause(allowed, "missing"); err == nil {
		t.Fatalf("expected error for invalid default")
	}

	if _, err := app.Test(httptest.NewRequest("GET", "/?page=-1&limit=abc", nil)); err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if got.Page != 1 || got.PerPage != DefaultOpts.DefaultPerPage || got.SortOrder != "desc" {
		t.Fatalf("defaults = %+v", got)
	}
}

func TestBuildPaginationFromPage(t *testing.T) {
	p := BuildPaginationFromPage(45, 2, 20)
	if p.TotalPages != 3 || !p.HasNext || !p.HasPrev {
		t.Fatalf("p = %+v", p)
	}
	if p := BuildPaginationFromPage(0, 0, 0); p.TotalPages != 1 || p.Page != 1 || p.PerPage != 20 {
		t.Fatalf("empty = %+v", p)
	}
}

type envelope struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error"`
	ErrorCode string              `json:"error_code"`
	Errors    map[string][]string `json:"errors"`
	Message   string              `json:"message"`
}

func decode(t *testing.T, app *fiber.App, path string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp.StatusCode, env
}

func TestEnvelopes(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/err", func(c *fiber.Ctx) error { return JsonError(c, fiber.StatusGone, "token expired") })
	app.Get("/fiber-err", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusForbidden, "nope") })
	app.Get("/plain-err", func(c *fiber.Ctx) error { return errors.New("secret db detail") })
	app.Get("/ok", func(c *fiber.Ctx) error { return JsonOK(c, "", fiber.Map{"x": 1}) })
	app.Get("/invalid", func(c *fiber.Ctx) error {
		req := struct {
			Email string `json:"email" validate:"required,email"`
			Role  string `json:"role" validate:"oneof=student admin"`
		}{Email: "bad", Role: "root"}
		if failed, resp := ValidateStruct(c, &req); failed {
			return resp
		}
		return nil
	})

	if code, env := decode(t, app, "/err"); code != 410 || env.Success || env.Error != "token expired" || env.ErrorCode != "GONE" {
		t.Fatalf("/err = %d %+v", code, env)
	}
	if code, env := decode(t, app, "/fiber-err"); code != 403 || env.Error != "nope" {
		t.Fatalf("/fiber-err = %d %+v", code, env)
	}
	if code, env := decode(t, app, "/plain-err"); code != 500 || strings.Contains(env.Error, "secret") {
		t.Fatalf("/plain-err = %d %+v", code, env)
	}
	if code, env := decode(t, app, "/ok"); code != 200 || !env.Success || env.Message != "ok" {
		t.Fatalf("/ok = %d %+v", code, env)
	}
	code, env := decode(t, app, "/invalid")
	if code != 422 || env.ErrorCode != "VALIDATION_ERROR" {
		t.Fatalf("/invalid = %d %+v", code, env)
	}
	if len(env.Errors["email"]) == 0 || len(env.Errors["role"]) == 0 {
		t.Fatalf("field errors keyed by json name expected, got %v", env.Errors)
	}
}

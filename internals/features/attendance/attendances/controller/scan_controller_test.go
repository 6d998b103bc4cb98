package controller

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"attendku_backend/internals/features/attendance/attendances/service"
)

func TestMapScanError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{service.ErrMissingToken, fiber.StatusBadRequest},
		{service.ErrNoStudent, fiber.StatusForbidden},
		{service.ErrStudentInactive, fiber.StatusForbidden},
		{service.ErrWrongClass, fiber.StatusForbidden},
		{service.ErrInvalidToken, fiber.StatusNotFound},
		{service.ErrSessionClosed, fiber.StatusGone},
		{service.ErrTokenExpired, fiber.StatusGone},
		{service.ErrDeviceUsed, fiber.StatusConflict},
		{service.ErrAlreadyMarked, fiber.StatusConflict},
		{service.ErrScanInProgress, fiber.StatusConflict},
		{errors.New("db down"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return mapScanError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error == "" {
				t.Fatalf("unexpected envelope: %+v", body)
			}
		})
	}
}

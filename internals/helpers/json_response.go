package helper

import (
	"reflect"
	"strings"

	"github.com/gofiber/fiber/v2"
)

/* ===============================
   Envelope
=================================*/

// ErrorResponse: semua error API. success selalu false.
type ErrorResponse struct {
	Success   bool                `json:"success"`
	Error     string              `json:"error"`
	ErrorCode string              `json:"error_code,omitempty"`
	Errors    map[string][]string `json:"errors,omitempty"`
}

type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

func BuildPaginationFromPage(total int64, page, perPage int) Pagination {
	if perPage <= 0 {
		perPage = 20
	}
	page = max(page, 1)
	pages := max(int((total+int64(perPage)-1)/int64(perPage)), 1)
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

var errorCodes = map[int]string{
	fiber.StatusBadRequest:            "BAD_REQUEST",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusConflict:              "CONFLICT",
	fiber.StatusGone:                  "GONE",
	fiber.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	fiber.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	fiber.StatusUnprocessableEntity:   "VALIDATION_ERROR",
	fiber.StatusTooManyRequests:       "TOO_MANY_REQUESTS",
}

func statusToErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	if status >= 500 {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

/* ===============================
   Error
=================================*/

func JsonError(c *fiber.Ctx, status int, message string) error {
	if status == 0 {
		status = fiber.StatusInternalServerError
	}
	if strings.TrimSpace(message) == "" {
		if status >= 500 {
			message = fiber.ErrInternalServerError.Message
		} else {
			message = "request failed"
		}
	}
	return c.Status(status).JSON(ErrorResponse{
		Error:     message,
		ErrorCode: statusToErrorCode(status),
	})
}

// JsonValidationError: 422, errors dikunci nama field json.
func JsonValidationError(c *fiber.Ctx, fieldErrors map[string][]string) error {
	if fieldErrors == nil {
		fieldErrors = map[string][]string{}
	}
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Error:     "validation failed",
		ErrorCode: "VALIDATION_ERROR",
		Errors:    fieldErrors,
	})
}

/* ===============================
   Success
=================================*/

func send(c *fiber.Ctx, status int, message, fallback string, data any, p *Pagination) error {
	if strings.TrimSpace(message) == "" {
		message = fallback
	}
	return c.Status(status).JSON(SuccessResponse{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: p,
	})
}

// JsonList: data + pagination. count = panjang slice data.
func JsonList(c *fiber.Ctx, message string, data any, p Pagination) error {
	if p.Count == 0 && data != nil {
		if rv := reflect.ValueOf(data); rv.Kind() == reflect.Slice {
			p.Count = rv.Len()
		}
	}
	return send(c, fiber.StatusOK, message, "ok", data, &p)
}

func JsonOK(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, message, "ok", data, nil)
}

func JsonCreated(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusCreated, message, "created", data, nil)
}

func JsonUpdated(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, message, "updated", data, nil)
}

func JsonDeleted(c *fiber.Ctx, message string, data any) error {
	return send(c, fiber.StatusOK, message, "deleted", data, nil)
}

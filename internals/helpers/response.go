package helper

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Validator dipakai bersama oleh semua controller.
var Validator = newValidator()

// nama field di pesan error mengikuti tag json
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidateStruct menjalankan validator; kalau gagal langsung tulis response 422
// dan mengembalikan (true, err-dari-response).
func ValidateStruct(c *fiber.Ctx, v any) (bool, error) {
	if err := Validator.Struct(v); err != nil {
		return true, ValidationError(c, err)
	}
	return false, nil
}

// ✅ Khusus error validasi (validator.v10)
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return JsonError(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string][]string, len(ve))
	for _, fieldErr := range ve {
		name := fieldErr.Field()
		fields[name] = append(fields[name], validationMessage(fieldErr))
	}
	return JsonValidationError(c, fields)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "datetime":
		return "must match format " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

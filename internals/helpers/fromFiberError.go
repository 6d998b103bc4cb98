package helper

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// FromFiberError mengubah error (biasanya *fiber.Error) menjadi response JSON konsisten.
// Jika bukan *fiber.Error, fallback ke 500 tanpa membocorkan pesan asli.
func FromFiberError(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return JsonError(c, fe.Code, fe.Message)
	}
	log.Printf("[ERROR] %s %s: %v", c.Method(), c.OriginalURL(), err)
	return JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
}

// ErrorHandler dipasang di fiber.Config agar semua error yang di-return handler
// keluar dengan envelope {success, error}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	return FromFiberError(c, err)
}

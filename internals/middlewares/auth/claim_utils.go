// internals/middlewares/auth/claim_utils.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helperAuth "attendku_backend/internals/helpers/auth"
)

/* ======== Extractors ======== */

func validateTokenExpiry(claims jwt.MapClaims, skew time.Duration) error {
	expVal, ok := claims["exp"]
	if !ok {
		return fmt.Errorf("token has no exp")
	}

	var expUnix int64
	switch t := expVal.(type) {
	case float64:
		expUnix = int64(t)
	case int64:
		expUnix = t
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exp format")
		}
		expUnix = n
	default:
		return fmt.Errorf("invalid exp type")
	}

	expTime := time.Unix(expUnix, 0).UTC()
	if time.Now().UTC().After(expTime.Add(skew)) {
		return fmt.Errorf("token expired at %v", expTime)
	}
	return nil
}

func extractUserID(claims jwt.MapClaims) (uuid.UUID, error) {
	idRaw, ok := claims["id"]
	if !ok {
		idRaw, ok = claims["sub"]
	}
	if !ok {
		return uuid.Nil, fmt.Errorf("no user id")
	}
	s, ok := idRaw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid user id type")
	}
	return uuid.Parse(strings.TrimSpace(s))
}

// ensureUserActive: user ada, belum dihapus, dan aktif.
func ensureUserActive(ctx context.Context, db *gorm.DB, userID uuid.UUID) error {
	var user struct {
		IsActive bool
	}
	if err := db.WithContext(ctx).Table("users").
		Select("is_active").
		Where("id = ? AND deleted_at IS NULL", userID).
		Take(&user).Error; err != nil {
		return err
	}
	if !user.IsActive {
		return errUserInactive
	}
	return nil
}

var errUserInactive = errors.New("user inactive")

/* ======== Store claims to Locals ======== */

func storeClaimsToLocals(c *fiber.Ctx, userID uuid.UUID, claims jwt.MapClaims) {
	c.Locals(helperAuth.LocUserID, userID.String())
	c.Locals(helperAuth.LocClaims, claims)

	if role, ok := claims["role"].(string); ok {
		c.Locals(helperAuth.LocRole, strings.ToLower(strings.TrimSpace(role)))
	}
	if userName, ok := claims["user_name"].(string); ok {
		c.Locals(helperAuth.LocUserName, userName)
	}
	if sid, ok := claims["student_id"].(string); ok && sid != "" {
		c.Locals(helperAuth.LocStudentID, sid)
	}
	if tid, ok := claims["teacher_id"].(string); ok && tid != "" {
		c.Locals(helperAuth.LocTeacherID, tid)
	}
}

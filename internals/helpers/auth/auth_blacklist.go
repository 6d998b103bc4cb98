package helper

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"gorm.io/gorm"
)

/*
   =========================================================
   LOW-LEVEL UTILS
   =========================================================
*/

// Yang disimpan di token_blacklist.token adalah HMAC(access_token), bukan token mentah.
func HashAccessToken(rawAccessToken, jwtSecret string) string {
	m := hmac.New(sha256.New, []byte(jwtSecret))
	_, _ = m.Write([]byte(rawAccessToken))
	return hex.EncodeToString(m.Sum(nil))
}

/*
   =========================================================
   CORE API (tabel: token TEXT unique, expired_at, deleted_at)
   =========================================================
*/

func AddToBlacklist(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string, expiresAt time.Time) error {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return nil
	}
	return db.WithContext(ctx).Exec(`
		INSERT INTO token_blacklist (token, expired_at, created_at)
		VALUES (?, ?, NOW())
		ON CONFLICT (token) DO UPDATE
		SET expired_at = EXCLUDED.expired_at,
		    deleted_at = NULL
	`, HashAccessToken(rawAccessToken, jwtSecret), expiresAt).Error
}

// IsBlacklisted: ada baris aktif dan belum expired?
func IsBlacklisted(ctx context.Context, db *gorm.DB, rawAccessToken, jwtSecret string) (bool, error) {
	if db == nil || strings.TrimSpace(rawAccessToken) == "" || strings.TrimSpace(jwtSecret) == "" {
		return false, nil
	}
	var exists bool
	err := db.WithContext(ctx).Raw(`
		SELECT EXISTS (
		  SELECT 1
		  FROM token_blacklist
		  WHERE token = ?
		    AND deleted_at IS NULL
		    AND expired_at > NOW()
		)
	`, HashAccessToken(rawAccessToken, jwtSecret)).Scan(&exists).Error
	return exists, err
}

// PurgeExpired: hard delete baris yang expired sebelum `before`.
func PurgeExpired(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	if db == nil {
		return 0, nil
	}
	res := db.WithContext(ctx).Exec(`DELETE FROM token_blacklist WHERE expired_at <= ?`, before)
	return res.RowsAffected, res.Error
}

// BlacklistChecker membungkus IsBlacklisted untuk AuthJWTOpts.
func BlacklistChecker(db *gorm.DB, jwtSecret string) func(string) (bool, error) {
	return func(raw string) (bool, error) {
		ctx, cancel := context.WithTimeout(context.Background(), 800*time.Millisecond)
		defer cancel()
		return IsBlacklisted(ctx, db, raw, jwtSecret)
	}
}

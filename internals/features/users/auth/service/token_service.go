// internals/features/users/auth/service/token_service.go
package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var ErrTokenInvalid = errors.New("token invalid")

// TokenIssuer membuat & memverifikasi pasangan access/refresh (HS256).
type TokenIssuer struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

func (t TokenIssuer) accessTTL() time.Duration {
	if t.AccessTTL > 0 {
		return t.AccessTTL
	}
	return accessTTLDefault
}

func (t TokenIssuer) refreshTTL() time.Duration {
	if t.RefreshTTL > 0 {
		return t.RefreshTTL
	}
	return refreshTTLDefault
}

func (t TokenIssuer) check() error {
	if strings.TrimSpace(t.AccessSecret) == "" {
		return errors.New("JWT_SECRET belum diset")
	}
	if strings.TrimSpace(t.RefreshSecret) == "" {
		return errors.New("JWT_REFRESH_SECRET belum diset")
	}
	return nil
}

// ComputeRefreshHash: yang disimpan di refresh_tokens.token (hex HMAC-SHA256).
func ComputeRefreshHash(token, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	_, _ = m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

func buildAccessClaims(user userModel.UserModel, links authModel.UserLinks, now, exp time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"typ":       TokenTypeAccess,
		"sub":       user.ID.String(),
		"id":        user.ID.String(),
		"role":      user.Role,
		"user_name": user.UserName,
		"full_name": user.FullName,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}
	if links.StudentID != nil {
		claims["student_id"] = links.StudentID.String()
	}
	if links.ClassID != nil {
		claims["class_id"] = links.ClassID.String()
	}
	if links.TeacherID != nil {
		claims["teacher_id"] = links.TeacherID.String()
	}
	return claims
}

func buildRefreshClaims(userID uuid.UUID, now, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": TokenTypeRefresh,
		"sub": userID.String(),
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": exp.Unix(),
	}
}

func (t TokenIssuer) Issue(user userModel.UserModel, links authModel.UserLinks, now time.Time) (TokenPair, error) {
	if err := t.check(); err != nil {
		return TokenPair{}, err
	}
	accessExp := now.Add(t.accessTTL())
	refreshExp := now.Add(t.refreshTTL())

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, links, now, accessExp)).
		SignedString([]byte(t.AccessSecret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access: %w", err)
	}
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now, refreshExp)).
		SignedString([]byte(t.RefreshSecret))
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func parseHS256(raw, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tk.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ParseRefresh: valid signature, belum expired, typ=refresh. Mengembalikan user id.
func (t TokenIssuer) ParseRefresh(raw string) (uuid.UUID, error) {
	claims, err := parseHS256(strings.TrimSpace(raw), t.RefreshSecret)
	if err != nil {
		return uuid.Nil, err
	}
	if typ, _ := claims["typ"].(string); typ != TokenTypeRefresh {
		return uuid.Nil, ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return id, nil
}

// AccessExpiry: exp dari access token (tanpa validasi exp). ok=false kalau tak terbaca.
func (t TokenIssuer) AccessExpiry(raw string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(raw, claims, func(tk *jwt.Token) (any, error) {
		return []byte(t.AccessSecret), nil
	}); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

// internals/features/attendance/qr_sessions/service/qr_service.go
package service

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	MinQRSize     = 128
	MaxQRSize     = 1024
	DefaultQRSize = 320
)

// ClampTTL: nil/<=0 → def; > max → max.
func ClampTTL(minutes *int, def, max time.Duration) time.Duration {
	if max <= 0 {
		max = 3 * time.Hour
	}
	if def <= 0 || def > max {
		def = max
	}
	if minutes == nil || *minutes <= 0 {
		return def
	}
	ttl := time.Duration(*minutes) * time.Minute
	if ttl > max {
		return max
	}
	return ttl
}

// NewToken: 64 hex char, dua uuid v4 tanpa tanda hubung.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ScanPayload: isi QR. Kalau PUBLIC_APP_URL kosong, token mentah.
func ScanPayload(publicAppURL, token string) string {
	base := strings.TrimRight(strings.TrimSpace(publicAppURL), "/")
	if base == "" {
		return token
	}
	return base + "/scan?token=" + url.QueryEscape(token)
}

// ExtractToken menerima token mentah atau URL yang memuat ?token=.
func ExtractToken(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "token=") {
		if u, err := url.Parse(raw); err == nil {
			if t := u.Query().Get("token"); t != "" {
				return strings.TrimSpace(t)
			}
		}
		// fallback: potong manual (mis. "scan?token=abc" tanpa skema)
		i := strings.Index(raw, "token=")
		t := raw[i+len("token="):]
		if j := strings.IndexAny(t, "&#"); j >= 0 {
			t = t[:j]
		}
		if v, err := url.QueryUnescape(t); err == nil {
			t = v
		}
		return strings.TrimSpace(t)
	}
	return raw
}

func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultQRSize
	case size < MinQRSize:
		return MinQRSize
	case size > MaxQRSize:
		return MaxQRSize
	}
	return size
}

// RenderPNG: PNG dengan error correction Medium.
func RenderPNG(payload string, size int) ([]byte, error) {
	return qrcode.Encode(payload, qrcode.Medium, ClampSize(size))
}

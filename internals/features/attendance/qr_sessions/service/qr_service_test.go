package service

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestClampTTL(t *testing.T) {
	def := 5 * time.Minute
	max := 3 * time.Hour

	tests := []struct {
		name    string
		minutes *int
		want    time.Duration
	}{
		{"nil uses default", nil, def},
		{"zero uses default", intPtr(0), def},
		{"negative uses default", intPtr(-3), def},
		{"within range", intPtr(15), 15 * time.Minute},
		{"above max clamped", intPtr(600), max},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampTTL(tt.minutes, def, max); got != tt.want {
				t.Fatalf("ClampTTL = %v, want %v", got, tt.want)
			}
		})
	}

	if got := ClampTTL(nil, 5*time.Hour, max); got != max {
		t.Fatalf("default above max should clamp, got %v", got)
	}
}

func TestNewToken(t *testing.T) {
	a, b := NewToken(), NewToken()
	if len(a) != 64 {
		t.Fatalf("len = %d, want 64", len(a))
	}
	if a == b {
		t.Fatalf("tokens should differ")
	}
}

func TestScanPayloadAndExtract(t *testing.T) {
	if got := ScanPayload("", "abc"); got != "abc" {
		t.Fatalf("raw payload = %q", got)
	}
	p := ScanPayload("https://attend.example.edu/", "abc")
	if p != "https://attend.example.edu/scan?token=abc" {
		t.Fatalf("payload = %q", p)
	}

	tests := map[string]string{
		p:                         "abc",
		"abc":                     "abc",
		"  abc  ":                 "abc",
		"scan?token=xyz&x=1":      "xyz",
		"/scan?foo=1&token=t%2B1": "t+1",
		"":                        "",
	}
	for in, want := range tests {
		if got := ExtractToken(in); got != want {
			t.Errorf("ExtractToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampSize(t *testing.T) {
	cases := map[int]int{0: DefaultQRSize, -1: DefaultQRSize, 10: MinQRSize, 256: 256, 5000: MaxQRSize}
	for in, want := range cases {
		if got := ClampSize(in); got != want {
			t.Errorf("ClampSize(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	png, err := RenderPNG(ScanPayload("https://attend.example.edu", NewToken()), 256)
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	magic := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}
	if !bytes.HasPrefix(png, magic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestSessionCache_NilClientIsNoop(t *testing.T) {
	c := NewSessionCache(nil)
	ctx := context.Background()
	c.Put(ctx, nil)
	c.Delete(ctx, "x")
	if _, ok := c.Get(ctx, "x"); ok {
		t.Fatalf("nil client should always miss")
	}
}

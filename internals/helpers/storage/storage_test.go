package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png encode: %v", err)
	}
	return buf.Bytes()
}

func isWebP(b []byte) bool {
	return len(b) > 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}

func TestLocalStorageSave(t *testing.T) {
	dir := t.TempDir()
	st := NewLocalStorage(dir)

	url, err := st.Save(context.Background(), "../../proofs/2026/03/a.webp", "image/webp", []byte("x"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if url != "/uploads/proofs/2026/03/a.webp" {
		t.Fatalf("url = %q", url)
	}
	got, err := os.ReadFile(filepath.Join(dir, "proofs", "2026", "03", "a.webp"))
	if err != nil || string(got) != "x" {
		t.Fatalf("file not written inside dir: %v", err)
	}
}

func TestLocalStorageSave_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewLocalStorage(t.TempDir()).Save(ctx, "a", "", nil); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestBuildKey(t *testing.T) {
	key := BuildKey("/proofs/", time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), ".webp")
	if !regexp.MustCompile(`^proofs/2026/03/[0-9a-f]{24}\.webp$`).MatchString(key) {
		t.Fatalf("key = %q", key)
	}
}

func TestProcessProofImage(t *testing.T) {
	out, err := ProcessProofImage(pngBytes(t, 64, 32), "proof.png", DefaultProofOptions())
	if err != nil {
		t.Fatalf("ProcessProofImage: %v", err)
	}
	if !isWebP(out) {
		t.Fatalf("output is not webp")
	}

	if _, err := ProcessProofImage([]byte("%PDF-1.4"), "proof.pdf", DefaultProofOptions()); err == nil {
		t.Fatalf("expected error for non-image")
	}
}

func TestDownscaleIfNeeded(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 400, 200))
	if got := DownscaleIfNeeded(img, 1280, 1280); got != image.Image(img) {
		t.Fatalf("small image should be untouched")
	}
	b := DownscaleIfNeeded(img, 100, 100).Bounds()
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("bounds = %v, want 100x50", b)
	}
}

type memStorage struct{ saved map[string][]byte }

func (m *memStorage) Save(_ context.Context, key, _ string, data []byte) (string, error) {
	m.saved[key] = data
	return "mem://" + key, nil
}

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("proof", name)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = part.Write(content)
	_ = w.Close()

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(10 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["proof"][0]
}

func TestUploadProof(t *testing.T) {
	st := &memStorage{saved: map[string][]byte{}}

	url, err := UploadProof(context.Background(), st, fileHeader(t, "note.png", pngBytes(t, 20, 20)))
	if err != nil {
		t.Fatalf("UploadProof: %v", err)
	}
	if !strings.HasPrefix(url, "mem://proofs/") || !strings.HasSuffix(url, ".webp") {
		t.Fatalf("url = %q", url)
	}
	if len(st.saved) != 1 {
		t.Fatalf("saved = %d", len(st.saved))
	}

	_, err = UploadProof(context.Background(), st, fileHeader(t, "note.pdf", []byte("%PDF-1.4")))
	var fe *fiber.Error
	if !errors.As(err, &fe) || fe.Code != fiber.StatusUnsupportedMediaType {
		t.Fatalf("pdf: err = %v, want 415", err)
	}
}

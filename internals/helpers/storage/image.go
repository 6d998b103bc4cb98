// internals/helpers/storage/image.go
package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

/* =======================================================================
   Opsi WebP untuk bukti (proof) izin/koreksi
======================================================================= */

type WebPOptions struct {
	MaxW     int     // batas lebar (resize keep-aspect)
	MaxH     int     // batas tinggi
	Quality  float32 // 0 → 80
	Lossless bool
}

func DefaultProofOptions() WebPOptions {
	return WebPOptions{MaxW: 1280, MaxH: 1280, Quality: 80}
}

/* =======================================================================
   Decode gambar (jpeg/png/webp) dari []byte dengan sniff MIME
======================================================================= */

func DecodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}
	ct := http.DetectContentType(head)

	kind := ""
	switch {
	case strings.Contains(ct, "jpeg"):
		kind = "jpeg"
	case strings.Contains(ct, "png"):
		kind = "png"
	case strings.Contains(ct, "webp"):
		kind = "webp"
	default:
		// fallback by extension
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "jpeg"
		case ".png":
			kind = "png"
		case ".webp":
			kind = "webp"
		default:
			return nil, fmt.Errorf("unsupported image format: %s", ct)
		}
	}

	r := bytes.NewReader(all)
	switch kind {
	case "jpeg":
		return jpeg.Decode(r)
	case "png":
		return png.Decode(r)
	default:
		return webp.Decode(r)
	}
}

// Downscale keep-aspect kalau melebihi batas. Gambar kecil dibiarkan.
func DownscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 && maxH <= 0 {
		return src
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}
	return imaging.Fit(src, orMax(maxW), orMax(maxH), imaging.Lanczos)
}

func orMax(n int) int {
	if n <= 0 {
		return 1 << 20
	}
	return n
}

func EncodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	buf := new(bytes.Buffer)
	if opt.Lossless {
		if err := webp.Encode(buf, img, &webp.Options{Lossless: true}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ProcessProofImage: decode → downscale → webp.
func ProcessProofImage(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := DecodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	img = DownscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	return EncodeToWebP(img, opt)
}

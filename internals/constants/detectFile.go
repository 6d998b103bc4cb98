package constants

import (
	"path/filepath"
	"strings"
)

const (
	FileTypeImage   = "image"
	FileTypePDF     = "pdf"
	FileTypeUnknown = "unknown"
)

// DetectFileTypeFromExt dipakai untuk validasi lampiran bukti (proof) pada request.
func DetectFileTypeFromExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileTypeImage
	case ".pdf":
		return FileTypePDF
	default:
		return FileTypeUnknown
	}
}

func IsImageFile(filename string) bool {
	return DetectFileTypeFromExt(filename) == FileTypeImage
}

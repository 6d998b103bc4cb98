// internals/helpers/storage/storage.go
package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gofiber/fiber/v2"

	"attendku_backend/internals/configs"
	"attendku_backend/internals/constants"
)

const maxUploadSize = int64(5 * 1024 * 1024)

// Storage menyimpan blob dan mengembalikan URL publiknya.
type Storage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (publicURL string, err error)
}

/* =======================================================================
   Local disk (UPLOAD_DIR, di-serve di /uploads)
======================================================================= */

type LocalStorage struct {
	Dir     string
	BaseURL string // default "/uploads"
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{Dir: dir, BaseURL: "/uploads"}
}

func (s *LocalStorage) Save(ctx context.Context, key, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key = strings.TrimLeft(path.Clean("/"+key), "/")
	full := filepath.Join(s.Dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	return strings.TrimRight(s.BaseURL, "/") + "/" + key, nil
}

/* =======================================================================
   Aliyun OSS
======================================================================= */

type OSSStorage struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
}

func NewOSSStorageFromEnv(prefix string) (*OSSStorage, error) {
	endpoint := configs.GetEnv("ALI_OSS_ENDPOINT")
	ak := configs.GetEnv("ALI_OSS_ACCESS_KEY")
	sk := configs.GetEnv("ALI_OSS_SECRET_KEY")
	sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN")
	bucketName := configs.GetEnv("ALI_OSS_BUCKET")
	if endpoint == "" || ak == "" || sk == "" || bucketName == "" {
		return nil, fmt.Errorf("missing env: ALI_OSS_ENDPOINT/ACCESS_KEY/SECRET_KEY/BUCKET")
	}

	var opts []oss.ClientOption
	if sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(endpoint, ak, sk, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	return &OSSStorage{
		Bucket:     bkt,
		Endpoint:   endpoint,
		BucketName: bucketName,
		Prefix:     strings.Trim(prefix, "/"),
		PublicBase: strings.TrimRight(configs.GetEnv("ALI_OSS_PUBLIC_BASE"), "/"),
	}, nil
}

func (s *OSSStorage) objectKey(key string) string {
	key = strings.TrimLeft(key, "/")
	if s.Prefix == "" {
		return key
	}
	return s.Prefix + "/" + key
}

func (s *OSSStorage) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	objKey := s.objectKey(key)
	err := s.Bucket.PutObject(objKey, bytes.NewReader(data),
		oss.ContentType(contentType),
		oss.CacheControl("public, max-age=31536000, immutable"),
		oss.WithContext(ctx),
	)
	if err != nil {
		return "", err
	}
	return s.PublicURL(objKey), nil
}

func (s *OSSStorage) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

/* =======================================================================
   Factory + upload bukti
======================================================================= */

// NewFromEnv: pakai OSS kalau ALI_OSS_* lengkap, selain itu disk lokal.
func NewFromEnv() Storage {
	if configs.GetEnv("ALI_OSS_BUCKET") != "" {
		s, err := NewOSSStorageFromEnv("attendku")
		if err == nil {
			log.Printf("[STORAGE] using OSS bucket %s", s.BucketName)
			return s
		}
		log.Printf("[STORAGE] OSS disabled: %v", err)
	}
	log.Printf("[STORAGE] using local dir %s", configs.UploadDir)
	return NewLocalStorage(configs.UploadDir)
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// BuildKey: "<dir>/<yyyy>/<mm>/<random><ext>"
func BuildKey(dir string, now time.Time, ext string) string {
	dir = strings.Trim(dir, "/")
	return fmt.Sprintf("%s/%04d/%02d/%s%s", dir, now.Year(), int(now.Month()), randHex(12), ext)
}

// UploadProof membaca file multipart, re-encode ke WebP lalu simpan.
func UploadProof(ctx context.Context, st Storage, fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if !constants.IsImageFile(fh.Filename) {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Proof must be a JPEG, PNG or WebP image")
	}
	if fh.Size > maxUploadSize {
		return "", fiber.NewError(fiber.StatusRequestEntityTooLarge, "Ukuran file maksimal 5MB")
	}
	f, err := fh.Open()
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Gagal membuka file")
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, maxUploadSize+1))
	if err != nil {
		return "", fiber.NewError(fiber.StatusBadRequest, "Gagal membaca file")
	}
	out, err := ProcessProofImage(raw, fh.Filename, DefaultProofOptions())
	if err != nil {
		return "", fiber.NewError(fiber.StatusUnsupportedMediaType, "Proof must be a JPEG, PNG or WebP image")
	}

	url, err := st.Save(ctx, BuildKey("proofs", time.Now(), ".webp"), "image/webp", out)
	if err != nil {
		log.Printf("[STORAGE] save proof failed: %v", err)
		return "", fiber.NewError(fiber.StatusBadGateway, "Gagal menyimpan file")
	}
	return url, nil
}

package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret        string
	JWTRefreshSecret string
	GoogleClientID   string

	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// QR session
	QRDefaultTTL time.Duration
	QRMaxTTL     time.Duration
	PublicAppURL string

	// batas minimum persentase kehadiran
	AttendanceThreshold float64
	CampusTimezone      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	UploadDir string

	// proxy & rate limit. TRUSTED_PROXIES kosong = X-Forwarded-For diabaikan.
	TrustedProxies   []string
	RateLimitGlobal  int
	RateLimitLogin   int
	RateLimitLoginIP int
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env file not found, using system ENV")
		} else {
			log.Println("✅ .env file loaded")
		}
	} else {
		log.Println("🚀 Running in Railway, using system ENV")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	JWTRefreshSecret = GetEnv("JWT_REFRESH_SECRET")
	GoogleClientID = GetEnv("GOOGLE_CLIENT_ID")

	AccessTTL = GetEnvDuration("ACCESS_TOKEN_TTL", 24*time.Hour)
	RefreshTTL = GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour)

	QRDefaultTTL = GetEnvDuration("QR_DEFAULT_TTL", 5*time.Minute)
	QRMaxTTL = GetEnvDuration("QR_MAX_TTL", 3*time.Hour)
	PublicAppURL = strings.TrimRight(GetEnv("PUBLIC_APP_URL"), "/")

	AttendanceThreshold = GetEnvFloat("ATTENDANCE_THRESHOLD", 75)
	CampusTimezone = GetEnv("CAMPUS_TIMEZONE", "Asia/Kolkata")

	RedisAddr = GetEnv("REDIS_ADDR")
	RedisPassword = GetEnv("REDIS_PASSWORD")
	RedisDB = GetEnvInt("REDIS_DB", 0)

	UploadDir = GetEnv("UPLOAD_DIR", "./uploads")

	TrustedProxies = GetEnvList("TRUSTED_PROXIES")
	RateLimitGlobal = GetEnvInt("RATE_LIMIT_GLOBAL", 600)
	RateLimitLogin = GetEnvInt("RATE_LIMIT_LOGIN", 5)
	RateLimitLoginIP = GetEnvInt("RATE_LIMIT_LOGIN_IP", 60)

	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}

	if JWTRefreshSecret == "" {
		log.Println("❌ JWT_REFRESH_SECRET is not set!")
	} else {
		log.Println("✅ JWT_REFRESH_SECRET loaded.")
	}

	if GoogleClientID == "" {
		log.Println("ℹ️ GOOGLE_CLIENT_ID not set, Google login disabled")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || strings.TrimSpace(value) == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return strings.TrimSpace(value)
}

// GetEnvList: nilai dipisah koma, item kosong dibuang.
func GetEnvList(key string) []string {
	var out []string
	for _, p := range strings.Split(GetEnv(key), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func GetEnvInt(key string, def int) int {
	if v := GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("[WARN] %s=%q bukan angka, pakai default %d", key, v, def)
	}
	return def
}

func GetEnvFloat(key string, def float64) float64 {
	if v := GetEnv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("[WARN] %s=%q bukan angka, pakai default %v", key, v, def)
	}
	return def
}

// GetEnvDuration menerima format time.ParseDuration ("15m", "2h") atau angka detik.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := GetEnv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	log.Printf("[WARN] %s=%q bukan durasi valid, pakai default %s", key, v, def)
	return def
}

// =======================
// DATABASE CONNECTOR
// =======================
func BuildDSN() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

func InitSeederDB() *gorm.DB {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  BuildDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ Seeder DB connection failed: %v", err)
	}
	log.Println("✅ Database (Seeder) connected.")
	return db
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if strings.EqualFold(GetEnv("DB_LOG_LEVEL"), "info") {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && err != gormLogger.ErrRecordNotFound:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}

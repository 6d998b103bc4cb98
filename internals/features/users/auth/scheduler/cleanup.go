package scheduler

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	authRepo "attendku_backend/internals/features/users/auth/repository"
	helperAuth "attendku_backend/internals/helpers/auth"
)

// RunCleanupOnce: hapus blacklist & refresh token yang sudah lewat masa berlaku.
func RunCleanupOnce(ctx context.Context, db *gorm.DB, now time.Time) {
	log.Println("[CLEANUP] Menjalankan pembersihan token_blacklist & refresh_tokens...")

	if n, err := helperAuth.PurgeExpired(ctx, db, now); err != nil {
		log.Printf("[CLEANUP ERROR] token_blacklist: %v", err)
	} else {
		log.Printf("[CLEANUP] %d blacklist token kadaluarsa dihapus", n)
	}

	// sisakan grace period supaya deteksi reuse refresh token tetap jalan
	grace := time.Duration(configs.GetEnvInt("REFRESH_TOKEN_GRACE_DAYS", 7)) * 24 * time.Hour
	if n, err := authRepo.DeleteExpiredRefreshTokens(ctx, db, now.Add(-grace)); err != nil {
		log.Printf("[CLEANUP ERROR] refresh_tokens: %v", err)
	} else {
		log.Printf("[CLEANUP] %d refresh token kadaluarsa dihapus", n)
	}
}

func StartBlacklistCleanupScheduler(ctx context.Context, db *gorm.DB) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()

		for {
			runCtx, cancel := context.WithTimeout(ctx, time.Minute)
			RunCleanupOnce(runCtx, db, time.Now().UTC())
			cancel()

			select {
			case <-ctx.Done():
				log.Println("[CLEANUP] scheduler stopped")
				return
			case <-ticker.C:
			}
		}
	}()
}

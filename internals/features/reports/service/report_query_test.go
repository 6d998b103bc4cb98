package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLoadStatsUsesRequestContext(t *testing.T) {
	db, err := gorm.Open(postgres.Open("host=127.0.0.1 port=1 user=attendku dbname=attendku sslmode=disable"),
		&gorm.Config{DisableAutomaticPing: true, Logger: logger.Discard})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows, err := LoadStats(ctx, db, Filter{ClassID: uuid.New(), From: &from})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(rows) != 0 {
		t.Fatalf("rows = %d, want none", len(rows))
	}
}

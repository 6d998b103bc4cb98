package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/google/uuid"

	"attendku_backend/internals/configs"
	database "attendku_backend/internals/databases"
	scheduler "attendku_backend/internals/features/users/auth/scheduler"
	helper "attendku_backend/internals/helpers"
	middlewares "attendku_backend/internals/middlewares"
	loggerMiddleware "attendku_backend/internals/middlewares/logger"
	routes "attendku_backend/internals/route"
	"attendku_backend/internals/seeds"
)

func main() {
	seedOnly := flag.Bool("seed", false, "jalankan seeder lalu keluar")
	flag.Parse()

	configs.LoadEnv()

	// 🔌 DB connect + pool + migrasi + warm-up
	database.ConnectDB()
	database.TunePool()
	database.AutoMigrate()
	database.WarmUpQueries()

	if *seedOnly || configs.GetEnv("RUN_SEEDS") == "true" {
		path := configs.GetEnv("SEED_FILE", seeds.DefaultSeedFile)
		if err := seeds.RunAllSeeds(database.DB, path); err != nil {
			log.Fatalf("❌ Seeder gagal: %v", err)
		}
		if *seedOnly {
			database.Close()
			return
		}
	}

	// Redis opsional: kalau gagal, cache & lock scan dimatikan
	database.ConnectRedis()

	// X-Forwarded-For hanya dari TRUSTED_PROXIES (default: tidak ada)
	app := fiber.New(middlewares.ProxyConfig(fiber.Config{
		// 🚀 JSON super cepat
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          helper.ErrorHandler,
		BodyLimit:             8 * 1024 * 1024, // upload roster & bukti
		DisableStartupMessage: true,
	}, configs.TrustedProxies))

	// ⚙️ middleware dasar + performa
	app.Use(middlewares.RecoveryMiddleware())
	app.Use(middlewares.CorsMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// 🔎 Request-ID + timeout guard
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Locals("request_id", id)
		ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	})
	app.Use(loggerMiddleware.LoggerMiddleware())

	// ⏱ scheduler setelah DB siap
	bgCtx, stopBg := context.WithCancel(context.Background())
	scheduler.StartBlacklistCleanupScheduler(bgCtx, database.DB)

	// ✅ Routes
	routes.SetupRoutes(app, database.DB)

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	go func() {
		log.Printf("✅ Listening on :%s", port)
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB & redis
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")
	stopBg()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	database.CloseRedis()
	database.Close()
}

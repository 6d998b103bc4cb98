package database

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	classModel "attendku_backend/internals/features/academics/classes/model"
	studentModel "attendku_backend/internals/features/academics/students/model"
	subjectModel "attendku_backend/internals/features/academics/subjects/model"
	teacherModel "attendku_backend/internals/features/academics/teachers/model"
	attendanceModel "attendku_backend/internals/features/attendance/attendances/model"
	qrModel "attendku_backend/internals/features/attendance/qr_sessions/model"
	requestModel "attendku_backend/internals/features/attendance/requests/model"
	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
)

var DB *gorm.DB

func ConnectDB() {
	log.Println("🔌 Connecting to PostgreSQL...")

	// statement_timeout selaras dengan timeout request di main.go
	dsn := configs.BuildDSN() + "&application_name=attendku&options=-c%20statement_timeout%3D3000"

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // 👍 cocok untuk PgBouncer (transaction pooling)
	}), &gorm.Config{
		Logger: configs.NewGormLogger(),
	})
	if err != nil {
		log.Fatalf("❌ DB connection failed: %v", err)
	}
	DB = db
	log.Println("✅ DB connected.")
}

func TunePool() {
	sqlDB, err := DB.DB()
	if err != nil {
		log.Printf("pool tune err: %v", err)
		return
	}
	sqlDB.SetMaxOpenConns(configs.GetEnvInt("DB_MAX_OPEN_CONNS", 20))
	sqlDB.SetMaxIdleConns(configs.GetEnvInt("DB_MAX_IDLE_CONNS", 10))
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

// AutoMigrate membuat/menyesuaikan tabel. Dimatikan dengan DB_AUTO_MIGRATE=false.
func AutoMigrate() {
	if configs.GetEnv("DB_AUTO_MIGRATE", "true") == "false" {
		log.Println("[INFO] AutoMigrate skipped")
		return
	}
	if err := DB.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		log.Printf("[WARN] pgcrypto extension: %v", err)
	}
	err := DB.AutoMigrate(
		&userModel.UserModel{},
		&authModel.RefreshTokenModel{},
		&authModel.TokenBlacklistModel{},
		&teacherModel.TeacherModel{},
		&classModel.ClassModel{},
		&subjectModel.SubjectModel{},
		&studentModel.StudentModel{},
		&qrModel.QRSessionModel{},
		&attendanceModel.AttendanceModel{},
		&requestModel.AttendanceRequestModel{},
	)
	if err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}
	log.Println("✅ AutoMigrate done.")
}

func WarmUpQueries() {
	go func() {
		time.Sleep(500 * time.Millisecond)
		if err := ping(); err != nil {
			log.Printf("warm-up ping err: %v", err)
		}
	}()
}

func ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close() {
	if DB == nil {
		return
	}
	if sqlDB, err := DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

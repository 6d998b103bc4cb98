// internals/features/attendance/attendances/service/scan_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/attendance/attendances/model"
	qrModel "attendku_backend/internals/features/attendance/qr_sessions/model"
	qrService "attendku_backend/internals/features/attendance/qr_sessions/service"
	"attendku_backend/internals/helpers/dbtime"
)

var (
	ErrNoStudent       = errors.New("no student record linked to this account")
	ErrStudentInactive = errors.New("student is inactive")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSessionClosed   = errors.New("session closed")
	ErrTokenExpired    = errors.New("token expired")
	ErrWrongClass      = errors.New("this session belongs to another class")
	ErrDeviceUsed      = errors.New("this device was already used by another student in this session")
	ErrAlreadyMarked   = errors.New("attendance already marked for this subject today")
	ErrScanInProgress  = errors.New("another scan is in progress")
	ErrMissingToken    = errors.New("token is required")
)

type StudentInfo struct {
	StudentID uuid.UUID
	ClassID   uuid.UUID
	IsActive  bool
}

// ScanRepository: akses data untuk alur scan.
type ScanRepository interface {
	FindStudent(ctx context.Context, studentID uuid.UUID) (*StudentInfo, error)
	FindSessionByToken(ctx context.Context, token string) (*qrModel.QRSessionModel, error)
	DeviceUsedByOther(ctx context.Context, sessionID uuid.UUID, deviceID string, studentID uuid.UUID) (bool, error)
	FindAttendance(ctx context.Context, studentID, subjectID uuid.UUID, date time.Time) (*model.AttendanceModel, error)
	CreateAttendance(ctx context.Context, row *model.AttendanceModel) error
}

type SessionCache interface {
	Get(ctx context.Context, token string) (*qrModel.QRSessionModel, bool)
	Put(ctx context.Context, s *qrModel.QRSessionModel)
}

// Locker: kunci pendek per (student, subject, date). Implementasi nil = tanpa lock.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string)
}

// UniqueViolation dipisah supaya service tidak tergantung driver.
type UniqueViolationFunc func(err error) bool

type ScanService struct {
	Repo        ScanRepository
	Cache       SessionCache
	Locker      Locker
	IsDuplicate UniqueViolationFunc
	LockTTL     time.Duration
	Now         func() time.Time
}

type ScanInput struct {
	StudentID uuid.UUID
	UserID    uuid.UUID
	Token     string
	DeviceID  string
}

type ScanResult struct {
	Attendance model.AttendanceModel  `json:"attendance"`
	Session    qrModel.QRSessionModel `json:"session"`
}

func (s *ScanService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *ScanService) findSession(ctx context.Context, token string) (*qrModel.QRSessionModel, error) {
	if s.Cache != nil {
		if sess, ok := s.Cache.Get(ctx, token); ok {
			return sess, nil
		}
	}
	sess, err := s.Repo.FindSessionByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if s.Cache != nil && sess.QRSessionIsActive {
		s.Cache.Put(ctx, sess)
	}
	return sess, nil
}

// Scan: validasi berurutan lalu insert satu baris presensi.
func (s *ScanService) Scan(ctx context.Context, in ScanInput) (*ScanResult, error) {
	token := qrService.ExtractToken(in.Token)
	if token == "" {
		return nil, ErrMissingToken
	}

	// 1. mahasiswa pemanggil
	st, err := s.Repo.FindStudent(ctx, in.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoStudent
		}
		return nil, err
	}
	if !st.IsActive {
		return nil, ErrStudentInactive
	}

	// 2. token → sesi
	sess, err := s.findSession(ctx, token)
	if err != nil {
		return nil, err
	}

	// 3. aktif & belum kedaluwarsa
	now := s.now()
	if !sess.QRSessionIsActive {
		return nil, ErrSessionClosed
	}
	if !now.Before(sess.QRSessionValidUntil) {
		return nil, ErrTokenExpired
	}

	// 4. kelas harus sama
	if st.ClassID != sess.QRSessionClassID {
		return nil, ErrWrongClass
	}

	// 5. satu device satu mahasiswa per sesi
	deviceID := strings.TrimSpace(in.DeviceID)
	if deviceID != "" {
		used, err := s.Repo.DeviceUsedByOther(ctx, sess.QRSessionID, deviceID, st.StudentID)
		if err != nil {
			return nil, err
		}
		if used {
			return nil, ErrDeviceUsed
		}
	}

	// tanggal presensi = tanggal sesi apa adanya
	date := dbtime.AsDate(sess.QRSessionDate)

	if s.Locker != nil {
		key := fmt.Sprintf("attendku:scan:%s:%s:%s", st.StudentID, sess.QRSessionSubjectID, date.Format("2006-01-02"))
		ttl := s.LockTTL
		if ttl <= 0 {
			ttl = 15 * time.Second
		}
		ok, err := s.Locker.Acquire(ctx, key, ttl)
		if err != nil {
			log.Printf("[SCAN] lock error (continue without lock): %v", err)
		} else if !ok {
			return nil, ErrScanInProgress
		} else {
			defer s.Locker.Release(ctx, key)
		}
	}

	// 6. sudah absen hari ini?
	existing, err := s.Repo.FindAttendance(ctx, st.StudentID, sess.QRSessionSubjectID, date)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && existing != nil {
		return nil, ErrAlreadyMarked
	}

	// 7. insert
	sessionID := sess.QRSessionID
	row := model.AttendanceModel{
		AttendanceStudentID: st.StudentID,
		AttendanceSubjectID: sess.QRSessionSubjectID,
		AttendanceDate:      date,
		AttendanceClassID:   sess.QRSessionClassID,
		AttendanceSessionID: &sessionID,
		AttendanceStatus:    constants.AttendancePresent,
		AttendanceSource:    constants.SourceQR,
		AttendanceMarkedAt:  now.UTC(),
	}
	if deviceID != "" {
		row.AttendanceDeviceID = &deviceID
	}
	if in.UserID != uuid.Nil {
		uid := in.UserID
		row.AttendanceMarkedBy = &uid
	}
	if err := s.Repo.CreateAttendance(ctx, &row); err != nil {
		if s.IsDuplicate != nil && s.IsDuplicate(err) {
			return nil, ErrAlreadyMarked
		}
		return nil, err
	}
	return &ScanResult{Attendance: row, Session: *sess}, nil
}

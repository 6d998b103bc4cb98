package service

import (
	"context"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/configs"
	"attendku_backend/internals/constants"
	"attendku_backend/internals/features/attendance/attendances/model"
	qrModel "attendku_backend/internals/features/attendance/qr_sessions/model"
	"attendku_backend/internals/helpers/dbtime"
)

/* ===================== fakes ===================== */

type fakeRepo struct {
	students    map[uuid.UUID]*StudentInfo
	sessions    map[string]*qrModel.QRSessionModel
	rows        []model.AttendanceModel
	devices     map[string]uuid.UUID // device → student pertama
	createErr   error
	sessionHits int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		students: map[uuid.UUID]*StudentInfo{},
		sessions: map[string]*qrModel.QRSessionModel{},
		devices:  map[string]uuid.UUID{},
	}
}

func (r *fakeRepo) FindStudent(_ context.Context, id uuid.UUID) (*StudentInfo, error) {
	if s, ok := r.students[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) FindSessionByToken(_ context.Context, token string) (*qrModel.QRSessionModel, error) {
	r.sessionHits++
	if s, ok := r.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) DeviceUsedByOther(_ context.Context, _ uuid.UUID, deviceID string, studentID uuid.UUID) (bool, error) {
	owner, ok := r.devices[deviceID]
	return ok && owner != studentID, nil
}

func (r *fakeRepo) FindAttendance(_ context.Context, studentID, subjectID uuid.UUID, date time.Time) (*model.AttendanceModel, error) {
	for i := range r.rows {
		row := r.rows[i]
		if row.AttendanceStudentID == studentID && row.AttendanceSubjectID == subjectID && row.AttendanceDate.Equal(date) {
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeRepo) CreateAttendance(_ context.Context, row *model.AttendanceModel) error {
	if r.createErr != nil {
		return r.createErr
	}
	row.AttendanceID = uuid.New()
	r.rows = append(r.rows, *row)
	if row.AttendanceDeviceID != nil {
		r.devices[*row.AttendanceDeviceID] = row.AttendanceStudentID
	}
	return nil
}

type memCache struct {
	m map[string]*qrModel.QRSessionModel
}

func (c *memCache) Get(_ context.Context, token string) (*qrModel.QRSessionModel, bool) {
	s, ok := c.m[token]
	return s, ok
}

func (c *memCache) Put(_ context.Context, s *qrModel.QRSessionModel) {
	c.m[s.QRSessionToken] = s
}

type stubLocker struct {
	held     map[string]bool
	released []string
}

func (l *stubLocker) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *stubLocker) Release(_ context.Context, key string) {
	delete(l.held, key)
	l.released = append(l.released, key)
}

/* ===================== fixture ===================== */

var (
	fixedNow  = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	classA    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	classB    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	subjectID = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

type fixture struct {
	repo    *fakeRepo
	svc     *ScanService
	student uuid.UUID
	session *qrModel.QRSessionModel
}

func newFixture() *fixture {
	repo := newFakeRepo()
	student := uuid.New()
	repo.students[student] = &StudentInfo{StudentID: student, ClassID: classA, IsActive: true}

	sess := &qrModel.QRSessionModel{
		QRSessionID:         uuid.New(),
		QRSessionToken:      "tok-valid",
		QRSessionSubjectID:  subjectID,
		QRSessionClassID:    classA,
		QRSessionTeacherID:  uuid.New(),
		QRSessionDate:       time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		QRSessionValidUntil: fixedNow.Add(5 * time.Minute),
		QRSessionIsActive:   true,
	}
	repo.sessions[sess.QRSessionToken] = sess

	svc := &ScanService{
		Repo:        repo,
		IsDuplicate: func(err error) bool { return errors.Is(err, errDuplicate) },
		Now:         func() time.Time { return fixedNow },
	}
	return &fixture{repo: repo, svc: svc, student: student, session: sess}
}

var errDuplicate = errors.New("duplicate key")

/* ===================== tests ===================== */

func TestScan_Success(t *testing.T) {
	f := newFixture()
	res, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, UserID: uuid.New(), Token: "tok-valid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attendance.AttendanceStatus != constants.AttendancePresent {
		t.Errorf("status = %q, want present", res.Attendance.AttendanceStatus)
	}
	if res.Attendance.AttendanceSource != constants.SourceQR {
		t.Errorf("source = %q, want qr", res.Attendance.AttendanceSource)
	}
	if res.Attendance.AttendanceSessionID == nil || *res.Attendance.AttendanceSessionID != f.session.QRSessionID {
		t.Errorf("session id not linked")
	}
	if res.Attendance.AttendanceMarkedBy == nil {
		t.Errorf("marked_by should be set")
	}
	if len(f.repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.repo.rows))
	}
}

func TestScan_AcceptsURLPayload(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Scan(context.Background(), ScanInput{
		StudentID: f.student,
		Token:     "https://attend.example.edu/scan?token=tok-valid",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScan_ExpiredToken(t *testing.T) {
	f := newFixture()
	f.session.QRSessionValidUntil = fixedNow.Add(-time.Second)

	_, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
	if len(f.repo.rows) != 0 {
		t.Fatalf("no row should be inserted")
	}
}

func TestScan_ExpiresExactlyAtValidUntil(t *testing.T) {
	f := newFixture()
	f.session.QRSessionValidUntil = fixedNow

	_, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestScan_DuplicateSameDay(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	if _, err := f.svc.Scan(ctx, ScanInput{StudentID: f.student, Token: "tok-valid"}); err != nil {
		t.Fatalf("first scan: %v", err)
	}
	_, err := f.svc.Scan(ctx, ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("err = %v, want ErrAlreadyMarked", err)
	}
	if len(f.repo.rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(f.repo.rows))
	}
}

func TestScan_InsertUniqueViolationIsAlreadyMarked(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errDuplicate

	_, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("err = %v, want ErrAlreadyMarked", err)
	}
}

func TestScan_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *fixture) ScanInput
		wantErr error
	}{
		{
			name:    "empty token",
			mutate:  func(f *fixture) ScanInput { return ScanInput{StudentID: f.student, Token: "   "} },
			wantErr: ErrMissingToken,
		},
		{
			name:    "unknown token",
			mutate:  func(f *fixture) ScanInput { return ScanInput{StudentID: f.student, Token: "nope"} },
			wantErr: ErrInvalidToken,
		},
		{
			name:    "no student",
			mutate:  func(f *fixture) ScanInput { return ScanInput{StudentID: uuid.New(), Token: "tok-valid"} },
			wantErr: ErrNoStudent,
		},
		{
			name: "inactive student",
			mutate: func(f *fixture) ScanInput {
				f.repo.students[f.student].IsActive = false
				return ScanInput{StudentID: f.student, Token: "tok-valid"}
			},
			wantErr: ErrStudentInactive,
		},
		{
			name: "closed session",
			mutate: func(f *fixture) ScanInput {
				f.session.QRSessionIsActive = false
				return ScanInput{StudentID: f.student, Token: "tok-valid"}
			},
			wantErr: ErrSessionClosed,
		},
		{
			name: "other class",
			mutate: func(f *fixture) ScanInput {
				f.repo.students[f.student].ClassID = classB
				return ScanInput{StudentID: f.student, Token: "tok-valid"}
			},
			wantErr: ErrWrongClass,
		},
		{
			name: "device used by another student",
			mutate: func(f *fixture) ScanInput {
				f.repo.devices["dev-1"] = uuid.New()
				return ScanInput{StudentID: f.student, Token: "tok-valid", DeviceID: "dev-1"}
			},
			wantErr: ErrDeviceUsed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := tt.mutate(f)
			_, err := f.svc.Scan(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if len(f.repo.rows) != 0 {
				t.Fatalf("no row should be inserted")
			}
		})
	}
}

func TestScan_ClosedCheckedBeforeExpiry(t *testing.T) {
	f := newFixture()
	f.session.QRSessionIsActive = false
	f.session.QRSessionValidUntil = fixedNow.Add(-time.Hour)

	_, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrSessionClosed) {
		t.Fatalf("err = %v, want ErrSessionClosed", err)
	}
}

func TestScan_UsesCacheBeforeRepo(t *testing.T) {
	f := newFixture()
	cache := &memCache{m: map[string]*qrModel.QRSessionModel{}}
	f.svc.Cache = cache

	ctx := context.Background()
	if _, err := f.svc.Scan(ctx, ScanInput{StudentID: f.student, Token: "tok-valid"}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if _, ok := cache.m["tok-valid"]; !ok {
		t.Fatalf("session should be cached after DB lookup")
	}

	other := uuid.New()
	f.repo.students[other] = &StudentInfo{StudentID: other, ClassID: classA, IsActive: true}
	if _, err := f.svc.Scan(ctx, ScanInput{StudentID: other, Token: "tok-valid"}); err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if f.repo.sessionHits != 1 {
		t.Fatalf("repo session lookups = %d, want 1", f.repo.sessionHits)
	}
}

func TestScan_LockBusy(t *testing.T) {
	f := newFixture()
	locker := &stubLocker{held: map[string]bool{}}
	f.svc.Locker = locker

	key := "attendku:scan:" + f.student.String() + ":" + subjectID.String() + ":2026-03-10"
	locker.held[key] = true

	_, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if !errors.Is(err, ErrScanInProgress) {
		t.Fatalf("err = %v, want ErrScanInProgress", err)
	}
}

func TestScan_LockReleased(t *testing.T) {
	f := newFixture()
	locker := &stubLocker{held: map[string]bool{}}
	f.svc.Locker = locker

	if _, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"}); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(locker.held) != 0 || len(locker.released) != 1 {
		t.Fatalf("lock not released: held=%v released=%v", locker.held, locker.released)
	}
}

func TestScan_DateFollowsSessionInNegativeOffsetZone(t *testing.T) {
	configs.CampusTimezone = "America/New_York"
	if dbtime.CampusLocation().String() != "America/New_York" {
		t.Fatalf("campus zone = %s", dbtime.CampusLocation())
	}

	// 21:30 di New York = 01:30 UTC keesokan harinya
	now := time.Date(2026, 3, 10, 21, 30, 0, 0, dbtime.CampusLocation())
	f := newFixture()
	f.svc.Now = func() time.Time { return now }
	f.session.QRSessionDate = dbtime.DateOf(now)
	f.session.QRSessionValidUntil = now.Add(5 * time.Minute)

	res, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dbtime.FormatDate(res.Attendance.AttendanceDate); got != "2026-03-10" {
		t.Fatalf("attendance date = %s, want 2026-03-10 (session date %s)", got, dbtime.FormatDate(f.session.QRSessionDate))
	}

	// baris absen dari Close memakai tanggal sesi yang sama, jadi scan kedua ketahuan duplikat
	if _, err := f.svc.Scan(context.Background(), ScanInput{StudentID: f.student, Token: "tok-valid"}); !errors.Is(err, ErrAlreadyMarked) {
		t.Fatalf("second scan err = %v, want ErrAlreadyMarked", err)
	}
}

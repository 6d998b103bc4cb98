package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
)

type memAuthRepo struct {
	users       map[uuid.UUID]*userModel.UserModel
	links       map[uuid.UUID]authModel.UserLinks
	refresh     map[string]*authModel.RefreshTokenModel
	blacklisted map[string]time.Time
}

func newMemAuthRepo() *memAuthRepo {
	return &memAuthRepo{
		users:       map[uuid.UUID]*userModel.UserModel{},
		links:       map[uuid.UUID]authModel.UserLinks{},
		refresh:     map[string]*authModel.RefreshTokenModel{},
		blacklisted: map[string]time.Time{},
	}
}

func (r *memAuthRepo) FindUserByIdentifier(_ context.Context, ident string) (*userModel.UserModel, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, ident) || strings.EqualFold(u.UserName, ident) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAuthRepo) FindUserByEmail(_ context.Context, email string) (*userModel.UserModel, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAuthRepo) FindUserByID(_ context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAuthRepo) FindLinks(_ context.Context, id uuid.UUID) (authModel.UserLinks, error) {
	return r.links[id], nil
}

func (r *memAuthRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	r.users[id].Password = hash
	return nil
}

func (r *memAuthRepo) TouchLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	r.users[id].LastLoginAt = &at
	return nil
}

func (r *memAuthRepo) CreateRefreshToken(_ context.Context, rt *authModel.RefreshTokenModel) error {
	rt.ID = uuid.New()
	r.refresh[rt.Token] = rt
	return nil
}

func (r *memAuthRepo) FindRefreshTokenByHash(_ context.Context, hash string) (*authModel.RefreshTokenModel, error) {
	if rt, ok := r.refresh[hash]; ok {
		return rt, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memAuthRepo) RevokeRefreshToken(_ context.Context, id uuid.UUID, at time.Time) error {
	for _, rt := range r.refresh {
		if rt.ID == id {
			rt.RevokedAt = &at
		}
	}
	return nil
}

func (r *memAuthRepo) RevokeAllRefreshTokens(_ context.Context, userID uuid.UUID, at time.Time) error {
	for _, rt := range r.refresh {
		if rt.UserID == userID && rt.RevokedAt == nil {
			rt.RevokedAt = &at
		}
	}
	return nil
}

func (r *memAuthRepo) BlacklistAccessToken(_ context.Context, raw string, until time.Time) error {
	r.blacklisted[raw] = until
	return nil
}

func (r *memAuthRepo) activeRefresh(userID uuid.UUID) int {
	n := 0
	for _, rt := range r.refresh {
		if rt.UserID == userID && rt.RevokedAt == nil {
			n++
		}
	}
	return n
}

/* ===================== setup ===================== */

var authNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*AuthService, *memAuthRepo, *userModel.UserModel) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	repo := newMemAuthRepo()
	u := &userModel.UserModel{
		ID:       uuid.New(),
		UserName: "21cs001",
		FullName: "Asha Verma",
		Email:    "asha@example.edu",
		Password: string(hash),
		Role:     constants.RoleStudent,
		IsActive: true,
	}
	repo.users[u.ID] = u
	sid := uuid.New()
	repo.links[u.ID] = authModel.UserLinks{StudentID: &sid}

	svc := NewAuthService(repo, TokenIssuer{AccessSecret: "access-secret", RefreshSecret: "refresh-secret"}, nil)
	svc.Now = func() time.Time { return authNow }
	return svc, repo, u
}

/* ===================== tests ===================== */

func TestLogin(t *testing.T) {
	svc, repo, u := newTestService(t)

	res, err := svc.Login(context.Background(), " asha@example.edu ", "secret123", ClientInfo{UserAgent: "test", IP: "127.0.0.1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.Tokens.AccessToken == "" || res.Tokens.RefreshToken == "" {
		t.Fatalf("tokens missing")
	}
	if res.User.Role != constants.RoleStudent || res.User.StudentID == nil {
		t.Fatalf("user summary = %+v", res.User)
	}
	if repo.activeRefresh(u.ID) != 1 {
		t.Fatalf("refresh token not stored")
	}
	if _, ok := repo.refresh[res.Tokens.RefreshToken]; ok {
		t.Fatalf("refresh token stored in plaintext")
	}
	if u.LastLoginAt == nil {
		t.Fatalf("last login not updated")
	}

	// login by user name
	if _, err := svc.Login(context.Background(), "21CS001", "secret123", ClientInfo{}); err != nil {
		t.Fatalf("login by user name: %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, _, u := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "asha@example.edu", "wrong", ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.edu", "secret123", ClientInfo{}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: %v", err)
	}
	u.IsActive = false
	if _, err := svc.Login(ctx, "asha@example.edu", "secret123", ClientInfo{}); !errors.Is(err, ErrAccountInactive) {
		t.Fatalf("inactive: %v", err)
	}
}

func TestRefreshRotates(t *testing.T) {
	svc, repo, u := newTestService(t)
	ctx := context.Background()

	first, err := svc.Login(ctx, "asha@example.edu", "secret123", ClientInfo{})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.Now = func() time.Time { return authNow.Add(time.Minute) }
	second, err := svc.Refresh(ctx, first.Tokens.RefreshToken, ClientInfo{})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatalf("refresh token should rotate")
	}
	if repo.activeRefresh(u.ID) != 1 {
		t.Fatalf("old token should be revoked, active=%d", repo.activeRefresh(u.ID))
	}

	// reuse of the rotated token revokes everything
	if _, err := svc.Refresh(ctx, first.Tokens.RefreshToken, ClientInfo{}); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("reuse: %v", err)
	}
	if repo.activeRefresh(u.ID) != 0 {
		t.Fatalf("reuse should revoke all sessions")
	}
}

func TestRefreshRejects(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Refresh(ctx, "", ClientInfo{}); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := svc.Refresh(ctx, "not-a-jwt", ClientInfo{}); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("garbage: %v", err)
	}

	// access token is not a refresh token
	res, _ := svc.Login(ctx, "asha@example.edu", "secret123", ClientInfo{})
	if _, err := svc.Refresh(ctx, res.Tokens.AccessToken, ClientInfo{}); !errors.Is(err, ErrRefreshInvalid) {
		t.Fatalf("access as refresh: %v", err)
	}
}

func TestLogout(t *testing.T) {
	svc, repo, u := newTestService(t)
	ctx := context.Background()

	res, _ := svc.Login(ctx, "asha@example.edu", "secret123", ClientInfo{})
	if err := svc.Logout(ctx, res.Tokens.AccessToken, res.Tokens.RefreshToken); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	until, ok := repo.blacklisted[res.Tokens.AccessToken]
	if !ok || !until.After(res.Tokens.AccessExpiresAt) {
		t.Fatalf("access token not blacklisted until expiry: %v", until)
	}
	if repo.activeRefresh(u.ID) != 0 {
		t.Fatalf("refresh token not revoked")
	}
}

func TestChangePassword(t *testing.T) {
	svc, repo, u := newTestService(t)
	ctx := context.Background()

	_, _ = svc.Login(ctx, "asha@example.edu", "secret123", ClientInfo{})
	if err := svc.ChangePassword(ctx, u.ID, "nope", "newsecret1"); !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("wrong current: %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, "secret123", "newsecret1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if repo.activeRefresh(u.ID) != 0 {
		t.Fatalf("sessions should be revoked after password change")
	}
	if _, err := svc.Login(ctx, "asha@example.edu", "newsecret1", ClientInfo{}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestLoginGoogle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.LoginGoogle(ctx, "tok", ClientInfo{}); !errors.Is(err, ErrGoogleDisabled) {
		t.Fatalf("disabled: %v", err)
	}

	svc.VerifyGoogle = func(idToken string) (string, error) {
		switch idToken {
		case "known":
			return "asha@example.edu", nil
		case "stranger":
			return "who@example.edu", nil
		}
		return "", errors.New("bad token")
	}
	if _, err := svc.LoginGoogle(ctx, "known", ClientInfo{}); err != nil {
		t.Fatalf("known: %v", err)
	}
	if _, err := svc.LoginGoogle(ctx, "stranger", ClientInfo{}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("stranger: %v", err)
	}
	if _, err := svc.LoginGoogle(ctx, "forged", ClientInfo{}); !errors.Is(err, ErrGoogleToken) {
		t.Fatalf("forged: %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authHelper "attendku_backend/internals/features/users/auth/helper"
	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
)

/* ==========================
   Errors & Types
========================== */

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrRefreshInvalid     = errors.New("refresh token invalid")
	ErrWrongPassword      = errors.New("current password incorrect")
	ErrGoogleDisabled     = errors.New("google login is not configured")
	ErrGoogleToken        = errors.New("invalid google id token")
)

// AuthRepository: akses data yang dibutuhkan AuthService.
type AuthRepository interface {
	FindUserByIdentifier(ctx context.Context, identifier string) (*userModel.UserModel, error)
	FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error)
	FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error)
	FindLinks(ctx context.Context, userID uuid.UUID) (authModel.UserLinks, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error

	CreateRefreshToken(ctx context.Context, rt *authModel.RefreshTokenModel) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*authModel.RefreshTokenModel, error)
	RevokeRefreshToken(ctx context.Context, id uuid.UUID, at time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID, at time.Time) error

	BlacklistAccessToken(ctx context.Context, raw string, until time.Time) error
}

// GoogleVerifyFunc: verifikasi id_token Google → email.
type GoogleVerifyFunc func(idToken string) (email string, err error)

type ClientInfo struct {
	UserAgent string
	IP        string
}

type UserSummary struct {
	ID        uuid.UUID  `json:"id"`
	UserName  string     `json:"user_name"`
	FullName  string     `json:"full_name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	ClassID   *uuid.UUID `json:"class_id,omitempty"`
	TeacherID *uuid.UUID `json:"teacher_id,omitempty"`
}

type LoginResult struct {
	Tokens TokenPair
	User   UserSummary
}

type AuthService struct {
	Repo         AuthRepository
	Tokens       TokenIssuer
	VerifyGoogle GoogleVerifyFunc
	Now          func() time.Time
}

func NewAuthService(repo AuthRepository, tokens TokenIssuer, verifyGoogle GoogleVerifyFunc) *AuthService {
	return &AuthService{Repo: repo, Tokens: tokens, VerifyGoogle: verifyGoogle, Now: func() time.Time { return time.Now().UTC() }}
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

/* ==========================
   LOGIN
========================== */

func (s *AuthService) Login(ctx context.Context, identifier, password string, client ClientInfo) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	user, err := s.Repo.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return s.issue(ctx, *user, client)
}

/* ==========================
   LOGIN GOOGLE (hanya akun yang sudah ada)
========================== */

func (s *AuthService) LoginGoogle(ctx context.Context, idToken string, client ClientInfo) (*LoginResult, error) {
	if s.VerifyGoogle == nil {
		return nil, ErrGoogleDisabled
	}
	email, err := s.VerifyGoogle(strings.TrimSpace(idToken))
	if err != nil || strings.TrimSpace(email) == "" {
		return nil, ErrGoogleToken
	}
	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	return s.issue(ctx, *user, client)
}

// GoogleVerifier membungkus google-auth-id-token-verifier untuk satu client id.
func GoogleVerifier(clientID string) GoogleVerifyFunc {
	if strings.TrimSpace(clientID) == "" {
		return nil
	}
	return func(idToken string) (string, error) {
		v := googleAuthIDTokenVerifier.Verifier{}
		if err := v.VerifyIDToken(idToken, []string{clientID}); err != nil {
			return "", err
		}
		claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
		if err != nil {
			return "", err
		}
		return claimSet.Email, nil
	}
}

/* ==========================
   REFRESH (rotate)
========================== */

func (s *AuthService) Refresh(ctx context.Context, rawRefresh string, client ClientInfo) (*LoginResult, error) {
	if strings.TrimSpace(rawRefresh) == "" {
		return nil, ErrRefreshInvalid
	}
	userID, err := s.Tokens.ParseRefresh(rawRefresh)
	if err != nil {
		return nil, ErrRefreshInvalid
	}

	now := s.now()
	stored, err := s.Repo.FindRefreshTokenByHash(ctx, ComputeRefreshHash(rawRefresh, s.Tokens.RefreshSecret))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if stored.UserID != userID {
		return nil, ErrRefreshInvalid
	}
	if !stored.IsUsable(now) {
		// token lama dipakai ulang → cabut semua sesi user ini
		if stored.RevokedAt != nil {
			log.Printf("[AUTH] revoked refresh token reused by user %s, revoking all", userID)
			_ = s.Repo.RevokeAllRefreshTokens(ctx, userID, now)
		}
		return nil, ErrRefreshInvalid
	}

	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if err := s.Repo.RevokeRefreshToken(ctx, stored.ID, now); err != nil {
		return nil, err
	}
	return s.issue(ctx, *user, client)
}

/* ==========================
   LOGOUT
========================== */

func (s *AuthService) Logout(ctx context.Context, rawAccess, rawRefresh string) error {
	now := s.now()
	if rawAccess = strings.TrimSpace(rawAccess); rawAccess != "" {
		until, ok := s.Tokens.AccessExpiry(rawAccess)
		if !ok || until.Before(now) {
			until = now.Add(time.Minute)
		}
		if err := s.Repo.BlacklistAccessToken(ctx, rawAccess, until.Add(time.Minute)); err != nil {
			log.Printf("[WARN] Failed to blacklist token: %v", err)
		}
	}

	if rawRefresh = strings.TrimSpace(rawRefresh); rawRefresh != "" {
		stored, err := s.Repo.FindRefreshTokenByHash(ctx, ComputeRefreshHash(rawRefresh, s.Tokens.RefreshSecret))
		if err == nil && stored.RevokedAt == nil {
			if err := s.Repo.RevokeRefreshToken(ctx, stored.ID, now); err != nil {
				return err
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

/* ==========================
   CHANGE PASSWORD
========================== */

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.Repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := authHelper.CheckPasswordHash(user.Password, current); err != nil {
		return ErrWrongPassword
	}
	hash, err := authHelper.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	// paksa login ulang di device lain
	return s.Repo.RevokeAllRefreshTokens(ctx, userID, s.now())
}

/* ==========================
   ISSUE TOKENS
========================== */

func (s *AuthService) issue(ctx context.Context, user userModel.UserModel, client ClientInfo) (*LoginResult, error) {
	links, err := s.Repo.FindLinks(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	pair, err := s.Tokens.Issue(user, links, now)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.CreateRefreshToken(ctx, &authModel.RefreshTokenModel{
		UserID:    user.ID,
		Token:     ComputeRefreshHash(pair.RefreshToken, s.Tokens.RefreshSecret),
		ExpiresAt: pair.RefreshExpiresAt,
		UserAgent: strptr(client.UserAgent),
		IP:        strptr(client.IP),
	}); err != nil {
		return nil, err
	}
	if err := s.Repo.TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Printf("[WARN] update last_login_at: %v", err)
	}

	return &LoginResult{
		Tokens: pair,
		User: UserSummary{
			ID:        user.ID,
			UserName:  user.UserName,
			FullName:  user.FullName,
			Email:     user.Email,
			Role:      user.Role,
			StudentID: links.StudentID,
			ClassID:   links.ClassID,
			TeacherID: links.TeacherID,
		},
	}, nil
}

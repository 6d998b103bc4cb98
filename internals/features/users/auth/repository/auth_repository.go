// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	authModel "attendku_backend/internals/features/users/auth/model"
	userModel "attendku_backend/internals/features/users/user/model"
	helperAuth "attendku_backend/internals/helpers/auth"
)

// AuthRepo: implementasi GORM untuk service.AuthRepository.
type AuthRepo struct {
	DB        *gorm.DB
	JWTSecret string
}

func NewAuthRepo(db *gorm.DB, jwtSecret string) *AuthRepo {
	return &AuthRepo{DB: db, JWTSecret: jwtSecret}
}

/* ====================== USER ====================== */

// Identifier bisa email, user_name, atau roll number mahasiswa.
func (r *AuthRepo) FindUserByIdentifier(ctx context.Context, identifier string) (*userModel.UserModel, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, gorm.ErrRecordNotFound
	}
	db := r.DB.WithContext(ctx)

	rollSub := db.Table("students").
		Select("student_user_id").
		Where("student_roll_number = ? AND student_deleted_at IS NULL", identifier)

	var user userModel.UserModel
	err := db.
		Where("LOWER(email) = LOWER(?) OR user_name = ? OR id IN (?)", identifier, identifier, rollSub).
		Order("created_at ASC").
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepo) FindUserByEmail(ctx context.Context, email string) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).
		Where("LOWER(email) = LOWER(?)", strings.TrimSpace(email)).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var user userModel.UserModel
	if err := r.DB.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepo) FindLinks(ctx context.Context, userID uuid.UUID) (authModel.UserLinks, error) {
	var links authModel.UserLinks
	db := r.DB.WithContext(ctx)

	var st struct {
		StudentID      uuid.UUID `gorm:"column:student_id"`
		StudentClassID uuid.UUID `gorm:"column:student_class_id"`
	}
	err := db.Table("students").
		Select("student_id, student_class_id").
		Where("student_user_id = ? AND student_deleted_at IS NULL", userID).
		Take(&st).Error
	switch {
	case err == nil:
		links.StudentID, links.ClassID = &st.StudentID, &st.StudentClassID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return links, err
	}

	var tc struct {
		TeacherID uuid.UUID `gorm:"column:teacher_id"`
	}
	err = db.Table("teachers").
		Select("teacher_id").
		Where("teacher_user_id = ? AND teacher_deleted_at IS NULL", userID).
		Take(&tc).Error
	switch {
	case err == nil:
		links.TeacherID = &tc.TeacherID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return links, err
	}
	return links, nil
}

func (r *AuthRepo) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hash).Error
}

func (r *AuthRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", at).Error
}

/* ====================== REFRESH TOKEN ====================== */

func (r *AuthRepo) CreateRefreshToken(ctx context.Context, rt *authModel.RefreshTokenModel) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

func (r *AuthRepo) FindRefreshTokenByHash(ctx context.Context, hash string) (*authModel.RefreshTokenModel, error) {
	var rt authModel.RefreshTokenModel
	if err := r.DB.WithContext(ctx).Where("token = ?", hash).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *AuthRepo) RevokeRefreshToken(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&authModel.RefreshTokenModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}

func (r *AuthRepo) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&authModel.RefreshTokenModel{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at).Error
}

// Hapus refresh token yang sudah expired (dipanggil scheduler).
func DeleteExpiredRefreshTokens(ctx context.Context, db *gorm.DB, before time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", before).
		Delete(&authModel.RefreshTokenModel{})
	return res.RowsAffected, res.Error
}

/* ====================== BLACKLIST TOKEN ====================== */

func (r *AuthRepo) BlacklistAccessToken(ctx context.Context, raw string, until time.Time) error {
	return helperAuth.AddToBlacklist(ctx, r.DB, raw, r.JWTSecret, until)
}

package service

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	authHelper "attendku_backend/internals/features/users/auth/helper"
	"attendku_backend/internals/features/users/user/model"
)

type NewUser struct {
	UserName string
	FullName string
	Email    string
	Password string
	Role     string
}

// CreateUser: normalisasi + hash password + insert. Dipakai admin CRUD,
// pendaftaran dosen/mahasiswa, import roster, dan seeder.
func CreateUser(tx *gorm.DB, in NewUser) (*model.UserModel, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !constants.IsValidRole(role) {
		return nil, fmt.Errorf("invalid role %q", in.Role)
	}
	hash, err := authHelper.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.UserModel{
		UserName: strings.TrimSpace(in.UserName),
		FullName: strings.TrimSpace(in.FullName),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Password: hash,
		Role:     role,
		IsActive: true,
	}
	if err := tx.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

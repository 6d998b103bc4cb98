package user

import (
	"log"
	"strings"

	"gorm.io/gorm"

	"attendku_backend/internals/features/users/user/model"
	userService "attendku_backend/internals/features/users/user/service"
)

type UserSeed struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// EnsureUser: kembalikan user yang sudah ada (by email) atau buat baru.
func EnsureUser(db *gorm.DB, data UserSeed) (*model.UserModel, bool, error) {
	var existing model.UserModel
	if err := db.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(data.Email))).First(&existing).Error; err == nil {
		return &existing, false, nil
	}
	u, err := userService.CreateUser(db, userService.NewUser{
		UserName: data.UserName,
		FullName: data.FullName,
		Email:    data.Email,
		Password: data.Password,
		Role:     data.Role,
	})
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func SeedUsers(db *gorm.DB, inputs []UserSeed) {
	for _, data := range inputs {
		_, created, err := EnsureUser(db, data)
		switch {
		case err != nil:
			log.Printf("❌ Gagal insert user '%s': %v", data.Email, err)
		case created:
			log.Printf("✅ Berhasil insert user '%s'", data.Email)
		default:
			log.Printf("ℹ️ User dengan email '%s' sudah ada, dilewati.", data.Email)
		}
	}
}

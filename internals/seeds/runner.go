package seeds

import (
	"fmt"
	"log"
	"os"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"attendku_backend/internals/seeds/academics"
	users "attendku_backend/internals/seeds/users/auth"
)

const DefaultSeedFile = "internals/seeds/data/seed_data.json"

// SeedData: isi file JSON seeder. Urutan insert: users → teachers → classes → subjects → students.
type SeedData struct {
	Users    []users.UserSeed        `json:"users"`
	Teachers []academics.TeacherSeed `json:"teachers"`
	Classes  []academics.ClassSeed   `json:"classes"`
	Subjects []academics.SubjectSeed `json:"subjects"`
	Students []academics.StudentSeed `json:"students"`
}

func LoadSeedFile(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var data SeedData
	if err := sonic.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &data, nil
}

// RunAllSeeds idempotent: baris yang sudah ada dilewati.
func RunAllSeeds(db *gorm.DB, path string) error {
	if path == "" {
		path = DefaultSeedFile
	}
	log.Println("📥 Membaca file seed:", path)
	data, err := LoadSeedFile(path)
	if err != nil {
		return err
	}

	//* Users (admin dll)
	users.SeedUsers(db, data.Users)

	//* Academics
	academics.SeedTeachers(db, data.Teachers)
	academics.SeedClasses(db, data.Classes)
	academics.SeedSubjects(db, data.Subjects)
	academics.SeedStudents(db, data.Students)

	log.Println("✅ Seeding selesai")
	return nil
}

package academics

import (
	"errors"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"attendku_backend/internals/constants"
	classModel "attendku_backend/internals/features/academics/classes/model"
	studentModel "attendku_backend/internals/features/academics/students/model"
	subjectModel "attendku_backend/internals/features/academics/subjects/model"
	teacherDTO "attendku_backend/internals/features/academics/teachers/dto"
	teacherModel "attendku_backend/internals/features/academics/teachers/model"
	"attendku_backend/internals/helpers/dbtime"
	user "attendku_backend/internals/seeds/users/auth"
)

type TeacherSeed struct {
	user.UserSeed
	EmployeeCode string   `json:"employee_code"`
	Department   string   `json:"department"`
	Designation  string   `json:"designation"`
	SubjectCodes []string `json:"subject_codes"`
}

type ClassSeed struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	Department          string `json:"department"`
	Year                int    `json:"year"`
	Semester            int    `json:"semester"`
	Section             string `json:"section"`
	TeacherEmployeeCode string `json:"class_teacher_employee_code"`
}

type SubjectSeed struct {
	Code                string `json:"code"`
	Name                string `json:"name"`
	ClassCode           string `json:"class_code"`
	TeacherEmployeeCode string `json:"teacher_employee_code"`
	Credits             int    `json:"credits"`
	DayOfWeek           *int   `json:"day_of_week"`
	StartTime           string `json:"start_time"`
	EndTime             string `json:"end_time"`
	Room                string `json:"room"`
}

type StudentSeed struct {
	RollNumber string `json:"roll_number"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ClassCode  string `json:"class_code"`
}

func strPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func teacherIDByCode(db *gorm.DB, code string) *uuid.UUID {
	if strings.TrimSpace(code) == "" {
		return nil
	}
	var t teacherModel.TeacherModel
	if err := db.Where("teacher_employee_code = ?", strings.ToUpper(code)).First(&t).Error; err != nil {
		log.Printf("⚠️ Teacher '%s' tidak ditemukan", code)
		return nil
	}
	return &t.TeacherID
}

func classIDByCode(db *gorm.DB, code string) (uuid.UUID, error) {
	var cls classModel.ClassModel
	if err := db.Where("class_code = ?", strings.ToUpper(code)).First(&cls).Error; err != nil {
		return uuid.Nil, err
	}
	return cls.ClassID, nil
}

func SeedTeachers(db *gorm.DB, inputs []TeacherSeed) {
	for _, data := range inputs {
		code := strings.ToUpper(strings.TrimSpace(data.EmployeeCode))
		var n int64
		if err := db.Model(&teacherModel.TeacherModel{}).Where("teacher_employee_code = ?", code).Count(&n).Error; err != nil {
			log.Printf("❌ Gagal cek teacher '%s': %v", code, err)
			continue
		}
		if n > 0 {
			log.Printf("ℹ️ Teacher '%s' sudah ada, dilewati.", code)
			continue
		}
		if data.Role == "" {
			data.Role = constants.RoleSubjectTeacher
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			u, _, err := user.EnsureUser(tx, data.UserSeed)
			if err != nil {
				return err
			}
			return tx.Create(&teacherModel.TeacherModel{
				TeacherUserID:       u.ID,
				TeacherEmployeeCode: code,
				TeacherDepartment:   strPtr(data.Department),
				TeacherDesignation:  strPtr(data.Designation),
				TeacherSubjectCodes: teacherDTO.NormalizeCodes(data.SubjectCodes),
			}).Error
		})
		if err != nil {
			log.Printf("❌ Gagal insert teacher '%s': %v", code, err)
			continue
		}
		log.Printf("✅ Berhasil insert teacher '%s'", code)
	}
}

func SeedClasses(db *gorm.DB, inputs []ClassSeed) {
	for _, data := range inputs {
		code := strings.ToUpper(strings.TrimSpace(data.Code))
		if _, err := classIDByCode(db, code); err == nil {
			log.Printf("ℹ️ Class '%s' sudah ada, dilewati.", code)
			continue
		}
		m := classModel.ClassModel{
			ClassCode:       code,
			ClassName:       data.Name,
			ClassDepartment: strPtr(data.Department),
			ClassYear:       max(data.Year, 1),
			ClassSemester:   max(data.Semester, 1),
			ClassSection:    strPtr(data.Section),
			ClassTeacherID:  teacherIDByCode(db, data.TeacherEmployeeCode),
			ClassIsActive:   true,
		}
		if err := db.Create(&m).Error; err != nil {
			log.Printf("❌ Gagal insert class '%s': %v", code, err)
			continue
		}
		log.Printf("✅ Berhasil insert class '%s'", code)
	}
}

func SeedSubjects(db *gorm.DB, inputs []SubjectSeed) {
	for _, data := range inputs {
		code := strings.ToUpper(strings.TrimSpace(data.Code))
		classID, err := classIDByCode(db, data.ClassCode)
		if err != nil {
			log.Printf("❌ Subject '%s': class '%s' tidak ditemukan", code, data.ClassCode)
			continue
		}
		var n int64
		if err := db.Model(&subjectModel.SubjectModel{}).Where("subject_code = ? AND subject_class_id = ?", code, classID).Count(&n).Error; err != nil {
			log.Printf("❌ Gagal cek subject '%s': %v", code, err)
			continue
		}
		if n > 0 {
			log.Printf("ℹ️ Subject '%s' sudah ada, dilewati.", code)
			continue
		}

		m := subjectModel.SubjectModel{
			SubjectCode:      code,
			SubjectName:      data.Name,
			SubjectClassID:   classID,
			SubjectTeacherID: teacherIDByCode(db, data.TeacherEmployeeCode),
			SubjectCredits:   max(data.Credits, 1),
			SubjectDayOfWeek: data.DayOfWeek,
			SubjectRoom:      strPtr(data.Room),
		}
		if data.StartTime != "" {
			if t, err := dbtime.ParseTod(data.StartTime); err == nil {
				m.SubjectStartTime = &t
			}
		}
		if data.EndTime != "" {
			if t, err := dbtime.ParseTod(data.EndTime); err == nil {
				m.SubjectEndTime = &t
			}
		}
		if err := db.Create(&m).Error; err != nil {
			log.Printf("❌ Gagal insert subject '%s': %v", code, err)
			continue
		}
		log.Printf("✅ Berhasil insert subject '%s'", code)
	}
}

func SeedStudents(db *gorm.DB, inputs []StudentSeed) {
	for _, data := range inputs {
		roll := strings.ToUpper(strings.TrimSpace(data.RollNumber))
		var existing studentModel.StudentModel
		err := db.Where("student_roll_number = ?", roll).First(&existing).Error
		if err == nil {
			log.Printf("ℹ️ Student '%s' sudah ada, dilewati.", roll)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("❌ Student '%s': %v", roll, err)
			continue
		}
		classID, err := classIDByCode(db, data.ClassCode)
		if err != nil {
			log.Printf("❌ Student '%s': class '%s' tidak ditemukan", roll, data.ClassCode)
			continue
		}
		password := data.Password
		if password == "" {
			password = roll
		}
		err = db.Transaction(func(tx *gorm.DB) error {
			u, _, err := user.EnsureUser(tx, user.UserSeed{
				UserName: strings.ToLower(roll),
				FullName: data.FullName,
				Email:    data.Email,
				Password: password,
				Role:     constants.RoleStudent,
			})
			if err != nil {
				return err
			}
			return tx.Create(&studentModel.StudentModel{
				StudentUserID:     u.ID,
				StudentRollNumber: roll,
				StudentClassID:    classID,
				StudentIsActive:   true,
			}).Error
		})
		if err != nil {
			log.Printf("❌ Gagal insert student '%s': %v", roll, err)
			continue
		}
		log.Printf("✅ Berhasil insert student '%s'", roll)
	}
}

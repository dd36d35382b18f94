// backend/internal/auth/repository.go
package auth

import (
	"log"

	"skillprofile-system/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetStudentByStudentID(studentID string) (*models.Student, error) {
	var student models.Student
	result := r.db.Where("student_id = ?", studentID).First(&student)
	if result.Error != nil {
		log.Printf("Error finding student %s: %v", studentID, result.Error)
		return nil, result.Error
	}
	return &student, nil
}

func (r *Repository) CreateStudent(student *models.Student) error {
	return r.db.Create(student).Error
}

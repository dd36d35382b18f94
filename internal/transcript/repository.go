// backend/internal/transcript/repository.go
package transcript

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

// ReplaceCourses swaps the student's transcript rows wholesale. A re-upload
// never leaves rows from the previous transcript behind.
func (r *Repository) ReplaceCourses(studentID string, courses []models.CourseTaken) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.CourseTaken{}).Error; err != nil {
			return err
		}
		if len(courses) > 0 {
			if err := tx.Create(&courses).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetCourses(studentID string) ([]models.CourseTaken, error) {
	var courses []models.CourseTaken
	err := r.db.Where("student_id = ?", studentID).Find(&courses).Error
	if err != nil {
		log.Printf("Error getting courses for student %s: %v", studentID, err)
		return nil, err
	}
	return courses, nil
}

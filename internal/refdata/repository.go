// backend/internal/refdata/repository.go
package refdata

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

// ReplaceCourseSkillMap swaps the whole reference table in one transaction.
// Reloads are explicit; nothing caches this table implicitly between them.
func (r *Repository) ReplaceCourseSkillMap(mappings []models.CourseSkillMap) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.CourseSkillMap{}).Error; err != nil {
			return err
		}
		if len(mappings) > 0 {
			if err := tx.Create(&mappings).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) CountMappings() (int64, error) {
	var count int64
	err := r.db.Model(&models.CourseSkillMap{}).Count(&count).Error
	if err != nil {
		log.Printf("Error counting course skill mappings: %v", err)
		return 0, err
	}
	return count, nil
}

// backend/internal/skills/repository.go
package skills

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

func (r *Repository) GetCoursesTaken(studentID string) ([]models.CourseTaken, error) {
	var courses []models.CourseTaken
	err := r.db.Where("student_id = ?", studentID).Find(&courses).Error
	if err != nil {
		log.Printf("Error getting courses for student %s: %v", studentID, err)
		return nil, err
	}
	return courses, nil
}

// GetSkillMappings loads all course-to-skill mappings for the given course codes
// in one query. Courses without mappings simply have no rows here.
func (r *Repository) GetSkillMappings(courseCodes []string) ([]models.CourseSkillMap, error) {
	if len(courseCodes) == 0 {
		return nil, nil
	}
	var mappings []models.CourseSkillMap
	err := r.db.Where("course_code IN ?", courseCodes).Find(&mappings).Error
	if err != nil {
		log.Printf("Error getting skill mappings: %v", err)
		return nil, err
	}
	return mappings, nil
}

// ReplaceStudentSkills swaps the student's derived skill data for a freshly
// computed set. Delete and insert run in one transaction so a crash can never
// leave old rows mixed with new ones.
func (r *Repository) ReplaceStudentSkills(studentID string, evidence []models.SkillEvidence, profiles []models.SkillProfileClaimed) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", studentID).Delete(&models.SkillProfileClaimed{}).Error; err != nil {
			return err
		}
		if err := tx.Where("student_id = ?", studentID).Delete(&models.SkillEvidence{}).Error; err != nil {
			return err
		}
		if len(evidence) > 0 {
			if err := tx.Create(&evidence).Error; err != nil {
				return err
			}
		}
		if len(profiles) > 0 {
			if err := tx.Create(&profiles).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetClaimedProfiles(studentID string) ([]models.SkillProfileClaimed, error) {
	var profiles []models.SkillProfileClaimed
	err := r.db.Where("student_id = ?", studentID).
		Order("claimed_score desc").
		Find(&profiles).Error
	if err != nil {
		log.Printf("Error getting claimed profiles for student %s: %v", studentID, err)
		return nil, err
	}
	return profiles, nil
}

func (r *Repository) GetEvidence(studentID string) ([]models.SkillEvidence, error) {
	var evidence []models.SkillEvidence
	err := r.db.Where("student_id = ?", studentID).
		Order("skill_name asc, course_code asc").
		Find(&evidence).Error
	if err != nil {
		log.Printf("Error getting evidence for student %s: %v", studentID, err)
		return nil, err
	}
	return evidence, nil
}

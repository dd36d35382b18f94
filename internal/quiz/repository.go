// backend/internal/quiz/repository.go
package quiz

import (
	"log"

	"skillprofile-system/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetClaimedProfiles(studentID string) ([]models.SkillProfileClaimed, error) {
	var profiles []models.SkillProfileClaimed
	err := r.db.Where("student_id = ?", studentID).Find(&profiles).Error
	if err != nil {
		log.Printf("Error getting claimed profiles for student %s: %v", studentID, err)
		return nil, err
	}
	return profiles, nil
}

// ReplacePlan deletes the student's prior plan and inserts the new one in a
// single transaction, keeping exactly one active plan per student.
func (r *Repository) ReplacePlan(plan *models.QuizPlan) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", plan.StudentID).Delete(&models.QuizPlan{}).Error; err != nil {
			return err
		}
		return tx.Create(plan).Error
	})
}

func (r *Repository) GetLatestPlan(studentID string) (*models.QuizPlan, error) {
	var plan models.QuizPlan
	err := r.db.Where("student_id = ?", studentID).
		Order("created_at desc").
		First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *Repository) CountBankQuestions(skillName, difficulty string) (int64, error) {
	var count int64
	err := r.db.Model(&models.QuestionBank{}).
		Where("skill_name = ? AND difficulty = ?", skillName, difficulty).
		Count(&count).Error
	return count, err
}

// SampleBankQuestions draws up to limit random questions from one
// (skill, difficulty) cell, excluding ids already used in this sampling run
// so fallback backfills never repeat a question.
func (r *Repository) SampleBankQuestions(skillName, difficulty string, limit int, excludeIDs []uint) ([]models.QuestionBank, error) {
	query := r.db.Where("skill_name = ? AND difficulty = ?", skillName, difficulty)
	if len(excludeIDs) > 0 {
		query = query.Where("id NOT IN ?", excludeIDs)
	}

	var questions []models.QuestionBank
	err := query.Order("RANDOM()").Limit(limit).Find(&questions).Error
	if err != nil {
		log.Printf("Error sampling bank questions for %s/%s: %v", skillName, difficulty, err)
		return nil, err
	}
	return questions, nil
}

// CreateAttempt stores the attempt and its frozen questions together so an
// attempt can never exist half-issued.
func (r *Repository) CreateAttempt(attempt *models.QuizAttempt, questions []models.QuizQuestion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].AttemptID = attempt.AttemptID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		return nil
	})
}

func (r *Repository) GetAttempt(attemptID uint, studentID string) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := r.db.Where("attempt_id = ? AND student_id = ?", attemptID, studentID).
		First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *Repository) GetAttemptQuestions(attemptID uint, studentID string) ([]models.QuizQuestion, error) {
	var questions []models.QuizQuestion
	err := r.db.Where("attempt_id = ? AND student_id = ?", attemptID, studentID).
		Find(&questions).Error
	if err != nil {
		log.Printf("Error getting questions for attempt %d: %v", attemptID, err)
		return nil, err
	}
	return questions, nil
}

func (r *Repository) GetAnswers(attemptID uint, studentID string) ([]models.QuizAnswer, error) {
	var answers []models.QuizAnswer
	err := r.db.Where("attempt_id = ? AND student_id = ?", attemptID, studentID).
		Find(&answers).Error
	if err != nil {
		return nil, err
	}
	return answers, nil
}

// SaveSubmission persists one graded submission atomically: the attempt's
// prior answers are replaced and the portfolio rows are upserted on the
// (student_id, skill_name) unique constraint, so resubmission converges
// instead of duplicating.
func (r *Repository) SaveSubmission(studentID string, attemptID uint, answers []models.QuizAnswer, portfolio []models.StudentSkillPortfolio) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("attempt_id = ? AND student_id = ?", attemptID, studentID).
			Delete(&models.QuizAnswer{}).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		for i := range portfolio {
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "student_id"}, {Name: "skill_name"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"claimed_score",
					"verified_score",
					"quiz_weight",
					"claimed_weight",
					"final_score",
					"final_level",
					"correct_count",
					"total_questions",
					"updated_at",
				}),
			}).Create(&portfolio[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Repository) GetPortfolio(studentID string) ([]models.StudentSkillPortfolio, error) {
	var portfolio []models.StudentSkillPortfolio
	err := r.db.Where("student_id = ?", studentID).
		Order("final_score desc").
		Find(&portfolio).Error
	if err != nil {
		log.Printf("Error getting portfolio for student %s: %v", studentID, err)
		return nil, err
	}
	return portfolio, nil
}

// backend/internal/bank/repository.go
package bank

import (
	"errors"
	"log"
	"strings"

	"skillprofile-system/internal/models"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// errDuplicate marks a unique-constraint hit on insert.
var errDuplicate = errors.New("duplicate question")

// InsertQuestion stores one question, reporting duplicates (same skill,
// difficulty and text) distinctly so the caller can count them. The substring
// check covers drivers whose errors gorm's TranslateError does not map.
func (r *Repository) InsertQuestion(question *models.QuestionBank) error {
	err := r.db.Create(question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(strings.ToLower(err.Error()), "unique") {
			return errDuplicate
		}
		log.Printf("Error inserting bank question for %s/%s: %v",
			question.SkillName, question.Difficulty, err)
		return err
	}
	return nil
}

type statsRow struct {
	SkillName  string
	Difficulty string
	Count      int
}

func (r *Repository) CountQuestions() (int64, error) {
	var total int64
	err := r.db.Model(&models.QuestionBank{}).Count(&total).Error
	return total, err
}

func (r *Repository) QuestionBreakdown() ([]statsRow, error) {
	var rows []statsRow
	err := r.db.Model(&models.QuestionBank{}).
		Select("skill_name, difficulty, count(*) as count").
		Group("skill_name, difficulty").
		Scan(&rows).Error
	if err != nil {
		log.Printf("Error getting question bank breakdown: %v", err)
		return nil, err
	}
	return rows, nil
}

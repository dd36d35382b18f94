// backend/internal/models/quiz.go
package models

import (
	"time"
)

// QuizPlan holds the selected skills and per-skill difficulty mix for the next quiz.
// Exactly one per student; the prior plan is deleted when a new one is created.
type QuizPlan struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	CreatedAt         time.Time `json:"created_at"`
	StudentID         string    `json:"student_id" gorm:"not null;index"`
	SkillsJSON        string    `json:"skills_json" gorm:"type:text;not null"`
	QuestionsPerSkill int       `json:"questions_per_skill" gorm:"not null;default:4"`
	DifficultyMixJSON string    `json:"difficulty_mix_json" gorm:"type:text;not null"`
}

// QuizAttempt groups the questions issued for one sampling of a plan.
type QuizAttempt struct {
	AttemptID uint      `json:"attempt_id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	StudentID string    `json:"student_id" gorm:"not null;index"`
	Source    string    `json:"source" gorm:"not null"`
}

// QuizQuestion is a question frozen into an attempt. The correct option and
// explanation are copied from the bank at sampling time, so later bank edits
// never change an already-issued question.
type QuizQuestion struct {
	QuestionID    uint   `json:"question_id" gorm:"primaryKey"`
	AttemptID     uint   `json:"attempt_id" gorm:"not null;index"`
	StudentID     string `json:"student_id" gorm:"not null;index"`
	SkillName     string `json:"skill_name" gorm:"not null;index"`
	Difficulty    string `json:"difficulty" gorm:"not null"`
	QuestionText  string `json:"question_text" gorm:"type:text;not null"`
	OptionsJSON   string `json:"options_json" gorm:"type:text;not null"`
	CorrectOption string `json:"correct_option" gorm:"not null"`
	Explanation   string `json:"explanation" gorm:"type:text;not null"`
}

// QuizAnswer is the student's graded choice for one question of an attempt.
// Resubmission replaces the attempt's rows, never appends.
type QuizAnswer struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	CreatedAt      time.Time `json:"created_at"`
	AttemptID      uint      `json:"attempt_id" gorm:"not null;index"`
	QuestionID     uint      `json:"question_id" gorm:"not null;index"`
	StudentID      string    `json:"student_id" gorm:"not null;index"`
	SelectedOption string    `json:"selected_option" gorm:"not null"`
	IsCorrect      bool      `json:"is_correct" gorm:"not null"`
}

// QuestionBank holds pre-generated MCQs. The sampler only reads this table;
// the external generator writes it through the admin endpoint.
type QuestionBank struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	CreatedAt     time.Time `json:"created_at"`
	SkillName     string    `json:"skill_name" gorm:"not null;index;uniqueIndex:uq_question_bank_content"`
	Difficulty    string    `json:"difficulty" gorm:"not null;index;uniqueIndex:uq_question_bank_content"`
	QuestionText  string    `json:"question_text" gorm:"type:text;not null;uniqueIndex:uq_question_bank_content"`
	OptionsJSON   string    `json:"options_json" gorm:"type:text;not null"`
	CorrectOption string    `json:"correct_option" gorm:"not null"`
	Explanation   string    `json:"explanation" gorm:"type:text;not null"`
	ModelName     string    `json:"model_name"`
}

// backend/internal/quiz/sampler_test.go
package quiz

import (
	"testing"

	"skillprofile-system/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPlan(t *testing.T, db *gorm.DB, studentID, skillsJSON, mixJSON string) {
	t.Helper()
	require.NoError(t, db.Create(&models.QuizPlan{
		StudentID:         studentID,
		SkillsJSON:        skillsJSON,
		QuestionsPerSkill: 4,
		DifficultyMixJSON: mixJSON,
	}).Error)
}

func TestSampleQuizNoPlan(t *testing.T) {
	svc, _ := newQuizService(t)

	_, err := svc.SampleQuiz("nobody")
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestSampleQuizFullCoverage(t *testing.T) {
	svc, db := newQuizService(t)

	seedPlan(t, db, "s1",
		`["SQL"]`,
		`{"SQL":{"easy":2,"medium":2,"hard":0}}`)
	seedBankQuestions(t, db, "SQL", "easy", 3)
	seedBankQuestions(t, db, "SQL", "medium", 3)

	result, err := svc.SampleQuiz("s1")
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalSampled)
	assert.Len(t, result.Questions, 4)
	assert.Empty(t, result.Warnings)
	assert.NotZero(t, result.AttemptID)

	// Served questions never carry the answer key.
	for _, q := range result.Questions {
		assert.Empty(t, q.CorrectOption)
		assert.Empty(t, q.Explanation)
		assert.Len(t, q.Options, 4)
	}

	// The stored copies are frozen with the full answer key.
	var stored []models.QuizQuestion
	require.NoError(t, db.Where("attempt_id = ?", result.AttemptID).Find(&stored).Error)
	require.Len(t, stored, 4)
	for _, q := range stored {
		assert.Equal(t, "A", q.CorrectOption)
		assert.NotEmpty(t, q.Explanation)
		assert.Equal(t, "s1", q.StudentID)
	}

	var attempt models.QuizAttempt
	require.NoError(t, db.First(&attempt, "attempt_id = ?", result.AttemptID).Error)
	assert.Equal(t, "bank", attempt.Source)
}

func TestSampleQuizFallbackSubstitution(t *testing.T) {
	svc, db := newQuizService(t)

	// Two hard SQL questions requested, only one exists; one medium covers the gap.
	seedPlan(t, db, "s1",
		`["SQL"]`,
		`{"SQL":{"easy":0,"medium":0,"hard":2}}`)
	seedBankQuestions(t, db, "SQL", "hard", 1)
	seedBankQuestions(t, db, "SQL", "medium", 1)

	result, err := svc.SampleQuiz("s1")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalSampled)
	require.NotEmpty(t, result.Warnings)

	difficulties := map[string]int{}
	for _, q := range result.Questions {
		difficulties[q.Difficulty]++
	}
	assert.Equal(t, 1, difficulties["hard"])
	assert.Equal(t, 1, difficulties["medium"])

	var substituted bool
	for _, w := range result.Warnings {
		if w.Skill == "SQL" && w.Message == "Used 1 medium questions instead of hard" {
			substituted = true
		}
	}
	assert.True(t, substituted, "expected a substitution warning, got %v", result.Warnings)
}

func TestSampleQuizNoRepeatsAcrossSlots(t *testing.T) {
	svc, db := newQuizService(t)

	// The medium slot and the hard slot's fallback both draw from the same
	// medium cell; they must never pick the same question twice.
	seedPlan(t, db, "s1",
		`["SQL"]`,
		`{"SQL":{"easy":0,"medium":1,"hard":2}}`)
	seedBankQuestions(t, db, "SQL", "hard", 1)
	seedBankQuestions(t, db, "SQL", "medium", 2)

	result, err := svc.SampleQuiz("s1")
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalSampled)

	seen := map[string]bool{}
	for _, q := range result.Questions {
		assert.False(t, seen[q.QuestionText], "question sampled twice: %s", q.QuestionText)
		seen[q.QuestionText] = true
	}
}

func TestSampleQuizSkipsExhaustedSkill(t *testing.T) {
	svc, db := newQuizService(t)

	seedPlan(t, db, "s1",
		`["SQL","Welding"]`,
		`{"SQL":{"easy":1,"medium":0,"hard":0},"Welding":{"easy":1,"medium":0,"hard":0}}`)
	seedBankQuestions(t, db, "SQL", "easy", 1)

	result, err := svc.SampleQuiz("s1")
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalSampled)
	assert.Equal(t, "SQL", result.Questions[0].SkillName)

	var skipped bool
	for _, w := range result.Warnings {
		if w.Skill == "Welding" && w.Message == "Skipping Welding - no questions available in any difficulty" {
			skipped = true
		}
	}
	assert.True(t, skipped, "expected a skip warning, got %v", result.Warnings)
}

func TestSampleQuizEmptyBank(t *testing.T) {
	svc, db := newQuizService(t)

	seedPlan(t, db, "s1",
		`["SQL"]`,
		`{"SQL":{"easy":2,"medium":2,"hard":0}}`)

	_, err := svc.SampleQuiz("s1")
	assert.ErrorIs(t, err, ErrEmptyBank)

	// A failed sampling leaves no half-issued attempt behind.
	var count int64
	require.NoError(t, db.Model(&models.QuizAttempt{}).Count(&count).Error)
	assert.Zero(t, count)
}

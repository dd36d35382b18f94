// backend/internal/testutil/testutil.go
package testutil

import (
	"testing"

	"skillprofile-system/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// NewTestDB opens a fresh in-memory database with the full schema migrated.
// Every call returns an isolated database, so tests never share state.
func NewTestDB(tb testing.TB) *gorm.DB {
	tb.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.Student{},
		&models.CourseTaken{},
		&models.CourseSkillMap{},
		&models.SkillEvidence{},
		&models.SkillProfileClaimed{},
		&models.QuizPlan{},
		&models.QuizAttempt{},
		&models.QuizQuestion{},
		&models.QuizAnswer{},
		&models.QuestionBank{},
		&models.StudentSkillPortfolio{},
	)
	if err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}

	return db
}

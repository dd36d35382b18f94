// backend/internal/models/skill.go
package models

import (
	"time"
)

// CourseTaken is one transcript fact: a course the student completed with a grade.
// Rows are replaced wholesale when a transcript is re-ingested.
type CourseTaken struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	StudentID    string    `json:"student_id" gorm:"not null;index"`
	CourseCode   string    `json:"course_code" gorm:"not null;index"`
	CourseName   string    `json:"course_name"`
	Grade        string    `json:"grade" gorm:"not null"`
	Credits      float64   `json:"credits"`
	YearTaken    int       `json:"year_taken"`
	AcademicYear int       `json:"academic_year"`
}

// CourseSkillMap links a course to a skill with a static mapping strength in [0,1].
// Reference data, not student-owned.
type CourseSkillMap struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CourseCode string  `json:"course_code" gorm:"not null;index"`
	SkillName  string  `json:"skill_name" gorm:"not null;index"`
	MapWeight  float64 `json:"map_weight" gorm:"not null"`
}

// SkillEvidence is one course's quantified contribution toward one skill.
// Fully derived; recreated on every recompute for the student.
type SkillEvidence struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	StudentID      string  `json:"student_id" gorm:"not null;index"`
	SkillName      string  `json:"skill_name" gorm:"not null;index"`
	CourseCode     string  `json:"course_code" gorm:"not null"`
	MapWeight      float64 `json:"map_weight" gorm:"not null"`
	Credits        float64 `json:"credits" gorm:"not null"`
	Grade          string  `json:"grade" gorm:"not null"`
	GradeNorm      float64 `json:"grade_norm" gorm:"not null"`
	AcademicYear   int     `json:"academic_year"`
	Recency        float64 `json:"recency" gorm:"not null"`
	EvidenceWeight float64 `json:"evidence_weight" gorm:"not null"`
	Contribution   float64 `json:"contribution" gorm:"not null"`
}

// SkillProfileClaimed is the per-skill aggregate of SkillEvidence.
// Exists iff at least one evidence row exists for the (student, skill).
type SkillProfileClaimed struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	CreatedAt    time.Time `json:"created_at"`
	StudentID    string    `json:"student_id" gorm:"not null;index"`
	SkillName    string    `json:"skill_name" gorm:"not null;index"`
	ClaimedScore float64   `json:"claimed_score" gorm:"not null"`
	ClaimedLevel string    `json:"claimed_level" gorm:"not null"`
	Confidence   float64   `json:"confidence" gorm:"not null"`
}

// StudentSkillPortfolio is the long-lived skill of record, blending claimed and
// verified signals. The only entity updated in place rather than regenerated.
type StudentSkillPortfolio struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UpdatedAt      time.Time `json:"updated_at"`
	StudentID      string    `json:"student_id" gorm:"not null;uniqueIndex:uix_student_skill"`
	SkillName      string    `json:"skill_name" gorm:"not null;uniqueIndex:uix_student_skill"`
	ClaimedScore   float64   `json:"claimed_score" gorm:"not null;default:0"`
	VerifiedScore  float64   `json:"verified_score" gorm:"not null;default:0"`
	QuizWeight     float64   `json:"quiz_weight" gorm:"not null;default:0.7"`
	ClaimedWeight  float64   `json:"claimed_weight" gorm:"not null;default:0.3"`
	FinalScore     float64   `json:"final_score" gorm:"not null;default:0"`
	FinalLevel     string    `json:"final_level" gorm:"not null;default:Beginner"`
	CorrectCount   int       `json:"correct_count" gorm:"not null;default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"not null;default:0"`
}

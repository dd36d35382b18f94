// backend/internal/transcript/service.go
package transcript

import (
	"errors"
	"fmt"
	"log"

	"skillprofile-system/internal/models"
	"skillprofile-system/internal/skills"
)

// ErrInvalidCourse rejects a whole ingestion when any row is malformed.
var ErrInvalidCourse = errors.New("invalid course row")

var validGrades = map[string]bool{
	"A+": true, "A": true, "A-": true,
	"B+": true, "B": true, "B-": true,
	"C+": true, "C": true, "C-": true,
	"D+": true, "D": true, "F": true,
}

// CourseRow is one validated transcript line supplied by the upstream parser.
type CourseRow struct {
	CourseCode   string  `json:"course_code"`
	CourseName   string  `json:"course_name"`
	Grade        string  `json:"grade"`
	Credits      float64 `json:"credits"`
	YearTaken    int     `json:"year_taken"`
	AcademicYear int     `json:"academic_year"`
}

// IngestResult combines the stored course count with the recompute summary.
type IngestResult struct {
	StudentID      string `json:"student_id"`
	CoursesStored  int    `json:"courses_stored"`
	SkillsComputed int    `json:"skills_computed"`
	EvidenceCount  int    `json:"evidence_count"`
}

type Service struct {
	repo   *Repository
	skills *skills.Service
}

func NewService(repo *Repository, skillsService *skills.Service) *Service {
	return &Service{
		repo:   repo,
		skills: skillsService,
	}
}

// Ingest replaces the student's transcript and recomputes their skill profile
// as one unit. Any malformed row rejects the whole upload; nothing is applied
// partially.
func (s *Service) Ingest(studentID string, rows []CourseRow) (*IngestResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: transcript has no courses", ErrInvalidCourse)
	}

	courses := make([]models.CourseTaken, 0, len(rows))
	for i, row := range rows {
		if row.CourseCode == "" {
			return nil, fmt.Errorf("%w: row %d has no course code", ErrInvalidCourse, i+1)
		}
		if !validGrades[row.Grade] {
			return nil, fmt.Errorf("%w: row %d has unknown grade %q", ErrInvalidCourse, i+1, row.Grade)
		}
		if row.Credits < 0 {
			return nil, fmt.Errorf("%w: row %d has negative credits", ErrInvalidCourse, i+1)
		}
		courses = append(courses, models.CourseTaken{
			StudentID:    studentID,
			CourseCode:   row.CourseCode,
			CourseName:   row.CourseName,
			Grade:        row.Grade,
			Credits:      row.Credits,
			YearTaken:    row.YearTaken,
			AcademicYear: row.AcademicYear,
		})
	}

	if err := s.repo.ReplaceCourses(studentID, courses); err != nil {
		return nil, err
	}

	recompute, err := s.skills.RecomputeSkills(studentID)
	if err != nil {
		return nil, err
	}

	log.Printf("Ingested %d courses for student %s, %d skills computed",
		len(courses), studentID, recompute.SkillsComputed)

	return &IngestResult{
		StudentID:      studentID,
		CoursesStored:  len(courses),
		SkillsComputed: recompute.SkillsComputed,
		EvidenceCount:  recompute.EvidenceCount,
	}, nil
}

func (s *Service) GetCourses(studentID string) ([]models.CourseTaken, error) {
	return s.repo.GetCourses(studentID)
}

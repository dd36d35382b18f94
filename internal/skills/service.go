// backend/internal/skills/service.go
package skills

import (
	"log"
	"math"
	"regexp"
	"sort"
	"strconv"
	"time"

	"skillprofile-system/internal/models"
	"skillprofile-system/pkg/cache"
	"skillprofile-system/pkg/websocket"
)

// Grade to GPA points on the 4.0 scale. Anything outside the table counts as 0.
var gradePointsTable = map[string]float64{
	"A+": 4.0,
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"F":  0.0,
}

const (
	defaultCredits   = 3.0
	recencyDecay     = 0.4
	confidenceFactor = 0.25
)

// Course codes like IT2030 encode the academic year in their first digit.
var courseYearPattern = regexp.MustCompile(`^IT([1-4])\d{3}$`)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	hub   *websocket.Hub

	// The academic year recency decays from. Configured at startup so scores
	// don't silently go stale as real time passes.
	currentAcademicYear int
}

func NewService(repo *Repository, cache *cache.RedisCache, hub *websocket.Hub, currentAcademicYear int) *Service {
	if currentAcademicYear <= 0 {
		currentAcademicYear = 4
	}
	return &Service{
		repo:                repo,
		cache:               cache,
		hub:                 hub,
		currentAcademicYear: currentAcademicYear,
	}
}

// GradePoints converts a letter grade to GPA points. Unknown grades map to 0,
// never an error.
func GradePoints(grade string) float64 {
	return gradePointsTable[normalizeGrade(grade)]
}

func normalizeGrade(grade string) string {
	out := make([]byte, 0, len(grade))
	for i := 0; i < len(grade); i++ {
		c := grade[i]
		if c == ' ' || c == '\t' {
			continue
		}
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// DetermineLevel maps a 0-100 score to the three-tier leveling used across
// claimed, verified and final scores.
func DetermineLevel(score float64) string {
	if score < 50 {
		return "Beginner"
	}
	if score < 75 {
		return "Intermediate"
	}
	return "Advanced"
}

// recency returns the exponential decay factor in (0, 1]. Academic year wins
// over calendar year; with neither, coursework is not discounted. Years past
// the configured current year (or 4, whichever is larger) are treated as bad
// data, not honored.
func (s *Service) recency(academicYear, yearTaken int) float64 {
	maxYear := s.currentAcademicYear
	if maxYear < 4 {
		maxYear = 4
	}
	if academicYear >= 1 && academicYear <= maxYear {
		yearsSince := s.currentAcademicYear - academicYear
		if yearsSince < 0 {
			yearsSince = 0
		}
		return math.Exp(-recencyDecay * float64(yearsSince))
	}
	if yearTaken > 0 {
		yearsSince := time.Now().Year() - yearTaken
		if yearsSince < 0 {
			yearsSince = 0
		}
		return math.Exp(-recencyDecay * float64(yearsSince))
	}
	return 1.0
}

// deriveAcademicYear extracts the year digit from course codes like IT2030
// when the transcript row carries no academic year.
func deriveAcademicYear(courseCode string) int {
	m := courseYearPattern.FindStringSubmatch(courseCode)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// skillAccumulator collects one skill's running totals during aggregation.
type skillAccumulator struct {
	totalContribution float64
	totalWeight       float64
}

// RecomputeSkills rebuilds the student's skill evidence and claimed profile
// from their transcript. The prior derived set is replaced atomically, so
// calling this twice without data changes yields the identical result.
func (s *Service) RecomputeSkills(studentID string) (*models.RecomputeResult, error) {
	log.Printf("Computing claimed skills for student %s", studentID)

	courses, err := s.repo.GetCoursesTaken(studentID)
	if err != nil {
		return nil, err
	}

	codes := make([]string, 0, len(courses))
	for _, course := range courses {
		codes = append(codes, course.CourseCode)
	}

	mappings, err := s.repo.GetSkillMappings(codes)
	if err != nil {
		return nil, err
	}

	mappingsByCourse := make(map[string][]models.CourseSkillMap)
	for _, m := range mappings {
		mappingsByCourse[m.CourseCode] = append(mappingsByCourse[m.CourseCode], m)
	}

	// Build one evidence row per (course, skill) pair. Courses with no
	// mapping contribute nothing and are skipped silently.
	var evidence []models.SkillEvidence
	for _, course := range courses {
		courseMappings := mappingsByCourse[course.CourseCode]
		if len(courseMappings) == 0 {
			continue
		}

		gradeNorm := GradePoints(course.Grade) / 4.0

		credits := course.Credits
		if credits == 0 {
			credits = defaultCredits
		}

		academicYear := course.AcademicYear
		if academicYear == 0 {
			academicYear = deriveAcademicYear(course.CourseCode)
		}
		recency := s.recency(academicYear, course.YearTaken)

		for _, mapping := range courseMappings {
			evidenceWeight := mapping.MapWeight * credits * recency
			evidence = append(evidence, models.SkillEvidence{
				StudentID:      studentID,
				SkillName:      mapping.SkillName,
				CourseCode:     course.CourseCode,
				MapWeight:      mapping.MapWeight,
				Credits:        credits,
				Grade:          course.Grade,
				GradeNorm:      gradeNorm,
				AcademicYear:   academicYear,
				Recency:        recency,
				EvidenceWeight: evidenceWeight,
				Contribution:   evidenceWeight * gradeNorm,
			})
		}
	}

	// Aggregate per skill.
	accumulators := make(map[string]*skillAccumulator)
	for _, row := range evidence {
		acc := accumulators[row.SkillName]
		if acc == nil {
			acc = &skillAccumulator{}
			accumulators[row.SkillName] = acc
		}
		acc.totalContribution += row.Contribution
		acc.totalWeight += row.EvidenceWeight
	}

	var profiles []models.SkillProfileClaimed
	for skillName, acc := range accumulators {
		if acc.totalWeight == 0 {
			// Nothing measurable for this skill; drop it rather than divide.
			log.Printf("Zero evidence weight for skill %s, skipping", skillName)
			continue
		}
		claimedScore := 100 * (acc.totalContribution / acc.totalWeight)
		profiles = append(profiles, models.SkillProfileClaimed{
			StudentID:    studentID,
			SkillName:    skillName,
			ClaimedScore: claimedScore,
			ClaimedLevel: DetermineLevel(claimedScore),
			Confidence:   1 - math.Exp(-confidenceFactor*acc.totalWeight),
		})
	}

	// The replace also runs when nothing was computed so stale rows from an
	// earlier transcript are cleared.
	if err := s.repo.ReplaceStudentSkills(studentID, evidence, profiles); err != nil {
		return nil, err
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].ClaimedScore > profiles[j].ClaimedScore
	})

	claimed := make([]models.ClaimedSkillDTO, 0, len(profiles))
	for _, p := range profiles {
		claimed = append(claimed, models.ClaimedSkillDTO{
			SkillName:    p.SkillName,
			ClaimedScore: p.ClaimedScore,
			ClaimedLevel: p.ClaimedLevel,
			Confidence:   p.Confidence,
		})
	}

	result := &models.RecomputeResult{
		StudentID:      studentID,
		SkillsComputed: len(profiles),
		EvidenceCount:  len(evidence),
		ClaimedSkills:  claimed,
	}

	if s.cache != nil {
		if err := s.cache.SetClaimedProfile(studentID, claimed); err != nil {
			log.Printf("Error caching claimed profile for student %s: %v", studentID, err)
		}
	}
	if s.hub != nil {
		s.hub.NotifyStudent(studentID, "skills_recomputed", result)
	}

	log.Printf("Computed %d skills with %d evidence rows for student %s",
		result.SkillsComputed, result.EvidenceCount, studentID)
	return result, nil
}

// GetClaimedProfile returns the student's claimed skills sorted by score,
// served from cache when available.
func (s *Service) GetClaimedProfile(studentID string) ([]models.ClaimedSkillDTO, error) {
	if s.cache != nil {
		if claimed, err := s.cache.GetClaimedProfile(studentID); err == nil {
			return claimed, nil
		}
	}

	profiles, err := s.repo.GetClaimedProfiles(studentID)
	if err != nil {
		return nil, err
	}

	claimed := make([]models.ClaimedSkillDTO, 0, len(profiles))
	for _, p := range profiles {
		claimed = append(claimed, models.ClaimedSkillDTO{
			SkillName:    p.SkillName,
			ClaimedScore: p.ClaimedScore,
			ClaimedLevel: p.ClaimedLevel,
			Confidence:   p.Confidence,
		})
	}

	if s.cache != nil && len(claimed) > 0 {
		s.cache.SetClaimedProfile(studentID, claimed)
	}
	return claimed, nil
}

// GetEvidence returns the raw evidence rows backing the claimed profile.
func (s *Service) GetEvidence(studentID string) ([]models.SkillEvidence, error) {
	return s.repo.GetEvidence(studentID)
}

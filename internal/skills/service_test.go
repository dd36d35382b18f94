// backend/internal/skills/service_test.go
package skills

import (
	"math"
	"testing"
	"time"

	"skillprofile-system/internal/models"
	"skillprofile-system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewService(NewRepository(db), nil, nil, 4), db
}

func seedMapping(t *testing.T, db *gorm.DB, courseCode, skillName string, weight float64) {
	t.Helper()
	require.NoError(t, db.Create(&models.CourseSkillMap{
		CourseCode: courseCode,
		SkillName:  skillName,
		MapWeight:  weight,
	}).Error)
}

func seedCourse(t *testing.T, db *gorm.DB, course models.CourseTaken) {
	t.Helper()
	require.NoError(t, db.Create(&course).Error)
}

func TestGradePoints(t *testing.T) {
	assert.Equal(t, 4.0, GradePoints("A+"))
	assert.Equal(t, 4.0, GradePoints("A"))
	assert.Equal(t, 3.7, GradePoints("A-"))
	assert.Equal(t, 3.3, GradePoints("B+"))
	assert.Equal(t, 2.0, GradePoints("C"))
	assert.Equal(t, 1.3, GradePoints("D+"))
	assert.Equal(t, 0.0, GradePoints("F"))

	// Grades are normalized before lookup.
	assert.Equal(t, 4.0, GradePoints("a+"))
	assert.Equal(t, 3.0, GradePoints(" b "))

	// Unknown grades score zero rather than failing.
	assert.Equal(t, 0.0, GradePoints("X"))
	assert.Equal(t, 0.0, GradePoints(""))
}

func TestDetermineLevel(t *testing.T) {
	assert.Equal(t, "Beginner", DetermineLevel(0))
	assert.Equal(t, "Beginner", DetermineLevel(49.99))
	assert.Equal(t, "Intermediate", DetermineLevel(50))
	assert.Equal(t, "Intermediate", DetermineLevel(74.99))
	assert.Equal(t, "Advanced", DetermineLevel(75))
	assert.Equal(t, "Advanced", DetermineLevel(100))
}

func TestDeriveAcademicYear(t *testing.T) {
	assert.Equal(t, 1, deriveAcademicYear("IT1010"))
	assert.Equal(t, 3, deriveAcademicYear("IT3050"))
	assert.Equal(t, 0, deriveAcademicYear("CS1010"))
	assert.Equal(t, 0, deriveAcademicYear("IT5010"))
	assert.Equal(t, 0, deriveAcademicYear("IT101"))
	assert.Equal(t, 0, deriveAcademicYear(""))
}

func TestRecencyDecay(t *testing.T) {
	svc, _ := newTestService(t)

	// Same academic year as current: no discount.
	assert.InDelta(t, 1.0, svc.recency(4, 0), 1e-9)
	// Three years back: exp(-0.4 * 3).
	assert.InDelta(t, math.Exp(-1.2), svc.recency(1, 0), 1e-9)
	// No academic year and no calendar year: neutral.
	assert.InDelta(t, 1.0, svc.recency(0, 0), 1e-9)
}

func TestRecencyExtendedProgram(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc := NewService(NewRepository(db), nil, nil, 5)

	// A five-year program honors year-5 coursework instead of falling back to
	// calendar decay.
	assert.InDelta(t, 1.0, svc.recency(5, 0), 1e-9)
	assert.InDelta(t, math.Exp(-1.6), svc.recency(1, 0), 1e-9)
	// Beyond the program length is bad data; calendar decay takes over.
	assert.InDelta(t, math.Exp(-0.8), svc.recency(6, time.Now().Year()-2), 1e-9)
}

func TestRecomputeSingleCourse(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT1010", "Programming Fundamentals", 0.5)
	seedCourse(t, db, models.CourseTaken{
		StudentID:  "IT21000001",
		CourseCode: "IT1010",
		Grade:      "A",
		Credits:    4,
	})

	result, err := svc.RecomputeSkills("IT21000001")
	require.NoError(t, err)
	require.Equal(t, 1, result.SkillsComputed)
	require.Equal(t, 1, result.EvidenceCount)

	skill := result.ClaimedSkills[0]
	assert.Equal(t, "Programming Fundamentals", skill.SkillName)
	// A single course always claims the full grade norm: 100 * (w*g)/w.
	assert.InDelta(t, 100.0, skill.ClaimedScore, 1e-9)
	assert.Equal(t, "Advanced", skill.ClaimedLevel)

	// Year 1 course seen from year 4: weight = 0.5 * 4 * exp(-0.4*3) ≈ 0.6024.
	wantWeight := 0.5 * 4 * math.Exp(-1.2)
	assert.InDelta(t, 1-math.Exp(-0.25*wantWeight), skill.Confidence, 1e-6)

	var evidence []models.SkillEvidence
	require.NoError(t, db.Find(&evidence).Error)
	require.Len(t, evidence, 1)
	assert.InDelta(t, wantWeight, evidence[0].EvidenceWeight, 1e-9)
	assert.InDelta(t, 1.0, evidence[0].GradeNorm, 1e-9)
	assert.Equal(t, 1, evidence[0].AcademicYear)
}

func TestRecomputeWeightedAverage(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT4010", "Databases", 1.0)
	seedMapping(t, db, "IT4020", "Databases", 1.0)
	// Both year 4, so recency is 1 and the math is a plain weighted average.
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT4010", Grade: "A", Credits: 3,
	})
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT4020", Grade: "C", Credits: 3,
	})

	result, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	require.Equal(t, 1, result.SkillsComputed)

	// (3*1.0 + 3*0.5) / 6 = 0.75 → 75.
	assert.InDelta(t, 75.0, result.ClaimedSkills[0].ClaimedScore, 1e-9)
	assert.Equal(t, "Advanced", result.ClaimedSkills[0].ClaimedLevel)
}

func TestRecomputeDefaultCredits(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT4010", "Databases", 1.0)
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT4010", Grade: "A",
	})

	_, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	var evidence models.SkillEvidence
	require.NoError(t, db.First(&evidence).Error)
	assert.Equal(t, 3.0, evidence.Credits)
}

func TestRecomputeSkipsUnmappedCourses(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT1010", "Programming Fundamentals", 0.5)
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT1010", Grade: "A", Credits: 3,
	})
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "EN1001", Grade: "A", Credits: 3,
	})

	result, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.SkillsComputed)
	assert.Equal(t, 1, result.EvidenceCount)
}

func TestRecomputeNoCourses(t *testing.T) {
	svc, db := newTestService(t)

	result, err := svc.RecomputeSkills("nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, result.SkillsComputed)
	assert.Equal(t, 0, result.EvidenceCount)
	assert.Empty(t, result.ClaimedSkills)

	var count int64
	require.NoError(t, db.Model(&models.SkillProfileClaimed{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRecomputeIdempotent(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT2030", "OOP", 0.8)
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT2030", Grade: "B+", Credits: 4,
	})

	first, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	second, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	assert.Equal(t, first.SkillsComputed, second.SkillsComputed)
	assert.Equal(t, first.EvidenceCount, second.EvidenceCount)
	assert.InDelta(t, first.ClaimedSkills[0].ClaimedScore, second.ClaimedSkills[0].ClaimedScore, 1e-9)

	// Old rows must be replaced, not accumulated.
	var evidenceCount, profileCount int64
	require.NoError(t, db.Model(&models.SkillEvidence{}).Count(&evidenceCount).Error)
	require.NoError(t, db.Model(&models.SkillProfileClaimed{}).Count(&profileCount).Error)
	assert.Equal(t, int64(1), evidenceCount)
	assert.Equal(t, int64(1), profileCount)
}

func TestRecomputeClearsStaleProfile(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT1010", "Programming Fundamentals", 0.5)
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT1010", Grade: "A", Credits: 3,
	})

	_, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	// Transcript wiped; the derived profile must follow.
	require.NoError(t, db.Where("student_id = ?", "s1").Delete(&models.CourseTaken{}).Error)

	result, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	assert.Equal(t, 0, result.SkillsComputed)

	var count int64
	require.NoError(t, db.Model(&models.SkillProfileClaimed{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestConfidenceGrowsWithEvidence(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT4010", "Databases", 1.0)
	seedMapping(t, db, "IT4020", "Databases", 1.0)

	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT4010", Grade: "A", Credits: 3,
	})
	one, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT4020", Grade: "A", Credits: 3,
	})
	two, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	assert.Greater(t, two.ClaimedSkills[0].Confidence, one.ClaimedSkills[0].Confidence)
	assert.Less(t, two.ClaimedSkills[0].Confidence, 1.0)
}

func TestRecomputeSortedByScore(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT4010", "Databases", 1.0)
	seedMapping(t, db, "IT4011", "Networking", 1.0)
	seedMapping(t, db, "IT4012", "Security", 1.0)
	seedCourse(t, db, models.CourseTaken{StudentID: "s1", CourseCode: "IT4010", Grade: "C", Credits: 3})
	seedCourse(t, db, models.CourseTaken{StudentID: "s1", CourseCode: "IT4011", Grade: "A", Credits: 3})
	seedCourse(t, db, models.CourseTaken{StudentID: "s1", CourseCode: "IT4012", Grade: "B", Credits: 3})

	result, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	require.Equal(t, 3, result.SkillsComputed)
	assert.Equal(t, "Networking", result.ClaimedSkills[0].SkillName)
	assert.Equal(t, "Security", result.ClaimedSkills[1].SkillName)
	assert.Equal(t, "Databases", result.ClaimedSkills[2].SkillName)
}

func TestGetClaimedProfileFromStore(t *testing.T) {
	svc, db := newTestService(t)

	seedMapping(t, db, "IT1010", "Programming Fundamentals", 0.5)
	seedCourse(t, db, models.CourseTaken{
		StudentID: "s1", CourseCode: "IT1010", Grade: "A", Credits: 4,
	})
	_, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)

	claimed, err := svc.GetClaimedProfile("s1")
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, "Programming Fundamentals", claimed[0].SkillName)

	empty, err := svc.GetClaimedProfile("other")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestScoreBounds(t *testing.T) {
	svc, db := newTestService(t)

	grades := []string{"A+", "B-", "C+", "D", "F"}
	for i, g := range grades {
		code := "IT40" + string(rune('1'+i)) + "0"
		seedMapping(t, db, code, "Mixed", 0.9)
		seedCourse(t, db, models.CourseTaken{
			StudentID: "s1", CourseCode: code, Grade: g, Credits: 3,
		})
	}

	result, err := svc.RecomputeSkills("s1")
	require.NoError(t, err)
	require.Equal(t, 1, result.SkillsComputed)
	score := result.ClaimedSkills[0].ClaimedScore
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}

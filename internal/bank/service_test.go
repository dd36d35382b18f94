// backend/internal/bank/service_test.go
package bank

import (
	"testing"

	"skillprofile-system/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepository(testutil.NewTestDB(t)))
}

func validRow(skillName, difficulty, text string) QuestionRow {
	return QuestionRow{
		SkillName:    skillName,
		Difficulty:   difficulty,
		QuestionText: text,
		Options: map[string]string{
			"A": "one", "B": "two", "C": "three", "D": "four",
		},
		CorrectOption: "A",
		Explanation:   "one is right",
		ModelName:     "generator-v1",
	}
}

func TestAddQuestions(t *testing.T) {
	svc := newTestService(t)

	result, err := svc.AddQuestions([]QuestionRow{
		validRow("SQL", "easy", "What does SELECT do?"),
		validRow("SQL", "hard", "Explain isolation levels?"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Inserted)
	assert.Zero(t, result.Duplicates)
	assert.Zero(t, result.Rejected)
	assert.Empty(t, result.Warnings)
}

func TestAddQuestionsCountsDuplicates(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddQuestions([]QuestionRow{
		validRow("SQL", "easy", "What does SELECT do?"),
	})
	require.NoError(t, err)

	result, err := svc.AddQuestions([]QuestionRow{
		validRow("SQL", "easy", "What does SELECT do?"),
		validRow("SQL", "easy", "What does WHERE do?"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Duplicates)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "duplicate")
}

func TestAddQuestionsRejectsRowByRow(t *testing.T) {
	svc := newTestService(t)

	missingOption := validRow("SQL", "easy", "Partial options?")
	delete(missingOption.Options, "D")

	badCorrect := validRow("SQL", "easy", "Bad answer key?")
	badCorrect.CorrectOption = "E"

	result, err := svc.AddQuestions([]QuestionRow{
		validRow("SQL", "easy", "Good question?"),
		{SkillName: "", Difficulty: "easy", QuestionText: "No skill?"},
		validRow("SQL", "extreme", "Bad difficulty?"),
		missingOption,
		badCorrect,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 4, result.Rejected)
	assert.Len(t, result.Warnings, 4)
}

func TestAddQuestionsRejectsCorrectOptionOutsideChoices(t *testing.T) {
	svc := newTestService(t)

	// All four choices present plus a stray fifth, keyed as the answer. An
	// accepted row here could never be answered correctly once sampled.
	row := validRow("SQL", "easy", "Extra option?")
	row.Options["E"] = "five"
	row.CorrectOption = "E"

	result, err := svc.AddQuestions([]QuestionRow{row})
	require.NoError(t, err)

	assert.Zero(t, result.Inserted)
	assert.Equal(t, 1, result.Rejected)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "correct_option must be A, B, C or D")
}

func TestGetStats(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.AddQuestions([]QuestionRow{
		validRow("SQL", "easy", "q1?"),
		validRow("SQL", "easy", "q2?"),
		validRow("SQL", "hard", "q3?"),
		validRow("Networking", "medium", "q4?"),
	})
	require.NoError(t, err)

	stats, err := svc.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalQuestions)
	assert.Equal(t, DifficultyStats{Easy: 2, Hard: 1, Total: 3}, stats.BySkill["SQL"])
	assert.Equal(t, DifficultyStats{Medium: 1, Total: 1}, stats.BySkill["Networking"])
}

func TestGetStatsEmptyBank(t *testing.T) {
	svc := newTestService(t)

	stats, err := svc.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalQuestions)
	assert.Empty(t, stats.BySkill)
}

// backend/internal/quiz/sampler.go
package quiz

import (
	"fmt"
	"log"

	"skillprofile-system/internal/models"
)

// fallbackOrder lists the difficulties tried when a (skill, difficulty) cell
// can't cover a slot. The table is fixed product behavior: medium prefers
// stepping down before up, easy steps up gently.
var fallbackOrder = map[string][]string{
	"hard":   {"medium", "easy"},
	"medium": {"easy", "hard"},
	"easy":   {"medium", "hard"},
}

// SampleWarning notes a substitution or gap hit while sampling. Warnings
// accompany success; callers must surface them.
type SampleWarning struct {
	Skill      string `json:"skill"`
	Difficulty string `json:"difficulty,omitempty"`
	Message    string `json:"message"`
}

// SampleResult is one issued quiz: the attempt plus its student-facing
// questions (no answers) and any sampling warnings.
type SampleResult struct {
	AttemptID    uint                 `json:"attempt_id"`
	Questions    []models.QuestionDTO `json:"questions"`
	TotalSampled int                  `json:"total_sampled"`
	Warnings     []SampleWarning      `json:"warnings"`
}

// slot is one flattened requirement from the plan's difficulty mix.
type slot struct {
	skillName  string
	difficulty string
	count      int
}

// SampleQuiz draws questions from the bank for the student's active plan and
// freezes them into a new attempt. Underfilled slots fall back across
// difficulties with warnings; the call fails only when nothing at all could
// be sampled.
func (s *Service) SampleQuiz(studentID string) (*SampleResult, error) {
	plan, err := s.repo.GetLatestPlan(studentID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	skillNames, mixPerSkill, err := parsePlan(plan)
	if err != nil {
		return nil, err
	}

	var slots []slot
	for _, skillName := range skillNames {
		mix := mixPerSkill[skillName]
		for _, difficulty := range []string{"easy", "medium", "hard"} {
			if n := mix.count(difficulty); n > 0 {
				slots = append(slots, slot{skillName: skillName, difficulty: difficulty, count: n})
			}
		}
	}

	var sampled []models.QuestionBank
	var warnings []SampleWarning
	usedIDs := make(map[string][]uint)

	for _, sl := range slots {
		picked, slotWarnings, err := s.fillSlot(sl, usedIDs)
		if err != nil {
			return nil, err
		}
		sampled = append(sampled, picked...)
		warnings = append(warnings, slotWarnings...)
	}

	if len(sampled) == 0 {
		return nil, ErrEmptyBank
	}

	attempt := &models.QuizAttempt{
		StudentID: studentID,
		Source:    "bank",
	}

	// Freeze each sampled question into the attempt. Bank edits after this
	// point don't touch what the student was asked.
	questions := make([]models.QuizQuestion, 0, len(sampled))
	for _, q := range sampled {
		questions = append(questions, models.QuizQuestion{
			StudentID:     studentID,
			SkillName:     q.SkillName,
			Difficulty:    q.Difficulty,
			QuestionText:  q.QuestionText,
			OptionsJSON:   q.OptionsJSON,
			CorrectOption: q.CorrectOption,
			Explanation:   q.Explanation,
		})
	}

	if err := s.repo.CreateAttempt(attempt, questions); err != nil {
		return nil, err
	}

	dtos := make([]models.QuestionDTO, 0, len(questions))
	for _, q := range questions {
		dtos = append(dtos, q.ToDTO(false))
	}

	log.Printf("Sampled %d questions into attempt %d for student %s (%d warnings)",
		len(dtos), attempt.AttemptID, studentID, len(warnings))

	return &SampleResult{
		AttemptID:    attempt.AttemptID,
		Questions:    dtos,
		TotalSampled: len(dtos),
		Warnings:     warnings,
	}, nil
}

// fillSlot samples one requirement, backfilling any shortfall from the
// fallback difficulties. An exhausted slot is dropped with a warning, never
// an error.
func (s *Service) fillSlot(sl slot, usedIDs map[string][]uint) ([]models.QuestionBank, []SampleWarning, error) {
	var warnings []SampleWarning

	cellKey := func(difficulty string) string {
		return sl.skillName + "/" + difficulty
	}

	available, err := s.repo.CountBankQuestions(sl.skillName, sl.difficulty)
	if err != nil {
		return nil, nil, err
	}
	if available == 0 {
		warnings = append(warnings, SampleWarning{
			Skill:      sl.skillName,
			Difficulty: sl.difficulty,
			Message:    fmt.Sprintf("No questions available for %s difficulty %s", sl.skillName, sl.difficulty),
		})
	}

	picked, err := s.repo.SampleBankQuestions(sl.skillName, sl.difficulty, sl.count, usedIDs[cellKey(sl.difficulty)])
	if err != nil {
		return nil, nil, err
	}
	for _, q := range picked {
		usedIDs[cellKey(sl.difficulty)] = append(usedIDs[cellKey(sl.difficulty)], q.ID)
	}

	if available > 0 && len(picked) < sl.count {
		warnings = append(warnings, SampleWarning{
			Skill:      sl.skillName,
			Difficulty: sl.difficulty,
			Message:    fmt.Sprintf("Only %d/%d questions available for %s %s", len(picked), sl.count, sl.skillName, sl.difficulty),
		})
	}

	remaining := sl.count - len(picked)
	for _, fallback := range fallbackOrder[sl.difficulty] {
		if remaining <= 0 {
			break
		}
		extra, err := s.repo.SampleBankQuestions(sl.skillName, fallback, remaining, usedIDs[cellKey(fallback)])
		if err != nil {
			return nil, nil, err
		}
		if len(extra) == 0 {
			continue
		}
		for _, q := range extra {
			usedIDs[cellKey(fallback)] = append(usedIDs[cellKey(fallback)], q.ID)
		}
		picked = append(picked, extra...)
		remaining -= len(extra)
		warnings = append(warnings, SampleWarning{
			Skill:   sl.skillName,
			Message: fmt.Sprintf("Used %d %s questions instead of %s", len(extra), fallback, sl.difficulty),
		})
	}

	if len(picked) == 0 {
		warnings = append(warnings, SampleWarning{
			Skill:   sl.skillName,
			Message: fmt.Sprintf("Skipping %s - no questions available in any difficulty", sl.skillName),
		})
	}

	return picked, warnings, nil
}

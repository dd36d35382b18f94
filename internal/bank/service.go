// backend/internal/bank/service.go
package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"skillprofile-system/internal/models"
)

// QuestionRow is one externally generated MCQ submitted for storage. The
// generator itself (LLM-backed) lives outside this service; this is its
// write contract.
type QuestionRow struct {
	SkillName     string            `json:"skill_name"`
	Difficulty    string            `json:"difficulty"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correct_option"`
	Explanation   string            `json:"explanation"`
	ModelName     string            `json:"model_name"`
}

// LoadResult reports a bulk load: bad rows are skipped with a warning,
// never fatal to the whole batch.
type LoadResult struct {
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Rejected   int      `json:"rejected"`
	Warnings   []string `json:"warnings"`
}

// DifficultyStats counts one skill's questions per difficulty.
type DifficultyStats struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
	Total  int `json:"total"`
}

type Stats struct {
	TotalQuestions int64                      `json:"total_questions"`
	BySkill        map[string]DifficultyStats `json:"by_skill"`
}

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

func validDifficulty(difficulty string) bool {
	switch difficulty {
	case "easy", "medium", "hard":
		return true
	}
	return false
}

func validateRow(row QuestionRow) error {
	if row.SkillName == "" {
		return fmt.Errorf("missing skill_name")
	}
	if !validDifficulty(row.Difficulty) {
		return fmt.Errorf("difficulty must be easy, medium or hard, got %q", row.Difficulty)
	}
	if row.QuestionText == "" {
		return fmt.Errorf("missing question_text")
	}
	for _, option := range []string{"A", "B", "C", "D"} {
		if row.Options[option] == "" {
			return fmt.Errorf("missing option %s", option)
		}
	}
	// The letter must be checked on its own: generators sometimes ship extra
	// option keys, and a question keyed outside A-D could never be answered.
	switch row.CorrectOption {
	case "A", "B", "C", "D":
	default:
		return fmt.Errorf("correct_option must be A, B, C or D, got %q", row.CorrectOption)
	}
	if row.Options[row.CorrectOption] == "" {
		return fmt.Errorf("correct_option %s has no option text", row.CorrectOption)
	}
	return nil
}

// AddQuestions loads a batch of generated questions, validating row by row.
func (s *Service) AddQuestions(rows []QuestionRow) (*LoadResult, error) {
	result := &LoadResult{}

	for i, row := range rows {
		if err := validateRow(row); err != nil {
			result.Rejected++
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		optionsJSON, err := json.Marshal(row.Options)
		if err != nil {
			result.Rejected++
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		question := &models.QuestionBank{
			SkillName:     row.SkillName,
			Difficulty:    row.Difficulty,
			QuestionText:  row.QuestionText,
			OptionsJSON:   string(optionsJSON),
			CorrectOption: row.CorrectOption,
			Explanation:   row.Explanation,
			ModelName:     row.ModelName,
		}

		if err := s.repo.InsertQuestion(question); err != nil {
			if errors.Is(err, errDuplicate) {
				result.Duplicates++
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("row %d: duplicate question for %s (%s)", i+1, row.SkillName, row.Difficulty))
				continue
			}
			return nil, err
		}
		result.Inserted++
	}

	log.Printf("Question bank load: %d inserted, %d duplicates, %d rejected",
		result.Inserted, result.Duplicates, result.Rejected)
	return result, nil
}

// GetStats reports per-skill, per-difficulty bank coverage.
func (s *Service) GetStats() (*Stats, error) {
	total, err := s.repo.CountQuestions()
	if err != nil {
		return nil, err
	}

	breakdown, err := s.repo.QuestionBreakdown()
	if err != nil {
		return nil, err
	}

	bySkill := make(map[string]DifficultyStats)
	for _, row := range breakdown {
		stats := bySkill[row.SkillName]
		switch row.Difficulty {
		case "easy":
			stats.Easy = row.Count
		case "medium":
			stats.Medium = row.Count
		case "hard":
			stats.Hard = row.Count
		}
		stats.Total += row.Count
		bySkill[row.SkillName] = stats
	}

	return &Stats{
		TotalQuestions: total,
		BySkill:        bySkill,
	}, nil
}

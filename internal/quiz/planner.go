// backend/internal/quiz/planner.go
package quiz

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"sort"

	"skillprofile-system/internal/models"
)

// determineDifficultyMix derives the question mix for one skill purely from
// its current score band.
func determineDifficultyMix(score float64) DifficultyMix {
	if score >= 85 {
		return DifficultyMix{Easy: 1, Medium: 1, Hard: 2}
	}
	if score >= 70 {
		return DifficultyMix{Easy: 2, Medium: 1, Hard: 1}
	}
	return DifficultyMix{Easy: 2, Medium: 2, Hard: 0}
}

// CreatePlan builds the student's next quiz plan. With an explicit selection
// every named skill must exist in the claimed profile and at most
// maxSkillsAllowed may be named. Without one, skills are auto-picked:
// least-confident first, then closest to the contestable 70 zone, then
// highest score. The prior plan is replaced, never kept alongside.
func (s *Service) CreatePlan(studentID string, selectedSkills []string) (*models.QuizPlan, error) {
	log.Printf("Creating quiz plan for student %s", studentID)

	profiles, err := s.repo.GetClaimedProfiles(studentID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, ErrNoClaimedSkills
	}

	profileByName := make(map[string]models.SkillProfileClaimed, len(profiles))
	for _, p := range profiles {
		profileByName[p.SkillName] = p
	}

	var selected []string
	if selectedSkills != nil {
		if len(selectedSkills) > maxSkillsAllowed {
			return nil, fmt.Errorf("%w: maximum %d, got %d", ErrTooManySkills, maxSkillsAllowed, len(selectedSkills))
		}
		for _, name := range selectedSkills {
			if _, ok := profileByName[name]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrSkillNotFound, name)
			}
		}
		selected = selectedSkills
		log.Printf("Using manually selected skills for student %s: %v", studentID, selected)
	} else {
		sorted := make([]models.SkillProfileClaimed, len(profiles))
		copy(sorted, profiles)
		sort.SliceStable(sorted, func(i, j int) bool {
			if sorted[i].Confidence != sorted[j].Confidence {
				return sorted[i].Confidence < sorted[j].Confidence
			}
			di := math.Abs(sorted[i].ClaimedScore - 70)
			dj := math.Abs(sorted[j].ClaimedScore - 70)
			if di != dj {
				return di < dj
			}
			return sorted[i].ClaimedScore > sorted[j].ClaimedScore
		})

		limit := maxSkillsAllowed
		if len(sorted) < limit {
			limit = len(sorted)
		}
		for _, p := range sorted[:limit] {
			selected = append(selected, p.SkillName)
		}
		log.Printf("Auto-selected %d skills for student %s: %v", len(selected), studentID, selected)
	}

	mixPerSkill := make(map[string]DifficultyMix, len(selected))
	for _, name := range selected {
		mixPerSkill[name] = determineDifficultyMix(profileByName[name].ClaimedScore)
	}

	skillsJSON, err := json.Marshal(selected)
	if err != nil {
		return nil, err
	}
	mixJSON, err := json.Marshal(mixPerSkill)
	if err != nil {
		return nil, err
	}

	plan := &models.QuizPlan{
		StudentID:         studentID,
		SkillsJSON:        string(skillsJSON),
		QuestionsPerSkill: questionsPerSkill,
		DifficultyMixJSON: string(mixJSON),
	}

	if err := s.repo.ReplacePlan(plan); err != nil {
		return nil, err
	}

	log.Printf("Quiz plan %d created for student %s: %d skills", plan.ID, studentID, len(selected))
	return plan, nil
}

// GetLatestPlan returns the student's active plan.
func (s *Service) GetLatestPlan(studentID string) (*models.QuizPlan, error) {
	plan, err := s.repo.GetLatestPlan(studentID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// parsePlan decodes the stored skill list and mix back into working form.
func parsePlan(plan *models.QuizPlan) ([]string, map[string]DifficultyMix, error) {
	var skillNames []string
	if err := json.Unmarshal([]byte(plan.SkillsJSON), &skillNames); err != nil {
		return nil, nil, fmt.Errorf("invalid quiz plan skills: %w", err)
	}
	mixPerSkill := make(map[string]DifficultyMix)
	if err := json.Unmarshal([]byte(plan.DifficultyMixJSON), &mixPerSkill); err != nil {
		return nil, nil, fmt.Errorf("invalid quiz plan difficulty mix: %w", err)
	}
	return skillNames, mixPerSkill, nil
}

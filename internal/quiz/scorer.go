// backend/internal/quiz/scorer.go
package quiz

import (
	"fmt"
	"log"
	"math"

	"skillprofile-system/internal/models"
	"skillprofile-system/internal/skills"
)

// AnswerSubmission is one submitted answer: the question and the chosen option.
type AnswerSubmission struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// PerSkillResult reports one skill's outcome for a single attempt.
type PerSkillResult struct {
	SkillName      string  `json:"skill_name"`
	Correct        int     `json:"correct"`
	TotalQuestions int     `json:"total_questions"`
	VerifiedScore  float64 `json:"verified_score"`
	VerifiedLevel  string  `json:"verified_level"`
	ClaimedScore   float64 `json:"claimed_score"`
	QuizWeight     float64 `json:"w_quiz"`
	ClaimedWeight  float64 `json:"w_claimed"`
	FinalScore     float64 `json:"final_score"`
	FinalLevel     string  `json:"final_level"`
	Explanation    string  `json:"explanation_text"`
}

// PortfolioEntry is one upserted skill-of-record row in the response.
type PortfolioEntry struct {
	SkillName     string  `json:"skill_name"`
	ClaimedScore  float64 `json:"claimed_score"`
	VerifiedScore float64 `json:"verified_score"`
	FinalScore    float64 `json:"final_score"`
	FinalLevel    string  `json:"final_level"`
}

// SubmitResult summarizes one graded submission.
type SubmitResult struct {
	AttemptID            uint             `json:"attempt_id"`
	TotalQuestions       int              `json:"total_questions"`
	QuestionsCorrect     int              `json:"questions_correct"`
	OverallVerifiedScore float64          `json:"overall_verified_score"`
	AverageScore         float64          `json:"average_score"`
	PerSkill             []PerSkillResult `json:"per_skill"`
	Portfolio            []PortfolioEntry `json:"portfolio"`
}

type skillStats struct {
	correct int
	total   int
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validOption(option string) bool {
	switch option {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// SubmitQuiz grades an attempt and folds the result into the student's
// portfolio. The whole submission is rejected on any unknown question id or
// malformed option; unanswered questions count as incorrect. Answers and
// portfolio rows are written in one transaction, and resubmitting the same
// answer set reproduces identical state.
func (s *Service) SubmitQuiz(studentID string, attemptID uint, submissions []AnswerSubmission) (*SubmitResult, error) {
	questions, err := s.repo.GetAttemptQuestions(attemptID, studentID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, ErrAttemptNotFound
	}

	questionByID := make(map[uint]models.QuizQuestion, len(questions))
	for _, q := range questions {
		questionByID[q.QuestionID] = q
	}

	// Validate the whole submission before grading anything.
	selectedByID := make(map[uint]string, len(submissions))
	for _, sub := range submissions {
		if _, ok := questionByID[sub.QuestionID]; !ok {
			return nil, fmt.Errorf("%w: %d", ErrInvalidQuestionID, sub.QuestionID)
		}
		if sub.SelectedOption != "" && !validOption(sub.SelectedOption) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidOption, sub.SelectedOption)
		}
		selectedByID[sub.QuestionID] = sub.SelectedOption
	}

	// Grade every question of the attempt; ungraded questions stay in the
	// denominator as incorrect.
	statsBySkill := make(map[string]*skillStats)
	answers := make([]models.QuizAnswer, 0, len(questions))
	for _, q := range questions {
		selected := selectedByID[q.QuestionID]
		isCorrect := false
		if selected == "" {
			selected = unansweredOption
		} else {
			isCorrect = selected == q.CorrectOption
		}

		answers = append(answers, models.QuizAnswer{
			AttemptID:      attemptID,
			QuestionID:     q.QuestionID,
			StudentID:      studentID,
			SelectedOption: selected,
			IsCorrect:      isCorrect,
		})

		stats := statsBySkill[q.SkillName]
		if stats == nil {
			stats = &skillStats{}
			statsBySkill[q.SkillName] = stats
		}
		stats.total++
		if isCorrect {
			stats.correct++
		}
	}

	claimedProfiles, err := s.repo.GetClaimedProfiles(studentID)
	if err != nil {
		return nil, err
	}
	claimedScores := make(map[string]float64, len(claimedProfiles))
	for _, p := range claimedProfiles {
		claimedScores[p.SkillName] = p.ClaimedScore
	}

	var perSkill []PerSkillResult
	var portfolio []models.StudentSkillPortfolio
	for skillName, stats := range statsBySkill {
		verifiedScore := 100.0 * float64(stats.correct) / float64(stats.total)

		// More questions answered for a skill earns quiz evidence more
		// trust, capped at 80%.
		wQuiz := math.Min(0.50+0.05*float64(stats.total), 0.80)
		wClaimed := 1.0 - wQuiz

		claimedScore := claimedScores[skillName]
		finalScore := wQuiz*verifiedScore + wClaimed*claimedScore
		finalLevel := skills.DetermineLevel(finalScore)

		perSkill = append(perSkill, PerSkillResult{
			SkillName:      skillName,
			Correct:        stats.correct,
			TotalQuestions: stats.total,
			VerifiedScore:  round2(verifiedScore),
			VerifiedLevel:  skills.DetermineLevel(verifiedScore),
			ClaimedScore:   round2(claimedScore),
			QuizWeight:     round2(wQuiz),
			ClaimedWeight:  round2(wClaimed),
			FinalScore:     round2(finalScore),
			FinalLevel:     finalLevel,
			Explanation: fmt.Sprintf(
				"Final score is %.1f%% from quiz (%.1f) + %.1f%% from transcript (%.1f). Weight adapts with quiz size.",
				wQuiz*100, verifiedScore, wClaimed*100, claimedScore),
		})

		portfolio = append(portfolio, models.StudentSkillPortfolio{
			StudentID:      studentID,
			SkillName:      skillName,
			ClaimedScore:   claimedScore,
			VerifiedScore:  verifiedScore,
			QuizWeight:     wQuiz,
			ClaimedWeight:  wClaimed,
			FinalScore:     finalScore,
			FinalLevel:     finalLevel,
			CorrectCount:   stats.correct,
			TotalQuestions: stats.total,
		})
	}

	if err := s.repo.SaveSubmission(studentID, attemptID, answers, portfolio); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateStudent(studentID); err != nil {
			log.Printf("Error invalidating cache for student %s: %v", studentID, err)
		}
	}

	totalCorrect := 0
	totalQuestions := 0
	for _, stats := range statsBySkill {
		totalCorrect += stats.correct
		totalQuestions += stats.total
	}
	overall := 0.0
	if totalQuestions > 0 {
		overall = 100.0 * float64(totalCorrect) / float64(totalQuestions)
	}
	average := 0.0
	if len(perSkill) > 0 {
		for _, r := range perSkill {
			average += r.FinalScore
		}
		average /= float64(len(perSkill))
	}

	entries := make([]PortfolioEntry, 0, len(portfolio))
	for _, row := range portfolio {
		entries = append(entries, PortfolioEntry{
			SkillName:     row.SkillName,
			ClaimedScore:  round2(row.ClaimedScore),
			VerifiedScore: round2(row.VerifiedScore),
			FinalScore:    round2(row.FinalScore),
			FinalLevel:    row.FinalLevel,
		})
	}

	result := &SubmitResult{
		AttemptID:            attemptID,
		TotalQuestions:       totalQuestions,
		QuestionsCorrect:     totalCorrect,
		OverallVerifiedScore: round2(overall),
		AverageScore:         round2(average),
		PerSkill:             perSkill,
		Portfolio:            entries,
	}

	if s.hub != nil {
		s.hub.NotifyStudent(studentID, "quiz_scored", result)
	}

	log.Printf("Quiz scored for student %s, attempt %d: %d/%d correct (%.1f%%)",
		studentID, attemptID, totalCorrect, totalQuestions, overall)
	return result, nil
}

// GetPortfolio returns the student's skill-of-record rows, cached per student.
func (s *Service) GetPortfolio(studentID string) ([]models.StudentSkillPortfolio, error) {
	if s.cache != nil {
		if portfolio, err := s.cache.GetPortfolio(studentID); err == nil {
			return portfolio, nil
		}
	}

	portfolio, err := s.repo.GetPortfolio(studentID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(portfolio) > 0 {
		s.cache.SetPortfolio(studentID, portfolio)
	}
	return portfolio, nil
}

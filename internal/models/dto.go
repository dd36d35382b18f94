// backend/internal/models/dto.go
package models

import "encoding/json"

// QuestionDTO is the wire form of an issued question. The correct option and
// explanation are only included for grading reveals, never when serving a quiz.
type QuestionDTO struct {
	QuestionID    uint              `json:"question_id"`
	SkillName     string            `json:"skill_name"`
	Difficulty    string            `json:"difficulty"`
	QuestionText  string            `json:"question_text"`
	Options       map[string]string `json:"options"`
	CorrectOption string            `json:"correct_option,omitempty"`
	Explanation   string            `json:"explanation,omitempty"`
}

// ToDTO converts an issued question for the student-facing response.
// reveal exposes the correct option and explanation (post-grading views).
func (q QuizQuestion) ToDTO(reveal bool) QuestionDTO {
	options := map[string]string{}
	if err := json.Unmarshal([]byte(q.OptionsJSON), &options); err != nil {
		options = map[string]string{}
	}

	dto := QuestionDTO{
		QuestionID:   q.QuestionID,
		SkillName:    q.SkillName,
		Difficulty:   q.Difficulty,
		QuestionText: q.QuestionText,
		Options:      options,
	}
	if reveal {
		dto.CorrectOption = q.CorrectOption
		dto.Explanation = q.Explanation
	}
	return dto
}

// ClaimedSkillDTO is one row of the claimed profile listing.
type ClaimedSkillDTO struct {
	SkillName    string  `json:"skill_name"`
	ClaimedScore float64 `json:"claimed_score"`
	ClaimedLevel string  `json:"claimed_level"`
	Confidence   float64 `json:"confidence"`
}

// RecomputeResult summarizes one evidence recompute for a student.
type RecomputeResult struct {
	StudentID      string            `json:"student_id"`
	SkillsComputed int               `json:"skills_computed"`
	EvidenceCount  int               `json:"evidence_count"`
	ClaimedSkills  []ClaimedSkillDTO `json:"claimed_skills"`
}

// backend/internal/quiz/service.go
package quiz

import (
	"errors"

	"skillprofile-system/pkg/cache"
	"skillprofile-system/pkg/websocket"
)

// Validation and lookup failures surfaced to the HTTP layer. Handlers map
// these to status codes with errors.Is.
var (
	ErrNoClaimedSkills   = errors.New("no claimed skills found for student")
	ErrTooManySkills     = errors.New("too many skills selected")
	ErrSkillNotFound     = errors.New("selected skill not found for student")
	ErrPlanNotFound      = errors.New("no quiz plan found for student")
	ErrEmptyBank         = errors.New("question bank has no matching questions for the quiz plan")
	ErrAttemptNotFound   = errors.New("quiz attempt not found for student")
	ErrInvalidQuestionID = errors.New("question does not belong to this attempt")
	ErrInvalidOption     = errors.New("selected option must be A, B, C or D")
)

const (
	maxSkillsAllowed  = 5
	questionsPerSkill = 4
	unansweredOption  = "UNANSWERED"
)

type Service struct {
	repo  *Repository
	cache *cache.RedisCache
	hub   *websocket.Hub
}

func NewService(repo *Repository, cache *cache.RedisCache, hub *websocket.Hub) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		hub:   hub,
	}
}

// DifficultyMix is the per-skill count of questions at each difficulty.
type DifficultyMix struct {
	Easy   int `json:"easy"`
	Medium int `json:"medium"`
	Hard   int `json:"hard"`
}

func (m DifficultyMix) count(difficulty string) int {
	switch difficulty {
	case "easy":
		return m.Easy
	case "medium":
		return m.Medium
	case "hard":
		return m.Hard
	}
	return 0
}

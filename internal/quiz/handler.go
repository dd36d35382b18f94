// backend/internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type CreatePlanRequest struct {
	SelectedSkills []string `json:"selected_skills"`
}

type SubmitQuizRequest struct {
	AttemptID uint               `json:"attempt_id"`
	Answers   []AnswerSubmission `json:"answers"`
}

func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	var req CreatePlanRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	plan, err := h.service.CreatePlan(studentID, req.SelectedSkills)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoClaimedSkills):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrTooManySkills), errors.Is(err, ErrSkillNotFound):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error creating quiz plan for student %s: %v", studentID, err)
			http.Error(w, "Failed to create quiz plan", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(plan)
}

func (h *Handler) GetLatestPlan(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	plan, err := h.service.GetLatestPlan(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(plan)
}

func (h *Handler) SampleQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	result, err := h.service.SampleQuiz(studentID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPlanNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrEmptyBank):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error sampling quiz for student %s: %v", studentID, err)
			http.Error(w, "Failed to sample quiz", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	var req SubmitQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	// Attempt id may also arrive as a path segment on the legacy route.
	if raw, ok := vars["attemptID"]; ok {
		attemptID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			http.Error(w, "Invalid attempt ID", http.StatusBadRequest)
			return
		}
		req.AttemptID = uint(attemptID)
	}

	result, err := h.service.SubmitQuiz(studentID, req.AttemptID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrAttemptNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, ErrInvalidQuestionID), errors.Is(err, ErrInvalidOption):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			log.Printf("Error submitting quiz for student %s: %v", studentID, err)
			http.Error(w, "Failed to submit quiz", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	portfolio, err := h.service.GetPortfolio(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(portfolio) == 0 {
		http.Error(w, "No portfolio found for student", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(portfolio)
}

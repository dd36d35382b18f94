// backend/internal/bank/handler.go
package bank

import (
	"encoding/json"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type AddQuestionsRequest struct {
	Questions []QuestionRow `json:"questions"`
}

func (h *Handler) AddQuestions(w http.ResponseWriter, r *http.Request) {
	var req AddQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if len(req.Questions) == 0 {
		http.Error(w, "No questions provided", http.StatusBadRequest)
		return
	}

	result, err := h.service.AddQuestions(req.Questions)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetStats()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(stats)
}

// backend/internal/skills/handler.go
package skills

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RecomputeSkills(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	result, err := h.service.RecomputeSkills(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// Zero skills is a data-shape outcome of the recompute, surfaced here as
	// not-found so the caller knows to upload a transcript first.
	if result.SkillsComputed == 0 {
		http.Error(w, "No courses or skill mappings found for student", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetClaimedProfile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	claimed, err := h.service.GetClaimedProfile(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(claimed) == 0 {
		http.Error(w, "No claimed skills found for student", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(claimed)
}

func (h *Handler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	evidence, err := h.service.GetEvidence(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(evidence) == 0 {
		http.Error(w, "No skill evidence found for student", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(evidence)
}

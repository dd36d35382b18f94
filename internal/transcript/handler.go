// backend/internal/transcript/handler.go
package transcript

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type IngestRequest struct {
	Courses []CourseRow `json:"courses"`
}

func (h *Handler) IngestTranscript(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	result, err := h.service.Ingest(studentID, req.Courses)
	if err != nil {
		if errors.Is(err, ErrInvalidCourse) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Error ingesting transcript for student %s: %v", studentID, err)
		http.Error(w, "Failed to ingest transcript", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(result)
}

func (h *Handler) GetCourses(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	studentID := vars["studentID"]

	courses, err := h.service.GetCourses(studentID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if len(courses) == 0 {
		http.Error(w, "No courses found for student", http.StatusNotFound)
		return
	}

	json.NewEncoder(w).Encode(courses)
}

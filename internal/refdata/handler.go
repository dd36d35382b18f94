// backend/internal/refdata/handler.go
package refdata

import (
	"encoding/json"
	"log"
	"net/http"
)

type Handler struct {
	service     *Service
	defaultPath string
}

func NewHandler(service *Service, defaultPath string) *Handler {
	return &Handler{
		service:     service,
		defaultPath: defaultPath,
	}
}

type ReloadRequest struct {
	Path string `json:"path"`
}

func (h *Handler) ReloadCourseSkillMap(w http.ResponseWriter, r *http.Request) {
	var req ReloadRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request", http.StatusBadRequest)
			return
		}
	}

	path := req.Path
	if path == "" {
		path = h.defaultPath
	}
	if path == "" {
		http.Error(w, "No course skill map path configured", http.StatusBadRequest)
		return
	}

	result, err := h.service.LoadCourseSkillMapFile(path)
	if err != nil {
		log.Printf("Error reloading course skill map from %s: %v", path, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(result)
}

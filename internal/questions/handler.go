package questions

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/MarcoGiova99/tutor/internal/auth"
	"github.com/MarcoGiova99/tutor/internal/models"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(protected *mux.Router) {
	protected.HandleFunc("/levels", h.GetRoadmap).Methods("GET")
	protected.HandleFunc("/levels/{id}/questions", h.ImportQuestions).Methods("POST")
}

func (h *Handler) GetRoadmap(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	course := r.URL.Query().Get("course")
	if course == "" {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "course is required"})
		return
	}

	nodes, err := h.service.Roadmap(r.Context(), studentID, course)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load roadmap"})
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// ImportQuestions accepts a question file from a tutor.
func (h *Handler) ImportQuestions(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}
	if id.Role != models.RoleTutor {
		writeJSON(w, http.StatusForbidden, models.ErrorResponse{Error: "Tutor role required"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 20<<20)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.service.Import(r.Context(), mux.Vars(r)["id"], body)
	var verr *ValidationError
	switch {
	case errors.Is(err, ErrLevelNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: err.Error()})
		return
	case errors.As(err, &verr), errors.Is(err, ErrInvalidFile):
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Import failed"})
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

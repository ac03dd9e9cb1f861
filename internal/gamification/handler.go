package gamification

import (
	"encoding/json"
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
	protected.HandleFunc("/goals/today", h.GetToday).Methods("GET")
}

func (h *Handler) GetToday(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	resp, err := h.service.Today(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to get daily goals"})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

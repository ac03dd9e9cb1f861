package srs

import (
	"encoding/json"
	"errors"
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
	protected.HandleFunc("/reviews/due", h.GetDue).Methods("GET")
	protected.HandleFunc("/reviews/{questionID}", h.SubmitReview).Methods("POST")
}

func (h *Handler) GetDue(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	items, err := h.service.ListDue(r.Context(), studentID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load reviews"})
		return
	}
	writeJSON(w, http.StatusOK, models.DueReviewsResponse{Items: items, Count: len(items)})
}

func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	studentID, ok := auth.StudentID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	out, err := h.service.Review(r.Context(), studentID, mux.Vars(r)["questionID"])
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Review item not found"})
		return
	case errors.Is(err, ErrNotDue):
		writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to record review"})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

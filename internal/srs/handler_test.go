package srs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/MarcoGiova99/tutor/internal/auth"
	"github.com/MarcoGiova99/tutor/internal/models"
)

func TestReviewHandlers(t *testing.T) {
	clock := now
	svc, _, _ := newTestService(&clock)
	svc.RecordMisses(t.Context(), "stu", misses("q1"))

	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req = req.WithContext(auth.WithIdentity(req.Context(), models.Identity{StudentID: "stu", Role: models.RoleStudent}))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := do("GET", "/reviews/due")
	if rec.Code != http.StatusOK {
		t.Fatalf("due status = %d", rec.Code)
	}
	var due models.DueReviewsResponse
	json.NewDecoder(rec.Body).Decode(&due)
	if due.Count != 1 || due.Items[0].Snapshot.Text != "Text q1" {
		t.Errorf("due = %+v", due)
	}

	rec = do("POST", "/reviews/q1")
	if rec.Code != http.StatusOK {
		t.Fatalf("review status = %d, body %s", rec.Code, rec.Body.String())
	}
	var out models.ReviewOutcome
	json.NewDecoder(rec.Body).Decode(&out)
	if out.IntervalDays != 1 || out.DueDate == nil || !out.DueDate.Equal(now.Add(24*time.Hour)) {
		t.Errorf("outcome = %+v", out)
	}

	if rec := do("POST", "/reviews/q1"); rec.Code != http.StatusConflict {
		t.Errorf("early review status = %d, want 409", rec.Code)
	}
	if rec := do("POST", "/reviews/missing"); rec.Code != http.StatusNotFound {
		t.Errorf("missing review status = %d, want 404", rec.Code)
	}
}

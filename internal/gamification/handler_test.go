package gamification

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

func TestGetTodayHandler(t *testing.T) {
	clock := monday
	svc := newTestService(newMemoryActivity(), Config{}, &clock)
	r := mux.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/goals/today", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous status = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest("GET", "/goals/today", nil)
	req = req.WithContext(auth.WithIdentity(req.Context(), models.Identity{StudentID: "stu", Role: models.RoleStudent}))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.GoalsTodayResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Profile.Name != models.ProfileBeginner || !resp.CanStudyToday {
		t.Errorf("response = %+v", resp)
	}
	if !resp.Activity.Day.Equal(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("day = %v", resp.Activity.Day)
	}
}

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/MarcoGiova99/tutor/internal/models"
)

const testSecret = "test-secret-with-enough-length"

func TestIssueAndParse(t *testing.T) {
	tokens := NewTokens(testSecret, "tutor")

	signed, err := tokens.Issue("stu-1", models.RoleTutor, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	id, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.StudentID != "stu-1" || id.Role != models.RoleTutor {
		t.Errorf("identity = %+v", id)
	}
}

func TestParseDefaultsToStudentRole(t *testing.T) {
	tokens := NewTokens(testSecret, "")
	signed, _ := tokens.Issue("stu-1", "", time.Hour)

	id, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if id.Role != models.RoleStudent {
		t.Errorf("role = %q, want student", id.Role)
	}
}

func TestParseRejects(t *testing.T) {
	tokens := NewTokens(testSecret, "tutor")
	now := time.Now()

	expired := NewTokens(testSecret, "tutor")
	expired.now = func() time.Time { return now.Add(-2 * time.Hour) }
	expiredToken, _ := expired.Issue("stu-1", models.RoleStudent, time.Hour)

	otherSecret, _ := NewTokens("another-secret-entirely", "tutor").Issue("stu-1", models.RoleStudent, time.Hour)
	otherIssuer, _ := NewTokens(testSecret, "someone-else").Issue("stu-1", models.RoleStudent, time.Hour)
	noSubject, _ := tokens.Issue("", models.RoleStudent, time.Hour)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "stu-1", Issuer: "tutor"},
	}).SignedString([]byte(testSecret))

	wrongAlg, _ := jwt.NewWithClaims(jwt.SigningMethodHS384, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "stu-1",
			Issuer:    "tutor",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))

	tests := map[string]string{
		"expired":      expiredToken,
		"other secret": otherSecret,
		"other issuer": otherIssuer,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
		"wrong alg":    wrongAlg,
		"garbage":      "not.a.token",
		"empty":        "",
	}
	for name, token := range tests {
		if _, err := tokens.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: err = %v, want ErrInvalidToken", name, err)
		}
	}
}

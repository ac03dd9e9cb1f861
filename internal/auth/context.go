package auth

import (
	"context"
	"net/http"

	"github.com/MarcoGiova99/tutor/internal/models"
)

type identityKey struct{}

func WithIdentity(ctx context.Context, id models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (models.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(models.Identity)
	return id, ok && id.StudentID != ""
}

// StudentID returns the authenticated student id of the request.
func StudentID(r *http.Request) (string, bool) {
	id, ok := IdentityFrom(r.Context())
	return id.StudentID, ok
}

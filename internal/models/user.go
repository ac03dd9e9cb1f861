package models

type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Identity is the authenticated caller, taken from a verified bearer token.
type Identity struct {
	StudentID string
	Role      Role
}

type ErrorResponse struct {
	Error string `json:"error"`
}

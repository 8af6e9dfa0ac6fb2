package domain

import "fmt"

// Role classifies an actor in the directory.
type Role string

const (
	RoleUser  Role = "user"
	RoleNGO   Role = "ngo"
	RoleAdmin Role = "admin"
)

// ParseRole validates a raw role string from storage or a token claim.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleNGO, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Actor is a resolved directory entry.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

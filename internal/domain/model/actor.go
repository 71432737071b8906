package model

// Role is the caller role supplied by the auth collaborator.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Actor identifies who is driving a transition.
type Actor struct {
	UserID int64
	Role   Role
}

// IsAdmin reports whether the actor may drive admin-only transitions.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor is the owner of an entity belonging to userID.
func (a Actor) Owns(userID int64) bool {
	return a.UserID != 0 && a.UserID == userID
}

package domain

// Actor is the authenticated caller of an operation
type Actor struct {
	UserID int64
	Role   string
}

// IsAdmin returns true for platform administrators
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

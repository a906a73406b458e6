package model

// Role is the authorization level of a User.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is an authenticated identity. It is immutable once issued.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Valid reports whether the user is structurally well formed.
func (u *User) Valid() bool {
	return u != nil && u.ID != "" && u.Email != "" && u.Role.Valid()
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Session is the authenticated state of the dashboard. A Session only
// exists with a non-empty token and a well-formed user.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Valid reports whether s is a complete session.
func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && s.User.Valid()
}

// DirectoryEntry is a user that vehicles can be assigned to.
type DirectoryEntry struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

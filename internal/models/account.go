package models

// Account roles. The admin is seeded by bootstrap; registration only ever
// creates teachers.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Account is one login credential. Password always holds a bcrypt hash, never
// plaintext.
type Account struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// Identity is the authenticated view of an account attached to a session.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

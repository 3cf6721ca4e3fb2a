package model

// Role gates which endpoints and actions a user may reach.
type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return true
	}
	return false
}

// User represents a user row. PasswordHash holds an Argon2id PHC string.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// LoginRequest represents a login request. Role scopes the lookup.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// AuthResponse represents a successful login.
type AuthResponse struct {
	Success bool         `json:"success"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
}

// UserResponse is the public projection of a user; it never carries the password.
type UserResponse struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	ID    int64  `json:"id"`
}

// ToResponse projects u to its public fields.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		Email: u.Email,
		Role:  u.Role,
		Name:  u.Name,
		ID:    u.ID,
	}
}

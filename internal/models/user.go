package models

import "time"

// UserRole represents the available account roles.
type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User represents an application account. The digest never leaves the server.
type User struct {
	ID           string     `db:"id" bson:"_id" json:"id"`
	Email        string     `db:"email" bson:"email" json:"email"`
	PasswordHash string     `db:"password_hash" bson:"password_hash" json:"-"`
	Name         string     `db:"name" bson:"name" json:"name"`
	Role         UserRole   `db:"role" bson:"role" json:"role"`
	IsActive     bool       `db:"is_active" bson:"is_active" json:"isActive"`
	LastLogin    *time.Time `db:"last_login" bson:"last_login" json:"lastLogin"`
	CreatedAt    time.Time  `db:"created_at" bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" bson:"updated_at" json:"updatedAt"`
}

// Info returns the public projection of the user.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// UserFilter narrows user counts. Nil fields match everything.
type UserFilter struct {
	Role   *UserRole
	Active *bool
}

// UserInfo describes a user in responses.
type UserInfo struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

// UserRef is the lookup result embedded where a record points at a user.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

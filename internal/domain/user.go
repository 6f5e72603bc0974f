package domain

import (
	"context"
	"time"
)

// MaxUsernameLength bounds the username column.
const MaxUsernameLength = 100

// MaxPasswordLength is the bcrypt input limit, in bytes.
const MaxPasswordLength = 72

// ValidatePassword checks the byte length of a password before it is hashed.
func ValidatePassword(field, password string) ValidationErrors {
	if password == "" {
		return ValidationErrors{NewMissingFieldError(field)}
	}
	if len(password) > MaxPasswordLength {
		return ValidationErrors{NewOutOfRangeError(field, len(password), 1, MaxPasswordLength)}
	}
	return nil
}

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// ParseRole rejects anything outside the closed set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", ValidationErrors{NewInvalidFormatError("role", s)}
	}
	return r, nil
}

// User is an account. Users are never hard-deleted.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID string
	Role   Role
}

// Identity returns u acting on its own behalf.
func (u *User) Identity() Identity {
	return Identity{UserID: u.ID, Role: u.Role}
}

// UserRepository stores accounts. Lookups return (nil, nil) when nothing matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	ListRecentUsers(ctx context.Context, limit int) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// PasswordHasher hides the hashing algorithm from the services.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

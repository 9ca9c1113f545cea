package model

import "time"

// Role is the closed set of account kinds known to the application.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
	RoleStore Role = "store"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStore:
		return true
	}
	return false
}

// User represents a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Role         Role
	Address      string
	CreatedAt    time.Time
}

// UserView is the redacted projection of User returned to clients.
type UserView struct {
	Name  string
	Email string
	Role  Role
}

// View strips the credential hash and internal fields.
func (u *User) View() UserView {
	return UserView{Name: u.Name, Email: u.Email, Role: u.Role}
}

// Claims identify an authenticated user inside a session token.
type Claims struct {
	UserID int64
	Email  string
	Name   string
	Role   Role
}

// Claims builds the token payload for the user.
func (u *User) Claims() Claims {
	return Claims{UserID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role}
}

// Session is the outcome of a successful authentication.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      UserView
}

// Registration is the self-service signup request.
type Registration struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
	Role            Role
}

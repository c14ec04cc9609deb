package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

//go:generate mockgen -source=service.go -destination=../mocks/mock_service.go -package=mocks
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	// EnsureUser creates the user unless the email is already registered.
	EnsureUser(ctx context.Context, req RegisterRequest) (*User, bool, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Principal, error)
	ChangePassword(ctx context.Context, userID string, newPassword string) error
	CurrentUser(ctx context.Context, userID string) (*User, error)
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

type LoginResult struct {
	User      *User
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}

// Principal is the authenticated caller behind a session token.
type Principal struct {
	Session *Session
	User    *User
}

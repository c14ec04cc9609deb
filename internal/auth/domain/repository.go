package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	SetPassword(ctx context.Context, id snowflake.ID, hash string, at time.Time) error
	RecordLogin(ctx context.Context, id snowflake.ID, at time.Time) error
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	UpdateLastSeen(ctx context.Context, sessionID snowflake.ID, lastSeen time.Time) error
	RevokeSession(ctx context.Context, sessionID snowflake.ID, revokedAt time.Time) error
	// RevokeUserSessions ends every live session of a user and reports how
	// many there were.
	RevokeUserSessions(ctx context.Context, userID snowflake.ID, revokedAt time.Time) (int64, error)
}

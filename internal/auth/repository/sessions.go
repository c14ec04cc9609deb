package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/karatledger/internal/auth/domain"
	"gorm.io/gorm"
)

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) CreateSession(ctx context.Context, session *domain.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepo) GetSessionByTokenHash(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var session domain.Session
	err := r.db.WithContext(ctx).Where("session_token_hash = ?", tokenHash).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) UpdateLastSeen(ctx context.Context, sessionID snowflake.ID, lastSeen time.Time) error {
	return r.touch(ctx, sessionID, "last_seen_at", lastSeen)
}

func (r *sessionRepo) RevokeSession(ctx context.Context, sessionID snowflake.ID, revokedAt time.Time) error {
	return r.touch(ctx, sessionID, "revoked_at", revokedAt)
}

func (r *sessionRepo) RevokeUserSessions(ctx context.Context, userID snowflake.ID, revokedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", revokedAt)
	return res.RowsAffected, res.Error
}

func (r *sessionRepo) touch(ctx context.Context, sessionID snowflake.ID, column string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&domain.Session{}).Where("id = ?", sessionID).Update(column, at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

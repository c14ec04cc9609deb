package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/karatledger/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrUnknownKind = errors.New("unknown_sequence_kind")

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock `optional:"true"`
}

type Generator struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) *Generator {
	return &Generator{
		db:    p.DB,
		log:   p.Log.Named("sequence"),
		clock: clock.OrReal(p.Clock),
	}
}

// Next increments the kind's counter inside tx and returns the formatted
// number. The row lock taken by the upsert is held until tx ends, so
// concurrent callers never observe the same value.
func (g *Generator) Next(ctx context.Context, tx *gorm.DB, kind Kind) (string, error) {
	if kind.Counter == "" {
		return "", ErrUnknownKind
	}
	now := g.clock.Now()

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"value":      gorm.Expr("sequence_counters.value + 1"),
				"updated_at": now,
			}),
		}).
		Create(&Counter{Name: kind.Counter, Value: 1, UpdatedAt: now}).Error
	if err != nil {
		return "", fmt.Errorf("sequence %s: increment: %w", kind.Counter, err)
	}

	var c Counter
	if err := tx.WithContext(ctx).Where("name = ?", kind.Counter).Take(&c).Error; err != nil {
		return "", fmt.Errorf("sequence %s: read: %w", kind.Counter, err)
	}

	return kind.Format(c.Value), nil
}

// Assign returns supplied, normalized, when the caller provided one.
// Otherwise it draws the next number.
func (g *Generator) Assign(ctx context.Context, tx *gorm.DB, kind Kind, supplied string) (string, error) {
	if n := Normalize(supplied); n != "" {
		return n, nil
	}
	return g.Next(ctx, tx, kind)
}

// Peek returns the number Next would issue, without consuming it.
func (g *Generator) Peek(ctx context.Context, kind Kind) (string, error) {
	if kind.Counter == "" {
		return "", ErrUnknownKind
	}
	var c Counter
	err := g.db.WithContext(ctx).Where("name = ?", kind.Counter).Find(&c).Error
	if err != nil {
		return "", err
	}
	return kind.Format(c.Value + 1), nil
}

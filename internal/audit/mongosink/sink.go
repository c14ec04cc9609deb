// Package mongosink mirrors audit entries into MongoDB.
package mongosink

import (
	"context"
	"fmt"
	"time"

	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	"github.com/smallbiznis/karatledger/internal/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const collectionName = "audit_logs"

type Sink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func (s *Sink) Write(ctx context.Context, entry auditdomain.AuditLog) error {
	if _, err := s.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("audit/mongo: insert %s: %w", entry.ID, err)
	}
	return nil
}

// Migrate creates the collection indexes.
func (s *Sink) Migrate(ctx context.Context) error {
	_, err := s.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("audit/mongo: migrate indexes: %w", err)
	}
	return nil
}

// Provide connects the mirror when MONGO_URI is set. It returns a nil Sink
// otherwise, which the audit service treats as disabled.
func Provide(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (auditdomain.Sink, error) {
	if cfg.MongoURI == "" {
		return nil, nil
	}
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("audit/mongo: connect: %w", err)
	}
	sink := &Sink{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(collectionName),
	}
	log = log.Named("audit.mongo")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			if err := sink.Migrate(ctx); err != nil {
				log.Warn("audit mirror unavailable", zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})
	return sink, nil
}

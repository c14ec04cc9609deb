package migration

import (
	"context"
	"io/fs"
	"testing"

	"github.com/smallbiznis/karatledger/internal/auth/repository"
	authservice "github.com/smallbiznis/karatledger/internal/auth/service"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApplyMigratesModelsOnSQLite(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Apply(db))

	for _, table := range []string{
		"sequence_counters", "customers", "job_workers", "agents", "items", "stations",
		"rate_books", "transactions", "loans", "orders", "bills", "payments",
		"users", "sessions", "audit_logs",
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	// Running twice is a no-op.
	require.NoError(t, Apply(db))
}

func TestApplyRequiresHandle(t *testing.T) {
	assert.Error(t, Apply(nil))
	assert.Error(t, RunMigrations(nil))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, "sql/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, "sql/*.down.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}

func TestEnsureDefaultAdminIsIdempotent(t *testing.T) {
	db := testutil.OpenDB(t)
	require.NoError(t, Apply(db))

	repo, sessions := repository.New(db)
	cfg := config.Config{DefaultAdminEmail: "admin@ledgersystem.com", DefaultAdminPass: "admin123"}
	users := authservice.New(authservice.Params{
		Log:         zap.NewNop(),
		Repo:        repo,
		SessionRepo: sessions,
		GenID:       testutil.Node(t),
		Cfg:         cfg,
	})

	ctx := context.Background()
	require.NoError(t, EnsureDefaultAdmin(ctx, users, cfg, zap.NewNop()))
	require.NoError(t, EnsureDefaultAdmin(ctx, users, cfg, zap.NewNop()))

	var count int64
	require.NoError(t, db.Table("users").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	require.NoError(t, EnsureDefaultAdmin(ctx, users, config.Config{}, zap.NewNop()))
}

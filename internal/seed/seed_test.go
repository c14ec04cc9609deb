package seed

import (
	"context"
	"testing"
	"time"

	authrepo "github.com/smallbiznis/karatledger/internal/auth/repository"
	authservice "github.com/smallbiznis/karatledger/internal/auth/service"
	"github.com/smallbiznis/karatledger/internal/clock"
	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/migration"
	ratebookrepo "github.com/smallbiznis/karatledger/internal/ratebook/repository"
	ratebookservice "github.com/smallbiznis/karatledger/internal/ratebook/service"
	stationrepo "github.com/smallbiznis/karatledger/internal/station/repository"
	stationservice "github.com/smallbiznis/karatledger/internal/station/service"
	"github.com/smallbiznis/karatledger/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newSeeder(t *testing.T) (*Seeder, *gorm.DB) {
	t.Helper()

	db := testutil.OpenDB(t, migration.Models()...)
	log := zap.NewNop()
	node := testutil.Node(t)
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC))
	cfg := config.Config{DefaultAdminEmail: "owner@shop.in", DefaultAdminPass: "owner123"}

	repo, sessions := authrepo.New(db)
	return New(Params{
		DB:  db,
		Log: log,
		Cfg: cfg,
		Users: authservice.New(authservice.Params{
			Log: log, Repo: repo, SessionRepo: sessions, GenID: node, Cfg: cfg, Clock: clk,
		}),
		Stations:  stationservice.New(stationservice.Params{DB: db, Log: log, GenID: node, Repo: stationrepo.Provide(), Clock: clk}),
		RateBooks: ratebookservice.New(ratebookservice.Params{DB: db, Log: log, GenID: node, Repo: ratebookrepo.Provide(), Clock: clk}),
	}), db
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestImportIsRepeatable(t *testing.T) {
	s, db := newSeeder(t)
	ctx := context.Background()

	sum, err := s.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{Users: 3, Stations: 2, RateBooks: 1}, sum)

	sum, err = s.Import(ctx)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)

	assert.Equal(t, int64(3), count(t, db, "users"))
	assert.Equal(t, int64(2), count(t, db, "stations"))
	assert.Equal(t, int64(1), count(t, db, "rate_books"))

	var emails []string
	require.NoError(t, db.Table("users").Where("role = ?", "admin").Pluck("email", &emails).Error)
	assert.Equal(t, []string{"owner@shop.in"}, emails)
}

func TestDestroyEmptiesTables(t *testing.T) {
	s, db := newSeeder(t)
	ctx := context.Background()

	_, err := s.Import(ctx)
	require.NoError(t, err)
	require.NoError(t, s.Destroy(ctx))

	for _, table := range []string{"users", "stations", "rate_books"} {
		assert.Zero(t, count(t, db, table), table)
	}
}

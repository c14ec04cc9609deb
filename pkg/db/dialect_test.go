package db

import (
	"testing"

	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSNFromSettings(t *testing.T) {
	kind, dsn, err := DSN(config.Config{
		DBType: "postgres", DBHost: "db", DBPort: "5432", DBUser: "shop", DBPassword: "pw", DBName: "karat", DBSSLMode: "disable",
	})
	require.NoError(t, err)
	assert.Equal(t, "postgres", kind)
	assert.Equal(t, "host=db user=shop password=pw dbname=karat port=5432 sslmode=disable TimeZone=UTC", dsn)

	kind, dsn, err = DSN(config.Config{
		DBType: "mysql", DBHost: "db", DBPort: "3306", DBUser: "shop", DBPassword: "pw", DBName: "karat",
	})
	require.NoError(t, err)
	assert.Equal(t, "mysql", kind)
	assert.Contains(t, dsn, "shop:pw@tcp(db:3306)/karat?")
	assert.Contains(t, dsn, "parseTime=true")

	kind, dsn, err = DSN(config.Config{DBType: "sqlite", SQLitePath: "shop.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", kind)
	assert.Equal(t, "shop.db", dsn)

	_, _, err = DSN(config.Config{DBType: "oracle"})
	assert.Error(t, err)
}

func TestDSNFromURL(t *testing.T) {
	kind, dsn, err := DSN(config.Config{DBType: "sqlite", DBURL: "postgresql://shop:pw@db:5432/karat?sslmode=require"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", kind)
	assert.Equal(t, "postgresql://shop:pw@db:5432/karat?sslmode=require", dsn)

	kind, dsn, err = DSN(config.Config{DBURL: "mysql://shop:pw@db:3306/karat"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", kind)
	assert.Contains(t, dsn, "shop:pw@tcp(db:3306)/karat?")

	kind, dsn, err = DSN(config.Config{DBURL: "sqlite://data/shop.db"})
	require.NoError(t, err)
	assert.Equal(t, "sqlite", kind)
	assert.Equal(t, "data/shop.db", dsn)

	_, _, err = DSN(config.Config{DBURL: "mongodb://db/karat"})
	assert.Error(t, err)
	_, _, err = DSN(config.Config{DBURL: "karat.db"})
	assert.Error(t, err)
}

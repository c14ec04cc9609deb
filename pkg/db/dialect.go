package db

import (
	"fmt"
	"net"
	"strings"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/smallbiznis/karatledger/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect picks the gorm driver. DATABASE_URL wins over the discrete
// DATABASE_* settings and decides the driver from its scheme.
func Dialect(cfg config.Config) (gorm.Dialector, error) {
	kind, dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}
	switch kind {
	case "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	default:
		return sqlite.Open(dsn), nil
	}
}

// DSN returns the driver name and connection string for cfg.
func DSN(cfg config.Config) (string, string, error) {
	if url := strings.TrimSpace(cfg.DBURL); url != "" {
		return fromURL(url)
	}

	switch cfg.DBType {
	case "mysql":
		mc := gomysql.NewConfig()
		mc.User = cfg.DBUser
		mc.Passwd = cfg.DBPassword
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		mc.Params = map[string]string{"charset": "utf8mb4"}
		return "mysql", mc.FormatDSN(), nil
	case "postgres":
		return "postgres", fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
		), nil
	case "sqlite":
		return "sqlite", cfg.SQLitePath, nil
	default:
		return "", "", fmt.Errorf("unsupported database type %q", cfg.DBType)
	}
}

func fromURL(url string) (string, string, error) {
	scheme, rest, ok := strings.Cut(url, "://")
	if !ok {
		return "", "", fmt.Errorf("DATABASE_URL has no scheme")
	}
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return "postgres", url, nil
	case "mysql":
		// go-sql-driver wants user:pass@tcp(host)/db, not a url.
		mc, err := gomysql.ParseDSN(mysqlDSN(rest))
		if err != nil {
			return "", "", fmt.Errorf("DATABASE_URL: %w", err)
		}
		mc.ParseTime = true
		mc.Loc = time.UTC
		return "mysql", mc.FormatDSN(), nil
	case "sqlite", "file":
		return "sqlite", rest, nil
	default:
		return "", "", fmt.Errorf("unsupported DATABASE_URL scheme %q", scheme)
	}
}

func mysqlDSN(rest string) string {
	creds, hostPath, ok := strings.Cut(rest, "@")
	if !ok {
		hostPath, creds = rest, ""
	}
	host, path, _ := strings.Cut(hostPath, "/")
	dsn := "tcp(" + host + ")/" + path
	if creds != "" {
		dsn = creds + "@" + dsn
	}
	return dsn
}

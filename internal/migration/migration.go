package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	agentdomain "github.com/smallbiznis/karatledger/internal/agent/domain"
	auditdomain "github.com/smallbiznis/karatledger/internal/audit/domain"
	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	billdomain "github.com/smallbiznis/karatledger/internal/bill/domain"
	customerdomain "github.com/smallbiznis/karatledger/internal/customer/domain"
	itemdomain "github.com/smallbiznis/karatledger/internal/item/domain"
	jobworkerdomain "github.com/smallbiznis/karatledger/internal/jobworker/domain"
	loandomain "github.com/smallbiznis/karatledger/internal/loan/domain"
	orderdomain "github.com/smallbiznis/karatledger/internal/order/domain"
	paymentdomain "github.com/smallbiznis/karatledger/internal/payment/domain"
	ratebookdomain "github.com/smallbiznis/karatledger/internal/ratebook/domain"
	"github.com/smallbiznis/karatledger/internal/sequence"
	stationdomain "github.com/smallbiznis/karatledger/internal/station/domain"
	transactiondomain "github.com/smallbiznis/karatledger/internal/transaction/domain"
	"gorm.io/gorm"
)

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&sequence.Counter{},
		&customerdomain.Customer{},
		&jobworkerdomain.JobWorker{},
		&agentdomain.Agent{},
		&itemdomain.Item{},
		&stationdomain.Station{},
		&ratebookdomain.RateBook{},
		&transactiondomain.Transaction{},
		&loandomain.Loan{},
		&orderdomain.Order{},
		&billdomain.Bill{},
		&paymentdomain.Payment{},
		&authdomain.User{},
		&authdomain.Session{},
		&auditdomain.AuditLog{},
	}
}

// Apply brings the schema up to date. Postgres runs the embedded SQL
// migrations; mysql and sqlite are migrated from the models.
func Apply(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	if conn.Dialector.Name() == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

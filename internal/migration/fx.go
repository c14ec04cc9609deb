package migration

import (
	"context"

	authdomain "github.com/smallbiznis/karatledger/internal/auth/domain"
	"github.com/smallbiznis/karatledger/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, users authdomain.Service, log *zap.Logger) error {
		if err := Apply(conn); err != nil {
			return err
		}
		return EnsureDefaultAdmin(context.Background(), users, cfg, log)
	}),
)

// EnsureDefaultAdmin creates the bootstrap admin account on first start.
func EnsureDefaultAdmin(ctx context.Context, users authdomain.Service, cfg config.Config, log *zap.Logger) error {
	if cfg.DefaultAdminEmail == "" || cfg.DefaultAdminPass == "" {
		return nil
	}
	user, created, err := users.EnsureUser(ctx, authdomain.RegisterRequest{
		Name:     "Administrator",
		Email:    cfg.DefaultAdminEmail,
		Password: cfg.DefaultAdminPass,
		Role:     string(authdomain.RoleAdmin),
	})
	if err != nil {
		return err
	}
	if created {
		log.Info("default admin created", zap.String("email", user.Email))
	}
	return nil
}

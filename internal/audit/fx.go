package audit

import (
	"github.com/smallbiznis/karatledger/internal/audit/mongosink"
	"github.com/smallbiznis/karatledger/internal/audit/repository"
	"github.com/smallbiznis/karatledger/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(mongosink.Provide),
	fx.Provide(service.NewService),
)

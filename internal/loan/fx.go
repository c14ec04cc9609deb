package loan

import (
	"github.com/smallbiznis/karatledger/internal/loan/repository"
	"github.com/smallbiznis/karatledger/internal/loan/service"
	"go.uber.org/fx"
)

var Module = fx.Module("loan.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

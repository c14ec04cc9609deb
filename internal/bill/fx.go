package bill

import (
	"github.com/smallbiznis/karatledger/internal/bill/repository"
	"github.com/smallbiznis/karatledger/internal/bill/service"
	"go.uber.org/fx"
)

var Module = fx.Module("bill.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package station

import (
	"github.com/smallbiznis/karatledger/internal/station/repository"
	"github.com/smallbiznis/karatledger/internal/station/service"
	"go.uber.org/fx"
)

var Module = fx.Module("station.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

package ratebook

import (
	"github.com/smallbiznis/karatledger/internal/ratebook/repository"
	"github.com/smallbiznis/karatledger/internal/ratebook/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ratebook.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

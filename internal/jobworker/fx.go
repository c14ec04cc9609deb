package jobworker

import (
	"github.com/smallbiznis/karatledger/internal/jobworker/repository"
	"github.com/smallbiznis/karatledger/internal/jobworker/service"
	"go.uber.org/fx"
)

var Module = fx.Module("jobworker.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)

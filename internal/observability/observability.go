// Package observability builds the zap logger, the otel tracer provider and
// the request metrics shared by every command.
package observability

import (
	"strings"

	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/smallbiznis/karatledger/internal/observability/logger"
	"github.com/smallbiznis/karatledger/internal/observability/metrics"
	"github.com/smallbiznis/karatledger/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

var Module = fx.Module("observability",
	fx.Provide(
		NewConfig,
		Config.logger,
		logger.New,
		Config.tracing,
		tracing.NewProvider,
		Config.metrics,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)

// Config is the slice of application settings the telemetry stack reads.
type Config struct {
	Service     string
	Environment string
	Version     string
	LogLevel    string
	LogFormat   string

	Export   bool
	Endpoint string
	Protocol string
	Sampling float64
}

func NewConfig(cfg config.Config) Config {
	service := strings.TrimSpace(cfg.AppName)
	if service == "" {
		service = "karatledger"
	}
	return Config{
		Service:     service,
		Environment: strings.TrimSpace(cfg.Environment),
		Version:     strings.TrimSpace(cfg.AppVersion),
		LogLevel:    cfg.LogLevel,
		LogFormat:   cfg.LogFormat,
		Export:      cfg.OTelEnabled,
		Endpoint:    strings.TrimSpace(cfg.OTLPEndpoint),
		Protocol:    cfg.OTLPProtocol,
		Sampling:    cfg.OTelSamplingRatio,
	}
}

// Debug is on for the debug log level and for local environments.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(c.Environment) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) logger() logger.Config {
	return logger.Config{
		ServiceName:         c.Service,
		Environment:         c.Environment,
		Version:             c.Version,
		Level:               c.LogLevel,
		Format:              c.LogFormat,
		Debug:               c.Debug(),
		IncludeCaller:       true,
		IncludeStackOnError: c.Debug(),
	}
}

func (c Config) tracing() tracing.Config {
	return tracing.Config{
		Enabled:          c.Export,
		ServiceName:      c.Service,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.Endpoint,
		ExporterProtocol: c.Protocol,
		SamplingRatio:    c.Sampling,
	}
}

func (c Config) metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.Export,
		ExporterEndpoint: c.Endpoint,
		ExporterProtocol: c.Protocol,
		ServiceName:      c.Service,
		Environment:      c.Environment,
	}
}

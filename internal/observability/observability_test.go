package observability

import (
	"testing"

	"github.com/smallbiznis/karatledger/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(config.Config{
		AppVersion:        " 1.2.0 ",
		Environment:       "production",
		LogLevel:          "warn",
		LogFormat:         "json",
		OTelEnabled:       true,
		OTLPEndpoint:      "collector:4317 ",
		OTLPProtocol:      "grpc",
		OTelSamplingRatio: 0.5,
	})
	assert.Equal(t, "karatledger", cfg.Service)
	assert.Equal(t, "1.2.0", cfg.Version)
	assert.False(t, cfg.Debug())

	tc := cfg.tracing()
	assert.True(t, tc.Enabled)
	assert.Equal(t, "collector:4317", tc.ExporterEndpoint)
	assert.Equal(t, 0.5, tc.SamplingRatio)
	assert.Equal(t, "warn", cfg.logger().Level)
}

func TestDebug(t *testing.T) {
	assert.True(t, Config{Environment: "development"}.Debug())
	assert.True(t, Config{Environment: "production", LogLevel: "debug"}.Debug())
	assert.False(t, Config{Environment: "staging"}.Debug())
}

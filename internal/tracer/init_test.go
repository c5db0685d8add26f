package tracer

import (
	"context"
	"testing"

	"physical-ai-textbook-be/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(config.OtelConfig{Enabled: false}, "1.0.0")
	assert.NoError(t, shutdown(context.Background()))
}

package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dchpef/acta-engine/internal/config"
)

func configDePrueba() config.AuditConfig {
	return config.AuditConfig{
		BufferSize:    16,
		BatchSize:     8,
		FlushInterval: time.Minute,
	}
}

func TestStopDrainsPendingEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewLogger(configDePrueba(), zap.New(core))
	require.NoError(t, l.Start(context.Background()))

	l.Record(AccionGeneracion, "denuncia/1", map[string]string{"orden": "321"})
	l.Record(AccionVerificacion, "hash/A1B2C3A24", nil)

	require.NoError(t, l.Stop(context.Background()))
	assert.Equal(t, 2, logs.FilterMessage("audit").Len(), "buffered events are written before shutdown")
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewLogger(configDePrueba(), zap.NewNop())
	require.NoError(t, l.Start(context.Background()))
	require.NoError(t, l.Stop(context.Background()))
	require.NoError(t, l.Stop(context.Background()))
}

func TestStopGivesUpWhenTheContextExpires(t *testing.T) {
	l := NewLogger(configDePrueba(), zap.NewNop())
	l.running = true
	// a flush loop that never finishes
	l.wg.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

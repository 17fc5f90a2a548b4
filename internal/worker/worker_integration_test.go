//go:build integration

package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/fraydd/cmm-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// Round trip through a real Redis list: Dispatcher LPUSHes the event, the
// worker pool BRPOPs it and posts the ingreso through the service.
func TestColaDePagosRoundTrip(t *testing.T) {
	ctx := context.Background()

	container, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { _ = rdb.Close() })

	svc := &stubCajaService{}
	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	worker.StartWorkerPool(poolCtx, rdb, worker.NewPagoWorker(svc), 2)

	evt := worker.PagoRecibido{
		PagoID:        uuid.New(),
		SucursalID:    uuid.New(),
		Monto:         decimal.RequireFromString("89500.50"),
		RegistradoPor: uuid.New(),
	}
	require.NoError(t, worker.NewDispatcher(rdb).EnqueuePago(ctx, evt))

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return len(svc.ingresos) == 1
	}, 10*time.Second, 50*time.Millisecond)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	assert.Equal(t, evt.PagoID, svc.ingresos[0].PagoID)
	assert.True(t, evt.Monto.Equal(svc.ingresos[0].Monto))
}

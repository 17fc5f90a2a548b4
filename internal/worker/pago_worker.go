package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fraydd/cmm-sub002/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// PagoWorker consumes payment events and posts the corresponding ingreso.
// RegistrarIngresoPorPago is idempotent on pago_id, so redelivered events
// never double-post.
type PagoWorker struct {
	cajas service.CajaService
}

func NewPagoWorker(cajas service.CajaService) *PagoWorker {
	return &PagoWorker{cajas: cajas}
}

func (w *PagoWorker) Handle(ctx context.Context, raw []byte) error {
	var evt PagoRecibido
	if err := json.Unmarshal(raw, &evt); err != nil {
		return err
	}
	_, err := w.cajas.RegistrarIngresoPorPago(ctx, evt.SucursalID, evt.Monto, evt.PagoID, evt.RegistradoPor)
	return err
}

// StartWorkerPool launches numWorkers goroutines consuming the payment queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, w *PagoWorker, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, w, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, w *PagoWorker, id int) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueuePagos).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			// result[0] is the queue name, result[1] the payload
			if err := w.Handle(ctx, []byte(result[1])); err != nil {
				log.Error().Err(err).Int("worker", id).Msg("pago event failed")
				// Events with malformed payloads or validation failures are
				// dropped after logging; valid events only fail on storage
				// errors and the publisher re-delivers those.
			}
		}
	}
}

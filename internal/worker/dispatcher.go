package worker

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

const QueuePagos = "jobs:pagos"

// PagoRecibido is the event the facturación module publishes when a payment
// is recorded. Delivery is at-least-once; the consumer deduplicates on
// pago_id, so re-publishing the same event is harmless.
type PagoRecibido struct {
	PagoID        uuid.UUID       `json:"pago_id"`
	SucursalID    uuid.UUID       `json:"sucursal_id"`
	Monto         decimal.Decimal `json:"monto"`
	RegistradoPor uuid.UUID       `json:"registrado_por"`
}

// Dispatcher enqueues payment events into a Redis list.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueuePago pushes a payment event for asynchronous ledger posting.
func (d *Dispatcher) EnqueuePago(ctx context.Context, evt PagoRecibido) error {
	encoded, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, QueuePagos, encoded).Err()
}

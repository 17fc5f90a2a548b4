package worker_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCajaService records RegistrarIngresoPorPago calls; the rest of the
// interface is unused by the worker.
type stubCajaService struct {
	mu       sync.Mutex
	ingresos []worker.PagoRecibido
	err      error
}

func (s *stubCajaService) RegistrarIngresoPorPago(_ context.Context, sucursalID uuid.UUID, monto decimal.Decimal, pagoID, actorID uuid.UUID) (*dto.MovimientoResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.ingresos = append(s.ingresos, worker.PagoRecibido{
		PagoID:        pagoID,
		SucursalID:    sucursalID,
		Monto:         monto,
		RegistradoPor: actorID,
	})
	return &dto.MovimientoResponse{ID: uuid.NewString()}, nil
}

func (s *stubCajaService) Abrir(context.Context, uuid.UUID, dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	panic("not used")
}
func (s *stubCajaService) Cerrar(context.Context, uuid.UUID, dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	panic("not used")
}
func (s *stubCajaService) GetActiva(context.Context, uuid.UUID, uuid.UUID) (*dto.CajaResponse, error) {
	panic("not used")
}
func (s *stubCajaService) RegistrarEgreso(context.Context, uuid.UUID, dto.EgresoRequest) (*dto.MovimientoResponse, error) {
	panic("not used")
}
func (s *stubCajaService) EditarMovimiento(context.Context, uuid.UUID, dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error) {
	panic("not used")
}

func TestHandlePagoRecibido(t *testing.T) {
	svc := &stubCajaService{}
	w := worker.NewPagoWorker(svc)

	evt := worker.PagoRecibido{
		PagoID:        uuid.New(),
		SucursalID:    uuid.New(),
		Monto:         decimal.RequireFromString("150000.00"),
		RegistradoPor: uuid.New(),
	}
	raw, err := json.Marshal(evt)
	require.NoError(t, err)

	require.NoError(t, w.Handle(context.Background(), raw))
	require.Len(t, svc.ingresos, 1)
	assert.Equal(t, evt.PagoID, svc.ingresos[0].PagoID)
	assert.Equal(t, evt.SucursalID, svc.ingresos[0].SucursalID)
	assert.True(t, evt.Monto.Equal(svc.ingresos[0].Monto))
	assert.Equal(t, evt.RegistradoPor, svc.ingresos[0].RegistradoPor)
}

func TestHandlePayloadInvalido(t *testing.T) {
	svc := &stubCajaService{}
	w := worker.NewPagoWorker(svc)

	err := w.Handle(context.Background(), []byte("{esto no es json"))
	assert.Error(t, err)
	assert.Empty(t, svc.ingresos)
}

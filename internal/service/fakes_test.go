package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/model"
	"github.com/fraydd/cmm-sub002/internal/repository"
	"github.com/fraydd/cmm-sub002/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Full in-memory CajaRepository ────────────────────────────────────────────
// Mirrors the storage-level guarantees: uniqueness of the open caja per
// sucursal (the partial index) and the guarded close UPDATE.

type fakeCajaRepo struct {
	mu    sync.Mutex
	cajas map[uuid.UUID]*model.Caja
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (r *fakeCajaRepo) CreateAbierta(_ context.Context, c *model.Caja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.cajas {
		if existing.SucursalID == c.SucursalID && existing.Estado == model.CajaAbierta {
			return apierror.ErrCajaYaAbierta
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Estado = model.CajaAbierta
	if c.OpenedAt.IsZero() {
		c.OpenedAt = time.Now().UTC()
	}
	cp := *c
	r.cajas[c.ID] = &cp
	return nil
}

func (r *fakeCajaRepo) FindAbierta(_ context.Context, sucursalID uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cajas {
		if c.SucursalID == sucursalID && c.Estado == model.CajaAbierta {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, apierror.ErrNoEncontrado
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCajaRepo) Cerrar(_ context.Context, id uuid.UUID, montoFinal decimal.Decimal, cerradaPor uuid.UUID, observaciones *string, closedAt time.Time) (*model.Caja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cajas[id]
	if !ok {
		return nil, apierror.ErrNoEncontrado
	}
	if c.Estado != model.CajaAbierta {
		return nil, apierror.ErrCajaYaCerrada
	}
	c.Estado = model.CajaCerrada
	c.MontoFinal = &montoFinal
	c.CerradaPor = &cerradaPor
	t := closedAt.UTC()
	c.ClosedAt = &t
	if observaciones != nil {
		c.Observaciones = observaciones
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCajaRepo) List(_ context.Context, f repository.CajaFilter) ([]model.Caja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idSet := make(map[uuid.UUID]bool, len(f.SucursalIDs))
	for _, id := range f.SucursalIDs {
		idSet[id] = true
	}
	var all []model.Caja
	for _, c := range r.cajas {
		if idSet[c.SucursalID] && !c.OpenedAt.Before(f.Desde) && c.OpenedAt.Before(f.Hasta) {
			all = append(all, *c)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if f.Descending {
			a, b = b, a
		}
		if !a.OpenedAt.Equal(b.OpenedAt) {
			return a.OpenedAt.Before(b.OpenedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

var _ repository.CajaRepository = (*fakeCajaRepo)(nil)

// ── Full in-memory MovimientoRepository ──────────────────────────────────────

type fakeMovimientoRepo struct {
	mu   sync.Mutex
	movs []model.MovimientoCaja
}

func newFakeMovimientoRepo() *fakeMovimientoRepo { return &fakeMovimientoRepo{} }

func (r *fakeMovimientoRepo) Create(_ context.Context, m *model.MovimientoCaja) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return nil
}

func (r *fakeMovimientoRepo) CreateIdempotente(_ context.Context, m *model.MovimientoCaja) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.movs {
		if existing.PagoID != nil && m.PagoID != nil && *existing.PagoID == *m.PagoID {
			return false, nil
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movs = append(r.movs, *m)
	return true, nil
}

func (r *fakeMovimientoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.ID == id {
			cp := m
			return &cp, nil
		}
	}
	return nil, apierror.ErrNoEncontrado
}

func (r *fakeMovimientoRepo) FindByPagoID(_ context.Context, pagoID uuid.UUID) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.movs {
		if m.PagoID != nil && *m.PagoID == pagoID {
			cp := m
			return &cp, nil
		}
	}
	return nil, apierror.ErrNoEncontrado
}

func (r *fakeMovimientoRepo) Replace(_ context.Context, id uuid.UUID, monto decimal.Decimal, observaciones string, fecha time.Time) (*model.MovimientoCaja, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.movs {
		if r.movs[i].ID == id {
			if r.movs[i].Inmutable() {
				return nil, apierror.ErrRegistroInmutable
			}
			r.movs[i].Monto = monto
			r.movs[i].Observaciones = &observaciones
			r.movs[i].FechaMovimiento = fecha.UTC()
			cp := r.movs[i]
			return &cp, nil
		}
	}
	return nil, apierror.ErrNoEncontrado
}

func (r *fakeMovimientoRepo) List(_ context.Context, f repository.MovimientoFilter) ([]model.MovimientoCaja, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idSet := make(map[uuid.UUID]bool, len(f.SucursalIDs))
	for _, id := range f.SucursalIDs {
		idSet[id] = true
	}
	var all []model.MovimientoCaja
	for _, m := range r.movs {
		if idSet[m.SucursalID] && !m.FechaMovimiento.Before(f.Desde) && m.FechaMovimiento.Before(f.Hasta) {
			all = append(all, m)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if f.Descending {
			a, b = b, a
		}
		switch f.OrdenarPor {
		case "monto":
			if !a.Monto.Equal(b.Monto) {
				return a.Monto.LessThan(b.Monto)
			}
		default:
			if !a.FechaMovimiento.Equal(b.FechaMovimiento) {
				return a.FechaMovimiento.Before(b.FechaMovimiento)
			}
		}
		return a.ID.String() < b.ID.String()
	})
	total := int64(len(all))
	start := (f.Page - 1) * f.Limit
	if start >= len(all) {
		return nil, total, nil
	}
	end := start + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *fakeMovimientoRepo) SumPorTipo(_ context.Context, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (map[model.TipoMovimiento]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sums := map[model.TipoMovimiento]decimal.Decimal{
		model.MovimientoIngreso: decimal.Zero,
		model.MovimientoEgreso:  decimal.Zero,
	}
	for _, m := range r.movs {
		if m.SucursalID != sucursalID || m.FechaMovimiento.Before(desde) {
			continue
		}
		if hasta != nil && !m.FechaMovimiento.Before(*hasta) {
			continue
		}
		sums[m.Tipo] = sums[m.Tipo].Add(m.Monto)
	}
	return sums, nil
}

var _ repository.MovimientoRepository = (*fakeMovimientoRepo)(nil)

// ── Acceso fakes ─────────────────────────────────────────────────────────────

type allowAllAcceso struct{}

func (allowAllAcceso) Verificar(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (allowAllAcceso) VerificarTodas(context.Context, uuid.UUID, []uuid.UUID) error {
	return nil
}

type denyAcceso struct{}

func (denyAcceso) Verificar(context.Context, uuid.UUID, uuid.UUID) error {
	return apierror.ErrAccesoSucursal
}
func (denyAcceso) VerificarTodas(context.Context, uuid.UUID, []uuid.UUID) error {
	return apierror.ErrAccesoSucursal
}

var (
	_ service.AccesoSucursal = allowAllAcceso{}
	_ service.AccesoSucursal = denyAcceso{}
)

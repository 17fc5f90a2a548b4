package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/model"
	"github.com/fraydd/cmm-sub002/internal/repository"

	"github.com/google/uuid"
)

// listadoResuelto carries the validated, resolved listing parameters.
type listadoResuelto struct {
	sucursales []uuid.UUID
	desde      time.Time
	hasta      time.Time
	loc        *time.Location
	orden      string
	page       int
	limit      int
}

// ReporteService is the read side: filtered, sorted, paginated projections of
// cajas and movimientos, plus the derived arqueo of a single cycle. It never
// mutates either store.
type ReporteService interface {
	ListarCajas(ctx context.Context, actorID uuid.UUID, req dto.ListarRequest) (*dto.CajaListResponse, error)
	ListarMovimientos(ctx context.Context, actorID uuid.UUID, req dto.ListarRequest) (*dto.MovimientoListResponse, error)
	// Arqueo computes esperado = monto_inicial + Σ ingresos − Σ egresos over
	// the cycle's window and, for closed cajas, desvio = monto_final −
	// esperado. Computed on demand, never auto-corrected, never blocking.
	Arqueo(ctx context.Context, actorID, cajaID uuid.UUID) (*dto.ArqueoResponse, error)
}

type reporteService struct {
	cajas       repository.CajaRepository
	movimientos repository.MovimientoRepository
	acceso      AccesoSucursal
}

func NewReporteService(cajas repository.CajaRepository, movimientos repository.MovimientoRepository, acceso AccesoSucursal) ReporteService {
	return &reporteService{cajas: cajas, movimientos: movimientos, acceso: acceso}
}

// Sort key whitelists per view. The id tiebreaker appended by the
// repositories keeps pagination deterministic across requests.
var (
	ordenCajas       = map[string]bool{"opened_at": true, "closed_at": true, "monto_inicial": true}
	ordenMovimientos = map[string]bool{"fecha_movimiento": true, "monto": true, "tipo": true}
)

// resolverFiltro validates the shared listing parameters and resolves the
// display zone, sucursal set and UTC window.
func (s *reporteService) resolverFiltro(ctx context.Context, actorID uuid.UUID, req dto.ListarRequest, orden map[string]bool) (listadoResuelto, error) {
	var r listadoResuelto

	if len(req.SucursalIDs) == 0 {
		return r, fmt.Errorf("%w: sucursal_ids es obligatorio y no puede estar vacío", apierror.ErrValidacion)
	}
	for _, raw := range req.SucursalIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return r, fmt.Errorf("%w: sucursal_id inválido %q", apierror.ErrValidacion, raw)
		}
		r.sucursales = append(r.sucursales, id)
	}
	if err := s.acceso.VerificarTodas(ctx, actorID, r.sucursales); err != nil {
		return r, err
	}

	loc, err := cargarZona(req.TimeZone)
	if err != nil {
		return r, err
	}
	r.loc = loc

	r.desde, r.hasta, err = ventanaUTC(req.FechaDesde, req.FechaHasta, loc)
	if err != nil {
		return r, err
	}

	if req.OrdenarPor != "" && !orden[req.OrdenarPor] {
		return r, fmt.Errorf("%w: ordenar_por no admite %q", apierror.ErrValidacion, req.OrdenarPor)
	}
	r.orden = req.OrdenarPor

	r.page, r.limit = req.Page, req.Limit
	if r.page < 1 {
		r.page = 1
	}
	if r.limit < 1 || r.limit > 100 {
		r.limit = 20
	}
	return r, nil
}

func (s *reporteService) ListarCajas(ctx context.Context, actorID uuid.UUID, req dto.ListarRequest) (*dto.CajaListResponse, error) {
	f, err := s.resolverFiltro(ctx, actorID, req, ordenCajas)
	if err != nil {
		return nil, err
	}

	cajas, total, err := s.cajas.List(ctx, repository.CajaFilter{
		SucursalIDs: f.sucursales,
		Desde:       f.desde,
		Hasta:       f.hasta,
		OrdenarPor:  f.orden,
		Descending:  req.Descending,
		Page:        f.page,
		Limit:       f.limit,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.CajaListResponse{Total: total, Page: f.page, Limit: f.limit}
	for i := range cajas {
		resp.Items = append(resp.Items, *cajaToResponse(&cajas[i], f.loc))
	}
	return resp, nil
}

func (s *reporteService) ListarMovimientos(ctx context.Context, actorID uuid.UUID, req dto.ListarRequest) (*dto.MovimientoListResponse, error) {
	f, err := s.resolverFiltro(ctx, actorID, req, ordenMovimientos)
	if err != nil {
		return nil, err
	}

	movs, total, err := s.movimientos.List(ctx, repository.MovimientoFilter{
		SucursalIDs: f.sucursales,
		Desde:       f.desde,
		Hasta:       f.hasta,
		OrdenarPor:  f.orden,
		Descending:  req.Descending,
		Page:        f.page,
		Limit:       f.limit,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.MovimientoListResponse{Total: total, Page: f.page, Limit: f.limit}
	for i := range movs {
		resp.Items = append(resp.Items, *movimientoToResponse(&movs[i], f.loc))
	}
	return resp, nil
}

func (s *reporteService) Arqueo(ctx context.Context, actorID, cajaID uuid.UUID) (*dto.ArqueoResponse, error) {
	caja, err := s.cajas.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	if err := s.acceso.Verificar(ctx, actorID, caja.SucursalID); err != nil {
		return nil, err
	}

	sums, err := s.movimientos.SumPorTipo(ctx, caja.SucursalID, caja.OpenedAt, caja.ClosedAt)
	if err != nil {
		return nil, err
	}

	ingresos := sums[model.MovimientoIngreso]
	egresos := sums[model.MovimientoEgreso]
	esperado := caja.MontoInicial.Add(ingresos).Sub(egresos)

	resp := &dto.ArqueoResponse{
		CajaID:        caja.ID.String(),
		Estado:        string(caja.Estado),
		MontoInicial:  caja.MontoInicial,
		TotalIngresos: ingresos,
		TotalEgresos:  egresos,
		MontoEsperado: esperado,
		MontoFinal:    caja.MontoFinal,
	}
	if caja.MontoFinal != nil {
		// A nonzero desvio is surfaced, never treated as an error.
		desvio := caja.MontoFinal.Sub(esperado)
		resp.Desvio = &desvio
	}
	return resp, nil
}

package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/model"
	"github.com/fraydd/cmm-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CajaService interface {
	Abrir(ctx context.Context, actorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, actorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error)
	// GetActiva returns (nil, nil) when no cash point is open for the
	// sucursal — a legitimate state the front end renders as "sin caja".
	GetActiva(ctx context.Context, actorID, sucursalID uuid.UUID) (*dto.CajaResponse, error)
	RegistrarEgreso(ctx context.Context, actorID uuid.UUID, req dto.EgresoRequest) (*dto.MovimientoResponse, error)
	// RegistrarIngresoPorPago is invoked by the invoicing collaborator when a
	// payment is recorded; it is idempotent on pagoID and safe to retry.
	RegistrarIngresoPorPago(ctx context.Context, sucursalID uuid.UUID, monto decimal.Decimal, pagoID, actorID uuid.UUID) (*dto.MovimientoResponse, error)
	EditarMovimiento(ctx context.Context, actorID uuid.UUID, req dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error)
}

type cajaService struct {
	cajas       repository.CajaRepository
	movimientos repository.MovimientoRepository
	acceso      AccesoSucursal
}

func NewCajaService(cajas repository.CajaRepository, movimientos repository.MovimientoRepository, acceso AccesoSucursal) CajaService {
	return &cajaService{cajas: cajas, movimientos: movimientos, acceso: acceso}
}

// beneficiarioPattern: numeric document, at least 6 digits.
var beneficiarioPattern = regexp.MustCompile(`^[0-9]{6,}$`)

// montoDosDecimales rejects amounts with more than 2 fractional digits so
// every stored figure is an exact fixed-point value.
func montoDosDecimales(m decimal.Decimal) bool {
	return m.Equal(m.Round(2))
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, actorID uuid.UUID, req dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("%w: sucursal_id inválido", apierror.ErrValidacion)
	}
	if err := s.acceso.Verificar(ctx, actorID, sucursalID); err != nil {
		return nil, err
	}
	if req.MontoInicial.IsNegative() {
		return nil, fmt.Errorf("%w: monto_inicial no puede ser negativo", apierror.ErrValidacion)
	}
	if !montoDosDecimales(req.MontoInicial) {
		return nil, fmt.Errorf("%w: monto_inicial admite máximo 2 decimales", apierror.ErrValidacion)
	}

	caja := &model.Caja{
		SucursalID:    sucursalID,
		MontoInicial:  req.MontoInicial,
		AbiertaPor:    actorID,
		Observaciones: req.Observaciones,
		OpenedAt:      time.Now().UTC(),
	}
	// No prior "is one open?" read: two concurrent openings race at the
	// partial unique index and exactly one wins.
	if err := s.cajas.CreateAbierta(ctx, caja); err != nil {
		return nil, err
	}

	log.Info().
		Str("caja_id", caja.ID.String()).
		Str("sucursal_id", sucursalID.String()).
		Str("monto_inicial", req.MontoInicial.String()).
		Msg("caja abierta")

	return cajaToResponse(caja, time.UTC), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// The declared monto_final is recorded verbatim. It is NOT cross-checked
// against the sum of movements: cash counts legitimately differ and the
// discrepancy belongs to the arqueo report, not to a write precondition.

func (s *cajaService) Cerrar(ctx context.Context, actorID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id inválido", apierror.ErrValidacion)
	}
	if req.MontoFinal.IsNegative() {
		return nil, fmt.Errorf("%w: monto_final no puede ser negativo", apierror.ErrValidacion)
	}
	if !montoDosDecimales(req.MontoFinal) {
		return nil, fmt.Errorf("%w: monto_final admite máximo 2 decimales", apierror.ErrValidacion)
	}
	closedAt, err := parseFechaOpcional(req.FechaCierre)
	if err != nil {
		return nil, err
	}

	caja, err := s.cajas.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.acceso.Verificar(ctx, actorID, caja.SucursalID); err != nil {
		return nil, err
	}

	cerrada, err := s.cajas.Cerrar(ctx, id, req.MontoFinal, actorID, req.Observaciones, closedAt)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("caja_id", id.String()).
		Str("monto_final", req.MontoFinal.String()).
		Msg("caja cerrada")

	return cajaToResponse(cerrada, time.UTC), nil
}

// ── GetActiva ─────────────────────────────────────────────────────────────────

func (s *cajaService) GetActiva(ctx context.Context, actorID, sucursalID uuid.UUID) (*dto.CajaResponse, error) {
	if err := s.acceso.Verificar(ctx, actorID, sucursalID); err != nil {
		return nil, err
	}
	caja, err := s.cajas.FindAbierta(ctx, sucursalID)
	if err != nil {
		return nil, err
	}
	if caja == nil {
		return nil, nil
	}
	return cajaToResponse(caja, time.UTC), nil
}

// ── RegistrarEgreso ───────────────────────────────────────────────────────────
// Outflows are discretionary cash leaving the business: they demand an
// auditable numeric beneficiary and a justification. Inflows from sales are
// already justified by the originating payment and skip these checks.

func (s *cajaService) RegistrarEgreso(ctx context.Context, actorID uuid.UUID, req dto.EgresoRequest) (*dto.MovimientoResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, fmt.Errorf("%w: sucursal_id inválido", apierror.ErrValidacion)
	}
	if err := s.acceso.Verificar(ctx, actorID, sucursalID); err != nil {
		return nil, err
	}
	if !req.Monto.IsPositive() {
		return nil, fmt.Errorf("%w: monto debe ser mayor a 0", apierror.ErrValidacion)
	}
	if !montoDosDecimales(req.Monto) {
		return nil, fmt.Errorf("%w: monto admite máximo 2 decimales", apierror.ErrValidacion)
	}
	if !beneficiarioPattern.MatchString(req.BeneficiarioIdentificacion) {
		return nil, fmt.Errorf("%w: beneficiario_identificacion debe ser numérica de al menos 6 dígitos", apierror.ErrValidacion)
	}
	if req.Observaciones == "" {
		return nil, fmt.Errorf("%w: observaciones es obligatoria para egresos", apierror.ErrValidacion)
	}
	fecha, err := parseFechaOpcional(req.FechaMovimiento)
	if err != nil {
		return nil, err
	}

	obs := req.Observaciones
	beneficiario := req.BeneficiarioIdentificacion
	mov := &model.MovimientoCaja{
		SucursalID:                 sucursalID,
		Tipo:                       model.MovimientoEgreso,
		Monto:                      req.Monto,
		FechaMovimiento:            fecha,
		Observaciones:              &obs,
		BeneficiarioIdentificacion: &beneficiario,
		CreadoPor:                  actorID,
	}
	if err := s.movimientos.Create(ctx, mov); err != nil {
		return nil, err
	}

	log.Info().
		Str("movimiento_id", mov.ID.String()).
		Str("sucursal_id", sucursalID.String()).
		Str("monto", req.Monto.String()).
		Msg("egreso registrado")

	return movimientoToResponse(mov, time.UTC), nil
}

// ── RegistrarIngresoPorPago ───────────────────────────────────────────────────

func (s *cajaService) RegistrarIngresoPorPago(ctx context.Context, sucursalID uuid.UUID, monto decimal.Decimal, pagoID, actorID uuid.UUID) (*dto.MovimientoResponse, error) {
	if !monto.IsPositive() {
		return nil, fmt.Errorf("%w: monto debe ser mayor a 0", apierror.ErrValidacion)
	}
	if !montoDosDecimales(monto) {
		return nil, fmt.Errorf("%w: monto admite máximo 2 decimales", apierror.ErrValidacion)
	}

	pid := pagoID
	mov := &model.MovimientoCaja{
		SucursalID:      sucursalID,
		Tipo:            model.MovimientoIngreso,
		Monto:           monto,
		FechaMovimiento: time.Now().UTC(),
		PagoID:          &pid,
		CreadoPor:       actorID,
	}
	inserted, err := s.movimientos.CreateIdempotente(ctx, mov)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Duplicate delivery of the same payment event: return the row that
		// was posted the first time, without creating another one.
		existente, err := s.movimientos.FindByPagoID(ctx, pagoID)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Str("pago_id", pagoID.String()).
			Str("movimiento_id", existente.ID.String()).
			Msg("ingreso por pago ya registrado, entrega duplicada ignorada")
		return movimientoToResponse(existente, time.UTC), nil
	}

	log.Info().
		Str("movimiento_id", mov.ID.String()).
		Str("pago_id", pagoID.String()).
		Str("monto", monto.String()).
		Msg("ingreso por pago registrado")

	return movimientoToResponse(mov, time.UTC), nil
}

// ── EditarMovimiento ──────────────────────────────────────────────────────────

func (s *cajaService) EditarMovimiento(ctx context.Context, actorID uuid.UUID, req dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error) {
	id, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: id inválido", apierror.ErrValidacion)
	}
	if !req.Monto.IsPositive() {
		return nil, fmt.Errorf("%w: monto debe ser mayor a 0", apierror.ErrValidacion)
	}
	if !montoDosDecimales(req.Monto) {
		return nil, fmt.Errorf("%w: monto admite máximo 2 decimales", apierror.ErrValidacion)
	}

	actual, err := s.movimientos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.acceso.Verificar(ctx, actorID, actual.SucursalID); err != nil {
		return nil, err
	}

	fecha := actual.FechaMovimiento
	if req.FechaMovimiento != "" {
		if fecha, err = parseFechaOpcional(req.FechaMovimiento); err != nil {
			return nil, err
		}
	}

	editado, err := s.movimientos.Replace(ctx, id, req.Monto, req.Observaciones, fecha)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("movimiento_id", id.String()).
		Str("monto", req.Monto.String()).
		Msg("movimiento editado")

	return movimientoToResponse(editado, time.UTC), nil
}

// ── Mapping helpers ───────────────────────────────────────────────────────────

func cajaToResponse(c *model.Caja, loc *time.Location) *dto.CajaResponse {
	resp := &dto.CajaResponse{
		ID:            c.ID.String(),
		SucursalID:    c.SucursalID.String(),
		Estado:        string(c.Estado),
		MontoInicial:  c.MontoInicial,
		MontoFinal:    c.MontoFinal,
		AbiertaPor:    c.AbiertaPor.String(),
		Observaciones: c.Observaciones,
		OpenedAt:      formatearEn(c.OpenedAt, loc),
	}
	if c.CerradaPor != nil {
		cerradaPor := c.CerradaPor.String()
		resp.CerradaPor = &cerradaPor
	}
	if c.ClosedAt != nil {
		closed := formatearEn(*c.ClosedAt, loc)
		resp.ClosedAt = &closed
	}
	return resp
}

func movimientoToResponse(m *model.MovimientoCaja, loc *time.Location) *dto.MovimientoResponse {
	resp := &dto.MovimientoResponse{
		ID:                         m.ID.String(),
		SucursalID:                 m.SucursalID.String(),
		Tipo:                       string(m.Tipo),
		Monto:                      m.Monto,
		FechaMovimiento:            formatearEn(m.FechaMovimiento, loc),
		Observaciones:              m.Observaciones,
		BeneficiarioIdentificacion: m.BeneficiarioIdentificacion,
		CreadoPor:                  m.CreadoPor.String(),
	}
	if m.PagoID != nil {
		pago := m.PagoID.String()
		resp.PagoID = &pago
	}
	return resp
}

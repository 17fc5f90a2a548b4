package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// EgresoRequest registers a manual cash outflow. Outflows are the only
// movements an end user creates directly, so they carry the strictest
// validation: an auditable numeric beneficiary and a justification.
type EgresoRequest struct {
	SucursalID                 string          `json:"sucursal_id"                 validate:"required,uuid"`
	Monto                      decimal.Decimal `json:"monto"                       validate:"required"`
	BeneficiarioIdentificacion string          `json:"beneficiario_identificacion" validate:"required,numeric,min=6"`
	Observaciones              string          `json:"observaciones"               validate:"required,min=3"`
	// FechaMovimiento (RFC 3339, with offset) defaults to submission time.
	FechaMovimiento string `json:"fecha_movimiento" validate:"omitempty"`
}

// EditarMovimientoRequest replaces the editable fields of a manually entered
// movement. Tipo, sucursal and pago linkage are never editable.
type EditarMovimientoRequest struct {
	ID              string          `json:"id"               validate:"required,uuid"`
	Monto           decimal.Decimal `json:"monto"            validate:"required"`
	Observaciones   string          `json:"observaciones"    validate:"required,min=3"`
	FechaMovimiento string          `json:"fecha_movimiento" validate:"omitempty"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID                         string          `json:"id"`
	SucursalID                 string          `json:"sucursal_id"`
	Tipo                       string          `json:"tipo"`
	Monto                      decimal.Decimal `json:"monto"`
	FechaMovimiento            string          `json:"fecha_movimiento"`
	Observaciones              *string         `json:"observaciones"`
	BeneficiarioIdentificacion *string         `json:"beneficiario_identificacion"`
	PagoID                     *string         `json:"pago_id"`
	CreadoPor                  string          `json:"creado_por"`
}

type MovimientoListResponse struct {
	Items []MovimientoResponse `json:"items"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

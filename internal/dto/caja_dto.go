package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	SucursalID    string          `json:"sucursal_id"   validate:"required,uuid"`
	MontoInicial  decimal.Decimal `json:"monto_inicial" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
}

type CerrarCajaRequest struct {
	ID            string          `json:"id"          validate:"required,uuid"`
	MontoFinal    decimal.Decimal `json:"monto_final" validate:"min=0"`
	Observaciones *string         `json:"observaciones"`
	// FechaCierre overrides the closing timestamp (RFC 3339, with offset).
	// Empty means "now".
	FechaCierre string `json:"fecha_cierre" validate:"omitempty"`
}

// ListarRequest is shared by caja and movimiento listings. Date filters are
// interpreted in TimeZone (IANA name, default UTC); an unbounded query across
// all sucursales or all time is deliberately disallowed.
type ListarRequest struct {
	SucursalIDs []string `json:"sucursal_ids" validate:"required,min=1,dive,uuid"`
	FechaDesde  string   `json:"fecha_desde"  validate:"required,datetime=2006-01-02"`
	FechaHasta  string   `json:"fecha_hasta"  validate:"required,datetime=2006-01-02"`
	TimeZone    string   `json:"time_zone"    validate:"omitempty"`
	// OrdenarPor accepts a per-view whitelist of sort keys; id is always the
	// tiebreaker so pagination stays deterministic across requests.
	OrdenarPor string `json:"ordenar_por" validate:"omitempty"`
	Descending bool   `json:"descending"`
	Page       int    `json:"page"  validate:"omitempty,min=1"`
	Limit      int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CajaResponse struct {
	ID            string           `json:"id"`
	SucursalID    string           `json:"sucursal_id"`
	Estado        string           `json:"estado"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	MontoFinal    *decimal.Decimal `json:"monto_final"`
	AbiertaPor    string           `json:"abierta_por"`
	CerradaPor    *string          `json:"cerrada_por"`
	Observaciones *string          `json:"observaciones"`
	OpenedAt      string           `json:"opened_at"`
	ClosedAt      *string          `json:"closed_at"`
}

// ArqueoResponse is the derived reconciliation of one caja cycle. Desvio is
// nil while the caja is open (there is no declared final amount yet).
type ArqueoResponse struct {
	CajaID        string           `json:"caja_id"`
	Estado        string           `json:"estado"`
	MontoInicial  decimal.Decimal  `json:"monto_inicial"`
	TotalIngresos decimal.Decimal  `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal  `json:"total_egresos"`
	MontoEsperado decimal.Decimal  `json:"monto_esperado"`
	MontoFinal    *decimal.Decimal `json:"monto_final"`
	Desvio        *decimal.Decimal `json:"desvio"`
}

type CajaListResponse struct {
	Items []CajaResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}

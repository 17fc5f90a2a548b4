package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TipoMovimiento is the closed set of movement kinds.
type TipoMovimiento string

const (
	MovimientoIngreso TipoMovimiento = "ingreso"
	MovimientoEgreso  TipoMovimiento = "egreso"
)

// MovimientoCaja is a single cash inflow or outflow attributed to a sucursal.
// The ledger is append-mostly: payment-linked ingresos (PagoID != nil) are
// immutable, manually entered movements may have monto, observaciones and
// fecha_movimiento replaced as a whole row under a row lock.
//
// FechaMovimiento is always stored in UTC; read paths convert to the
// caller-declared display zone.
type MovimientoCaja struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SucursalID uuid.UUID      `gorm:"type:uuid;not null;index" json:"sucursal_id"`
	Tipo       TipoMovimiento `gorm:"type:varchar(20);not null" json:"tipo"`

	Monto           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto"`
	FechaMovimiento time.Time       `gorm:"not null;index" json:"fecha_movimiento"`

	// Observaciones is mandatory for egresos (audit justification), optional
	// for ingresos.
	Observaciones *string `json:"observaciones"`

	// BeneficiarioIdentificacion is the numeric document of whoever received
	// the cash; required for egresos only.
	BeneficiarioIdentificacion *string `gorm:"type:varchar(30)" json:"beneficiario_identificacion"`

	// PagoID links a sale-generated ingreso to the originating payment. The
	// partial unique index uni_movimientos_pago makes posting by pago_id
	// idempotent.
	PagoID *uuid.UUID `gorm:"type:uuid" json:"pago_id"`

	CreadoPor uuid.UUID `gorm:"type:uuid;not null" json:"creado_por"`
	CreatedAt time.Time `json:"created_at"`
}

func (MovimientoCaja) TableName() string { return "movimientos_caja" }

// Inmutable reports whether the movement may never be edited.
func (m *MovimientoCaja) Inmutable() bool {
	return m.Tipo == MovimientoIngreso && m.PagoID != nil
}

// MontoConSigno returns the movement amount signed by its direction:
// positive for ingresos, negative for egresos.
func (m *MovimientoCaja) MontoConSigno() decimal.Decimal {
	if m.Tipo == MovimientoEgreso {
		return m.Monto.Neg()
	}
	return m.Monto
}

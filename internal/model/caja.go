package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoCaja is the closed set of lifecycle states of a cash register cycle.
// A caja is strictly abierta → cerrada; there is no reopening.
type EstadoCaja string

const (
	CajaAbierta EstadoCaja = "abierta"
	CajaCerrada EstadoCaja = "cerrada"
)

// Caja represents one open-to-close cycle of a physical cash point at a
// sucursal. The partial unique index uni_cajas_sucursal_abierta (see
// infra/database.go) guarantees at most one open row per sucursal, so two
// concurrent openings race at the database, not in application code.
type Caja struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SucursalID uuid.UUID  `gorm:"type:uuid;not null;index" json:"sucursal_id"`
	Estado     EstadoCaja `gorm:"type:varchar(20);not null;default:'abierta'" json:"estado"`

	// MontoInicial is fixed at apertura and never changes afterwards.
	MontoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"monto_inicial"`
	// MontoFinal is the counted amount declared at cierre; nil while open.
	// It is recorded verbatim — discrepancies against the computed expected
	// amount are surfaced by the arqueo report, never enforced here.
	MontoFinal *decimal.Decimal `gorm:"type:decimal(12,2)" json:"monto_final"`

	AbiertaPor uuid.UUID  `gorm:"type:uuid;not null" json:"abierta_por"`
	CerradaPor *uuid.UUID `gorm:"type:uuid" json:"cerrada_por"`

	Observaciones *string `json:"observaciones"`

	OpenedAt time.Time  `gorm:"not null;index" json:"opened_at"`
	ClosedAt *time.Time `gorm:"index" json:"closed_at"`
}

func (Caja) TableName() string { return "cajas" }

// Abierta reports whether the cycle is still open.
func (c *Caja) Abierta() bool { return c.Estado == CajaAbierta }

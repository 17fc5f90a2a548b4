package model

import (
	"time"

	"github.com/google/uuid"
)

// Sucursal is a branch of the agency. The ledger only reads these rows;
// branch administration lives elsewhere.
type Sucursal struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Nombre    string    `gorm:"type:varchar(120);not null" json:"nombre"`
	Activa    bool      `gorm:"not null;default:true" json:"activa"`
	CreatedAt time.Time `json:"created_at"`
}

func (Sucursal) TableName() string { return "sucursales" }

// SucursalAcceso grants one usuario operating rights on one sucursal.
// Maintained by the permissions module; the ledger only consults it.
type SucursalAcceso struct {
	SucursalID uuid.UUID `gorm:"type:uuid;primaryKey" json:"sucursal_id"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"usuario_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SucursalAcceso) TableName() string { return "sucursal_accesos" }

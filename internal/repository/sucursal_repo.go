package repository

import (
	"context"

	"github.com/fraydd/cmm-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SucursalRepository is the ledger's read-only view of the branch directory.
// Branch administration (creation, deactivation, grants) lives elsewhere.
type SucursalRepository interface {
	ListActivas(ctx context.Context) ([]model.Sucursal, error)
	// AccesiblesPara returns the active sucursales the usuario may operate on.
	AccesiblesPara(ctx context.Context, usuarioID uuid.UUID) ([]model.Sucursal, error)
}

type sucursalRepo struct{ db *gorm.DB }

func NewSucursalRepository(db *gorm.DB) SucursalRepository { return &sucursalRepo{db: db} }

func (r *sucursalRepo) ListActivas(ctx context.Context) ([]model.Sucursal, error) {
	var out []model.Sucursal
	err := r.db.WithContext(ctx).
		Where("activa = ?", true).
		Order("nombre ASC").
		Find(&out).Error
	return out, err
}

func (r *sucursalRepo) AccesiblesPara(ctx context.Context, usuarioID uuid.UUID) ([]model.Sucursal, error) {
	var out []model.Sucursal
	err := r.db.WithContext(ctx).
		Joins("JOIN sucursal_accesos sa ON sa.sucursal_id = sucursales.id").
		Where("sa.usuario_id = ? AND sucursales.activa = ?", usuarioID, true).
		Order("sucursales.nombre ASC").
		Find(&out).Error
	return out, err
}

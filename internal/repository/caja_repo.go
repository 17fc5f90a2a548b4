package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CajaFilter bounds every listing query: an unfiltered scan across all
// sucursales or all time is not expressible. Desde/Hasta are a half-open
// UTC window [Desde, Hasta).
type CajaFilter struct {
	SucursalIDs []uuid.UUID
	Desde       time.Time
	Hasta       time.Time
	OrdenarPor  string // opened_at | closed_at | monto_inicial (validated upstream)
	Descending  bool
	Page        int
	Limit       int
}

type CajaRepository interface {
	// CreateAbierta inserts a new open cycle. The partial unique index on
	// (sucursal_id) WHERE estado = 'abierta' makes two concurrent openings
	// race at the database; the loser gets apierror.ErrCajaYaAbierta.
	CreateAbierta(ctx context.Context, c *model.Caja) error
	// FindAbierta returns the open caja for the sucursal, or (nil, nil) when
	// no cash point is currently open — a legitimate state, not an error.
	FindAbierta(ctx context.Context, sucursalID uuid.UUID) (*model.Caja, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	// Cerrar transitions abierta → cerrada in a single guarded UPDATE.
	Cerrar(ctx context.Context, id uuid.UUID, montoFinal decimal.Decimal, cerradaPor uuid.UUID, observaciones *string, closedAt time.Time) (*model.Caja, error)
	List(ctx context.Context, f CajaFilter) ([]model.Caja, int64, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) CreateAbierta(ctx context.Context, c *model.Caja) error {
	c.Estado = model.CajaAbierta
	if c.OpenedAt.IsZero() {
		c.OpenedAt = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apierror.ErrCajaYaAbierta
	}
	return err
}

func (r *cajaRepo) FindAbierta(ctx context.Context, sucursalID uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND estado = ?", sucursalID, model.CajaAbierta).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cajaRepo) Cerrar(ctx context.Context, id uuid.UUID, montoFinal decimal.Decimal, cerradaPor uuid.UUID, observaciones *string, closedAt time.Time) (*model.Caja, error) {
	updates := map[string]interface{}{
		"estado":      model.CajaCerrada,
		"monto_final": montoFinal,
		"cerrada_por": cerradaPor,
		"closed_at":   closedAt.UTC(),
	}
	if observaciones != nil {
		updates["observaciones"] = *observaciones
	}

	res := r.db.WithContext(ctx).Model(&model.Caja{}).
		Where("id = ? AND estado = ?", id, model.CajaAbierta).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "never existed" from "already closed".
		if _, err := r.FindByID(ctx, id); err != nil {
			return nil, err
		}
		return nil, apierror.ErrCajaYaCerrada
	}
	return r.FindByID(ctx, id)
}

func (r *cajaRepo) List(ctx context.Context, f CajaFilter) ([]model.Caja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Caja{}).
		Where("sucursal_id IN ?", f.SucursalIDs).
		Where("opened_at >= ? AND opened_at < ?", f.Desde, f.Hasta)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if f.Descending {
		dir = "DESC"
	}
	orden := f.OrdenarPor
	if orden == "" {
		orden = "opened_at"
	}

	var cajas []model.Caja
	err := q.Order(orden + " " + dir).Order("id " + dir).
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&cajas).Error
	return cajas, total, err
}

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
	"gorm.io/gorm/clause"
)

// MovimientoFilter bounds movement listings the same way CajaFilter does.
// Desde/Hasta are a half-open UTC window over fecha_movimiento.
type MovimientoFilter struct {
	SucursalIDs []uuid.UUID
	Desde       time.Time
	Hasta       time.Time
	OrdenarPor  string // fecha_movimiento | monto | tipo (validated upstream)
	Descending  bool
	Page        int
	Limit       int
}

type MovimientoRepository interface {
	// Create appends a movement unconditionally.
	Create(ctx context.Context, m *model.MovimientoCaja) error
	// CreateIdempotente appends a payment-linked ingreso, relying on the
	// partial unique index over pago_id plus ON CONFLICT DO NOTHING.
	// Returns false when the pago was already posted (no new row).
	CreateIdempotente(ctx context.Context, m *model.MovimientoCaja) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error)
	FindByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.MovimientoCaja, error)
	// Replace overwrites the editable fields of a manually entered movement.
	// The row is locked for the duration of the transaction so concurrent
	// edits serialize instead of silently dropping each other.
	Replace(ctx context.Context, id uuid.UUID, monto decimal.Decimal, observaciones string, fecha time.Time) (*model.MovimientoCaja, error)
	List(ctx context.Context, f MovimientoFilter) ([]model.MovimientoCaja, int64, error)
	// SumPorTipo aggregates movement amounts per tipo for one sucursal over a
	// window; hasta == nil means "no upper bound" (caja still open).
	SumPorTipo(ctx context.Context, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (map[model.TipoMovimiento]decimal.Decimal, error)
}

type movimientoRepo struct{ db *gorm.DB }

func NewMovimientoRepository(db *gorm.DB) MovimientoRepository { return &movimientoRepo{db: db} }

func (r *movimientoRepo) Create(ctx context.Context, m *model.MovimientoCaja) error {
	m.FechaMovimiento = m.FechaMovimiento.UTC()
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoRepo) CreateIdempotente(ctx context.Context, m *model.MovimientoCaja) (bool, error) {
	m.FechaMovimiento = m.FechaMovimiento.UTC()
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *movimientoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoRepo) FindByPagoID(ctx context.Context, pagoID uuid.UUID) (*model.MovimientoCaja, error) {
	var m model.MovimientoCaja
	err := r.db.WithContext(ctx).First(&m, "pago_id = ?", pagoID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.ErrNoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *movimientoRepo) Replace(ctx context.Context, id uuid.UUID, monto decimal.Decimal, observaciones string, fecha time.Time) (*model.MovimientoCaja, error) {
	var out model.MovimientoCaja
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.MovimientoCaja
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.ErrNoEncontrado
		}
		if err != nil {
			return err
		}
		if m.Inmutable() {
			return apierror.ErrRegistroInmutable
		}

		// Full-row overwrite of the editable fields; id, tipo and the
		// sucursal linkage never change.
		m.Monto = monto
		m.Observaciones = &observaciones
		m.FechaMovimiento = fecha.UTC()
		if err := tx.Save(&m).Error; err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *movimientoRepo) List(ctx context.Context, f MovimientoFilter) ([]model.MovimientoCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Where("sucursal_id IN ?", f.SucursalIDs).
		Where("fecha_movimiento >= ? AND fecha_movimiento < ?", f.Desde, f.Hasta)

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
		orden = "fecha_movimiento"
	}

	var movs []model.MovimientoCaja
	err := q.Order(orden + " " + dir).Order("id " + dir).
		Offset((f.Page - 1) * f.Limit).Limit(f.Limit).
		Find(&movs).Error
	return movs, total, err
}

func (r *movimientoRepo) SumPorTipo(ctx context.Context, sucursalID uuid.UUID, desde time.Time, hasta *time.Time) (map[model.TipoMovimiento]decimal.Decimal, error) {
	q := r.db.WithContext(ctx).Model(&model.MovimientoCaja{}).
		Select("tipo, COALESCE(SUM(monto), 0) AS total").
		Where("sucursal_id = ? AND fecha_movimiento >= ?", sucursalID, desde.UTC())
	if hasta != nil {
		q = q.Where("fecha_movimiento < ?", hasta.UTC())
	}

	var rows []struct {
		Tipo  model.TipoMovimiento
		Total decimal.Decimal
	}
	if err := q.Group("tipo").Scan(&rows).Error; err != nil {
		return nil, err
	}

	sums := map[model.TipoMovimiento]decimal.Decimal{
		model.MovimientoIngreso: decimal.Zero,
		model.MovimientoEgreso:  decimal.Zero,
	}
	for _, row := range rows {
		sums[row.Tipo] = row.Total
	}
	return sums, nil
}

package infra

import (
	"fmt"

	"github.com/fraydd/cmm-sub002/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for the ledger tables, then applies the partial unique indexes that GORM
// cannot express. TranslateError is enabled so unique violations surface as
// gorm.ErrDuplicatedKey and repositories can map them to domain conflicts.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.SucursalAcceso{},
		&model.Caja{},
		&model.MovimientoCaja{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot handle
// on its own. Both indexes are load-bearing:
//
//   - uni_cajas_sucursal_abierta enforces "at most one open caja per
//     sucursal" at the storage layer, so concurrent openings race at the
//     database instead of in check-then-write application code.
//   - uni_movimientos_pago makes posting an ingreso by pago_id idempotent
//     (ON CONFLICT DO NOTHING on insert).
//
// Each statement uses IF NOT EXISTS semantics so re-running on an already
// patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"partial unique index: one open caja per sucursal", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_cajas_sucursal_abierta
    ON cajas (sucursal_id)
    WHERE estado = 'abierta'`},
		{"partial unique index: one ingreso per pago", `
CREATE UNIQUE INDEX IF NOT EXISTS uni_movimientos_pago
    ON movimientos_caja (pago_id)
    WHERE pago_id IS NOT NULL`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

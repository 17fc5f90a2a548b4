package service

import (
	"context"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/repository"

	"github.com/google/uuid"
)

// AccesoSucursal is the single capability check invoked before every
// branch-scoped ledger operation. Permission administration is external;
// the ledger only asks "may this usuario operate on these sucursales?".
type AccesoSucursal interface {
	Verificar(ctx context.Context, usuarioID, sucursalID uuid.UUID) error
	// VerificarTodas fails if any of the sucursales is not accessible.
	VerificarTodas(ctx context.Context, usuarioID uuid.UUID, sucursalIDs []uuid.UUID) error
}

type accesoSucursal struct {
	sucursales repository.SucursalRepository
}

func NewAccesoSucursal(sucursales repository.SucursalRepository) AccesoSucursal {
	return &accesoSucursal{sucursales: sucursales}
}

func (a *accesoSucursal) Verificar(ctx context.Context, usuarioID, sucursalID uuid.UUID) error {
	return a.VerificarTodas(ctx, usuarioID, []uuid.UUID{sucursalID})
}

func (a *accesoSucursal) VerificarTodas(ctx context.Context, usuarioID uuid.UUID, sucursalIDs []uuid.UUID) error {
	accesibles, err := a.sucursales.AccesiblesPara(ctx, usuarioID)
	if err != nil {
		return err
	}
	permitidas := make(map[uuid.UUID]bool, len(accesibles))
	for _, s := range accesibles {
		permitidas[s.ID] = true
	}
	for _, id := range sucursalIDs {
		if !permitidas[id] {
			return apierror.ErrAccesoSucursal
		}
	}
	return nil
}

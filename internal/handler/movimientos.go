package handler

import (
	"net/http"

	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type MovimientosHandler struct {
	svc      service.CajaService
	reportes service.ReporteService
}

func NewMovimientosHandler(svc service.CajaService, reportes service.ReporteService) *MovimientosHandler {
	return &MovimientosHandler{svc: svc, reportes: reportes}
}

// RegistrarEgreso godoc
// @Summary Registra un egreso manual de caja
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EgresoRequest true "Egreso"
// @Success 201 {object} dto.MovimientoResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/movimientos/egreso [post]
func (h *MovimientosHandler) RegistrarEgreso(c *gin.Context) {
	var req dto.EgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.RegistrarEgreso(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Editar godoc
// @Summary Edita un movimiento manual (los vinculados a pagos son inmutables)
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EditarMovimientoRequest true "Campos editables"
// @Success 200 {object} dto.MovimientoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/movimientos/editar [post]
func (h *MovimientosHandler) Editar(c *gin.Context) {
	var req dto.EditarMovimientoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.EditarMovimiento(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista movimientos por sucursales y rango de fechas
// @Tags movimientos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ListarRequest true "Filtro"
// @Success 200 {object} dto.MovimientoListResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/movimientos/listar [post]
func (h *MovimientosHandler) Listar(c *gin.Context) {
	var req dto.ListarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.reportes.ListarMovimientos(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

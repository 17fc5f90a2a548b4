package handler

import (
	"net/http"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/middleware"
	"github.com/fraydd/cmm-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CajaHandler struct {
	svc      service.CajaService
	reportes service.ReporteService
}

func NewCajaHandler(svc service.CajaService, reportes service.ReporteService) *CajaHandler {
	return &CajaHandler{svc: svc, reportes: reportes}
}

// Abrir godoc
// @Summary Abre una nueva caja para una sucursal
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCajaRequest true "Datos de apertura"
// @Success 201 {object} dto.CajaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/abrir [post]
func (h *CajaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary Cierra una caja abierta registrando el monto contado
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CerrarCajaRequest true "Datos de cierre"
// @Success 200 {object} dto.CajaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/caja/cerrar [post]
func (h *CajaHandler) Cerrar(c *gin.Context) {
	var req dto.CerrarCajaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.Cerrar(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetActiva godoc
// @Summary Obtiene la caja abierta de una sucursal, o null si no hay
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param sucursal_id path string true "ID de sucursal"
// @Success 200 {object} dto.CajaResponse
// @Router /v1/caja/activa/{sucursal_id} [get]
func (h *CajaHandler) GetActiva(c *gin.Context) {
	sucursalID, err := uuid.Parse(c.Param("sucursal_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("sucursal_id inválido"))
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.svc.GetActiva(c.Request.Context(), actorID, sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	// "no cash point open" is a legitimate answer, not a 404
	c.JSON(http.StatusOK, resp)
}

// Arqueo godoc
// @Summary Calcula el arqueo (monto esperado y desvío) de una caja
// @Tags caja
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de caja"
// @Success 200 {object} dto.ArqueoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/caja/{id}/arqueo [get]
func (h *CajaHandler) Arqueo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.reportes.Arqueo(c.Request.Context(), actorID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary Lista cajas por sucursales y rango de fechas
// @Tags caja
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ListarRequest true "Filtro"
// @Success 200 {object} dto.CajaListResponse
// @Failure 422 {object} apierror.ValidationError
// @Router /v1/caja/listar [post]
func (h *CajaHandler) Listar(c *gin.Context) {
	var req dto.ListarRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	resp, err := h.reportes.ListarCajas(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// actorFromClaims extracts the authenticated usuario id from the JWT claims.
func actorFromClaims(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Autenticacion requerida"))
		return uuid.Nil, false
	}
	actorID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("Token con usuario inválido"))
		return uuid.Nil, false
	}
	return actorID, true
}

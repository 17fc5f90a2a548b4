package handler

import (
	"net/http"

	"github.com/fraydd/cmm-sub002/internal/repository"

	"github.com/gin-gonic/gin"
)

type SucursalesHandler struct {
	repo repository.SucursalRepository
}

func NewSucursalesHandler(repo repository.SucursalRepository) *SucursalesHandler {
	return &SucursalesHandler{repo: repo}
}

// Listar returns the active sucursales the authenticated usuario may operate on.
func (h *SucursalesHandler) Listar(c *gin.Context) {
	actorID, ok := actorFromClaims(c)
	if !ok {
		return
	}
	sucursales, err := h.repo.AccesiblesPara(c.Request.Context(), actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": sucursales})
}

package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fraydd/cmm-sub002/internal/apierror"
	"github.com/fraydd/cmm-sub002/internal/dto"
	"github.com/fraydd/cmm-sub002/internal/handler"
	"github.com/fraydd/cmm-sub002/internal/middleware"
	"github.com/fraydd/cmm-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCajaService returns canned responses per operation.
type stubCajaService struct {
	abrirResp  *dto.CajaResponse
	abrirErr   error
	egresoResp *dto.MovimientoResponse
	egresoErr  error
}

func (s *stubCajaService) Abrir(context.Context, uuid.UUID, dto.AbrirCajaRequest) (*dto.CajaResponse, error) {
	return s.abrirResp, s.abrirErr
}
func (s *stubCajaService) Cerrar(context.Context, uuid.UUID, dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	return nil, apierror.ErrNoEncontrado
}
func (s *stubCajaService) GetActiva(context.Context, uuid.UUID, uuid.UUID) (*dto.CajaResponse, error) {
	return nil, nil
}
func (s *stubCajaService) RegistrarEgreso(context.Context, uuid.UUID, dto.EgresoRequest) (*dto.MovimientoResponse, error) {
	return s.egresoResp, s.egresoErr
}
func (s *stubCajaService) RegistrarIngresoPorPago(context.Context, uuid.UUID, decimal.Decimal, uuid.UUID, uuid.UUID) (*dto.MovimientoResponse, error) {
	return nil, nil
}
func (s *stubCajaService) EditarMovimiento(context.Context, uuid.UUID, dto.EditarMovimientoRequest) (*dto.MovimientoResponse, error) {
	return nil, apierror.ErrRegistroInmutable
}

var _ service.CajaService = (*stubCajaService)(nil)

type stubReporteService struct{}

func (stubReporteService) ListarCajas(context.Context, uuid.UUID, dto.ListarRequest) (*dto.CajaListResponse, error) {
	return &dto.CajaListResponse{}, nil
}
func (stubReporteService) ListarMovimientos(context.Context, uuid.UUID, dto.ListarRequest) (*dto.MovimientoListResponse, error) {
	return &dto.MovimientoListResponse{}, nil
}
func (stubReporteService) Arqueo(context.Context, uuid.UUID, uuid.UUID) (*dto.ArqueoResponse, error) {
	return nil, apierror.ErrNoEncontrado
}

var _ service.ReporteService = stubReporteService{}

// withClaims injects authenticated claims the way JWTAuth does in production.
func withClaims(usuarioID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, &middleware.JWTClaims{
			UserID: usuarioID.String(),
			Rol:    "cajero",
		})
		c.Next()
	}
}

func setupRouter(svc service.CajaService, reportes service.ReporteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	auth := withClaims(uuid.New())
	cajaH := handler.NewCajaHandler(svc, reportes)
	movsH := handler.NewMovimientosHandler(svc, reportes)
	r.POST("/v1/caja/abrir", auth, cajaH.Abrir)
	r.POST("/v1/caja/cerrar", auth, cajaH.Cerrar)
	r.POST("/v1/movimientos/egreso", auth, movsH.RegistrarEgreso)
	r.POST("/v1/movimientos/editar", auth, movsH.Editar)
	r.POST("/v1/movimientos/listar", auth, movsH.Listar)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAbrirHandlerCreated(t *testing.T) {
	svc := &stubCajaService{abrirResp: &dto.CajaResponse{ID: uuid.NewString(), Estado: "abierta"}}
	r := setupRouter(svc, stubReporteService{})

	w := doJSON(t, r, "/v1/caja/abrir", dto.AbrirCajaRequest{
		SucursalID:   uuid.NewString(),
		MontoInicial: decimal.NewFromInt(100000),
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp dto.CajaResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abierta", resp.Estado)
}

func TestAbrirHandlerConflicto(t *testing.T) {
	svc := &stubCajaService{abrirErr: apierror.ErrCajaYaAbierta}
	r := setupRouter(svc, stubReporteService{})

	w := doJSON(t, r, "/v1/caja/abrir", dto.AbrirCajaRequest{
		SucursalID:   uuid.NewString(),
		MontoInicial: decimal.NewFromInt(100000),
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCerrarHandlerNoEncontrada(t *testing.T) {
	r := setupRouter(&stubCajaService{}, stubReporteService{})

	w := doJSON(t, r, "/v1/caja/cerrar", dto.CerrarCajaRequest{
		ID:         uuid.NewString(),
		MontoFinal: decimal.NewFromInt(100),
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEgresoHandlerValidacion(t *testing.T) {
	r := setupRouter(&stubCajaService{}, stubReporteService{})

	// beneficiario no numérico → rejected by the validator tags before the
	// service is ever invoked
	w := doJSON(t, r, "/v1/movimientos/egreso", dto.EgresoRequest{
		SucursalID:                 uuid.NewString(),
		Monto:                      decimal.NewFromInt(20000),
		BeneficiarioIdentificacion: "abc",
		Observaciones:              "compra",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp apierror.ValidationError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Fields, "BeneficiarioIdentificacion")
}

func TestEditarHandlerInmutable(t *testing.T) {
	r := setupRouter(&stubCajaService{}, stubReporteService{})

	w := doJSON(t, r, "/v1/movimientos/editar", dto.EditarMovimientoRequest{
		ID:            uuid.NewString(),
		Monto:         decimal.NewFromInt(100),
		Observaciones: "ajuste",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListarHandlerSinSucursales(t *testing.T) {
	r := setupRouter(&stubCajaService{}, stubReporteService{})

	w := doJSON(t, r, "/v1/movimientos/listar", dto.ListarRequest{
		SucursalIDs: []string{},
		FechaDesde:  "2026-08-01",
		FechaHasta:  "2026-08-31",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

package router

import (
	"strings"
	"time"

	"github.com/fraydd/cmm-sub002/internal/config"
	"github.com/fraydd/cmm-sub002/internal/handler"
	"github.com/fraydd/cmm-sub002/internal/middleware"
	"github.com/fraydd/cmm-sub002/internal/repository"
	"github.com/fraydd/cmm-sub002/internal/service"
	"github.com/fraydd/cmm-sub002/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(strings.Split(cfg.CORSOrigins, ",")))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	sucursalRepo := repository.NewSucursalRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	movimientoRepo := repository.NewMovimientoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	acceso := service.NewAccesoSucursal(sucursalRepo)
	cajaSvc := service.NewCajaService(cajaRepo, movimientoRepo, acceso)
	reporteSvc := service.NewReporteService(cajaRepo, movimientoRepo, acceso)

	// ── Handlers ─────────────────────────────────────────────────────────────
	cajaH := handler.NewCajaHandler(cajaSvc, reporteSvc)
	movimientosH := handler.NewMovimientosHandler(cajaSvc, reporteSvc)
	sucursalesH := handler.NewSucursalesHandler(sucursalRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, worker.QueuePagos))

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		operar := middleware.RequireRole("cajero", "supervisor", "administrador")
		revisar := middleware.RequireRole("supervisor", "administrador")

		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", operar, cajaH.Abrir)
			caja.POST("/cerrar", operar, cajaH.Cerrar)
			caja.GET("/activa/:sucursal_id", operar, cajaH.GetActiva)
			caja.GET("/:id/arqueo", operar, cajaH.Arqueo)
			caja.POST("/listar", revisar, cajaH.Listar)
		}

		movimientos := v1.Group("/movimientos")
		{
			movimientos.POST("/egreso", operar, movimientosH.RegistrarEgreso)
			movimientos.POST("/editar", revisar, movimientosH.Editar)
			movimientos.POST("/listar", operar, movimientosH.Listar)
		}

		v1.GET("/sucursales", operar, sucursalesH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

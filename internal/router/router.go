package router

import (
	"time"

	"github.com/Crsto22/Bodega-sub000/internal/config"
	"github.com/Crsto22/Bodega-sub000/internal/events"
	"github.com/Crsto22/Bodega-sub000/internal/handler"
	"github.com/Crsto22/Bodega-sub000/internal/middleware"
	"github.com/Crsto22/Bodega-sub000/internal/repository"
	"github.com/Crsto22/Bodega-sub000/internal/service"
	"github.com/Crsto22/Bodega-sub000/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, bus *events.Bus) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	catalogoSvc := service.NewCatalogoService(productoRepo, bus)
	clienteSvc := service.NewClienteService(clienteRepo, bus)
	proveedorSvc := service.NewProveedorService(proveedorRepo, bus)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, clienteRepo, movimientoStockRepo, bus, dispatcher)
	deudaSvc := service.NewDeudaService(ventaRepo, clienteRepo, rdb, bus, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(catalogoSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	proveedoresH := handler.NewProveedoresHandler(proveedorSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	deudasH := handler.NewDeudasHandler(deudaSvc)
	consultaH := handler.NewConsultaPrecioHandler(productoRepo, rdb)
	eventosH := handler.NewEventosHandler(bus)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Price check — no auth required
	r.GET("/v1/precio/:id", consultaH.GetPrecio)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "administrador"), ventasH.ListarVentas)
		v1.DELETE("/ventas/:id", middleware.RequireRole("administrador"), ventasH.EliminarVenta)

		// Catalog: all authenticated can read, administrador writes
		v1.GET("/productos", middleware.RequireRole("cajero", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "administrador"), productosH.ObtenerPorID)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Eliminar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", middleware.RequireRole("administrador"), clientesH.Eliminar)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole("administrador"))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.ObtenerPorID)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Eliminar)
		}

		deudas := v1.Group("/deudas", middleware.RequireRole("cajero", "administrador"))
		{
			deudas.GET("", deudasH.Listar)
			deudas.GET("/:cliente_id", deudasH.ObtenerVentasCliente)
			deudas.POST("/pagar", deudasH.Pagar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
		}

		// Live change stream for the UI
		v1.GET("/eventos", eventosH.Stream)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

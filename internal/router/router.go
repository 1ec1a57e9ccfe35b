package router

import (
	"time"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/viktorhino/gestor-cupos-sub001/internal/config"
	"github.com/viktorhino/gestor-cupos-sub001/internal/handler"
	"github.com/viktorhino/gestor-cupos-sub001/internal/infra"
	"github.com/viktorhino/gestor-cupos-sub001/internal/metrics"
	"github.com/viktorhino/gestor-cupos-sub001/internal/middleware"
	"github.com/viktorhino/gestor-cupos-sub001/internal/repository"
	"github.com/viktorhino/gestor-cupos-sub001/internal/service"
	"github.com/viktorhino/gestor-cupos-sub001/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, imagenes *infra.ImagenStore) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	m := metrics.Registry("gestor_cupos")

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Instrumentar(m))
	r.Use(middleware.RateLimiter(cfg.RateLimitPorMinuto, time.Minute))

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	cupoRepo := repository.NewCupoRepository(db)
	pagoRepo := repository.NewPagoRepository(db)
	plantillaRepo := repository.NewPlantillaRepository(db)
	mensajeRepo := repository.NewMensajeRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	clienteSvc := service.NewClienteService(clienteRepo)
	catalogoSvc := service.NewCatalogoService(catalogoRepo)
	plantillaSvc := service.NewPlantillaService(plantillaRepo)
	mensajeSvc := service.NewMensajeService(mensajeRepo, plantillaRepo, pedidoRepo, m)
	pedidoSvc := service.NewPedidoService(pedidoRepo, clienteRepo, catalogoRepo, cupoRepo, mensajeSvc, dispatcher, cfg, m)
	cupoSvc := service.NewCupoService(cupoRepo, pedidoRepo, cfg, m)
	pagoSvc := service.NewPagoService(pagoRepo, pedidoRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	catalogosH := handler.NewCatalogosHandler(catalogoSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	cuposH := handler.NewCuposHandler(cupoSvc)
	pagosH := handler.NewPagosHandler(pagoSvc)
	mensajesH := handler.NewMensajesHandler(mensajeSvc)
	plantillasH := handler.NewPlantillasHandler(plantillaSvc)
	imagenesH := handler.NewImagenesHandler(imagenes)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/imagenes", imagenes.BasePath())

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(cfg.LoginLimitPorMinuto), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: vendedor, produccion, administrador — declared per-endpoint
		todos := middleware.RequireRole("vendedor", "produccion", "administrador")
		ventaYAdmin := middleware.RequireRole("vendedor", "administrador")
		produccionYAdmin := middleware.RequireRole("produccion", "administrador")
		admin := middleware.RequireRole("administrador")

		// Clientes — vendedores create and edit, everyone reads
		v1.GET("/clientes", todos, clientesH.Listar)
		v1.GET("/clientes/:id", todos, clientesH.Obtener)
		clientes := v1.Group("/clientes", ventaYAdmin)
		{
			clientes.POST("", clientesH.Crear)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", clientesH.Eliminar)
			clientes.PATCH("/:id/reactivar", clientesH.Reactivar)
		}

		// Pedidos — intake by vendedores; production reads and moves states
		v1.GET("/pedidos", todos, pedidosH.Listar)
		v1.GET("/pedidos/:id", todos, pedidosH.Obtener)
		v1.GET("/pedidos/:id/orden-pdf", todos, pedidosH.OrdenPDF)
		v1.POST("/pedidos", ventaYAdmin, pedidosH.Crear)
		v1.PUT("/pedidos/:id", ventaYAdmin, pedidosH.Actualizar)
		v1.DELETE("/pedidos/:id", admin, pedidosH.Eliminar)
		v1.PATCH("/pedidos/:id/estado", todos, pedidosH.CambiarEstado)
		v1.POST("/pedidos/:id/items", ventaYAdmin, pedidosH.AgregarItem)
		v1.DELETE("/pedidos/:id/items/:itemId", ventaYAdmin, pedidosH.EliminarItem)

		// Pagos — append-only ledger under each pedido
		v1.POST("/pedidos/:id/pagos", ventaYAdmin, pagosH.Registrar)
		v1.GET("/pedidos/:id/balance", todos, pagosH.Balance)

		// Mensajes
		v1.GET("/pedidos/:id/mensajes/pendiente", todos, mensajesH.Pendiente)
		v1.GET("/pedidos/:id/mensajes", todos, mensajesH.Historial)
		v1.POST("/mensajes/:id/copiado", todos, mensajesH.MarcarCopiado)

		// Cupos — production plans batches
		v1.GET("/cupos", todos, cuposH.Listar)
		v1.GET("/cupos/:id", todos, cuposH.Obtener)
		cupos := v1.Group("/cupos", produccionYAdmin)
		{
			cupos.POST("", cuposH.Crear)
			cupos.PUT("/:id", cuposH.Actualizar)
			cupos.POST("/:id/asignar", cuposH.Asignar)
			cupos.DELETE("/:id/asignaciones/:itemId", cuposH.Desasignar)
			cupos.POST("/:id/mover", cuposH.Mover)
			cupos.POST("/asignar-automatico", cuposH.AsignarAutomatico)
		}

		// Catalogos — administrador writes, everyone reads
		v1.GET("/referencias", todos, catalogosH.ListarReferencias)
		v1.GET("/tipos-volante", todos, catalogosH.ListarTiposVolante)
		referencias := v1.Group("/referencias", admin)
		{
			referencias.POST("", catalogosH.CrearReferencia)
			referencias.PUT("/:id", catalogosH.ActualizarReferencia)
			referencias.DELETE("/:id", catalogosH.DesactivarReferencia)
		}
		tiposVolante := v1.Group("/tipos-volante", admin)
		{
			tiposVolante.POST("", catalogosH.CrearTipoVolante)
			tiposVolante.PUT("/:id", catalogosH.ActualizarTipoVolante)
			tiposVolante.DELETE("/:id", catalogosH.DesactivarTipoVolante)
		}

		// Plantillas de mensaje
		v1.GET("/plantillas", todos, plantillasH.Listar)
		plantillas := v1.Group("/plantillas", admin)
		{
			plantillas.POST("", plantillasH.Crear)
			plantillas.PUT("/:id", plantillasH.Actualizar)
			plantillas.DELETE("/:id", plantillasH.Eliminar)
		}

		// Imagenes
		v1.POST("/imagenes", todos, imagenesH.Subir)
		v1.DELETE("/imagenes", ventaYAdmin, imagenesH.Eliminar)

		// Usuarios
		usuarios := v1.Group("/usuarios", admin)
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}

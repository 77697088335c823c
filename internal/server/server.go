package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ynmsafety/ynmops/internal/assistant"
	"github.com/ynmsafety/ynmops/internal/config"
	manufacturerdomain "github.com/ynmsafety/ynmops/internal/manufacturer/domain"
	"github.com/ynmsafety/ynmops/internal/observability"
	obsmiddleware "github.com/ynmsafety/ynmops/internal/observability/logger"
	obsmetrics "github.com/ynmsafety/ynmops/internal/observability/metrics"
	obstracing "github.com/ynmsafety/ynmops/internal/observability/tracing"
	orderdomain "github.com/ynmsafety/ynmops/internal/order/domain"
	partnerdomain "github.com/ynmsafety/ynmops/internal/partner/domain"
	productdomain "github.com/ynmsafety/ynmops/internal/product/domain"
	"github.com/ynmsafety/ynmops/internal/providers/extract"
	"github.com/ynmsafety/ynmops/internal/ratelimit"
	taskdomain "github.com/ynmsafety/ynmops/internal/task/domain"
	"github.com/ynmsafety/ynmops/internal/transport"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Provide(fx.Annotate(NewHeaderRoleResolver, fx.As(new(RoleResolver)))),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, reg *prometheus.Registry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(obsmetrics.Handler(reg)))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, reg *prometheus.Registry) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, reg)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log = log.Named("http.server")

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine  *gin.Engine
	cfg     config.Config
	log     *zap.Logger
	roles   RoleResolver
	limiter ratelimit.Limiter

	manufacturerSvc manufacturerdomain.Service
	productSvc      productdomain.Service
	orderSvc        orderdomain.Service
	taskSvc         taskdomain.Service
	partnerSvc      partnerdomain.Service
	estimator       *transport.Estimator
	assistant       *assistant.Service
	extractor       extract.Client
	obsMetrics      *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin     *gin.Engine
	Cfg     config.Config
	Log     *zap.Logger
	Roles   RoleResolver
	Limiter ratelimit.Limiter

	ManufacturerSvc manufacturerdomain.Service
	ProductSvc      productdomain.Service
	OrderSvc        orderdomain.Service
	TaskSvc         taskdomain.Service
	PartnerSvc      partnerdomain.Service
	Estimator       *transport.Estimator
	Assistant       *assistant.Service
	Extractor       extract.Client
	ObsMetrics      *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	roles := p.Roles
	if roles == nil {
		roles = NewHeaderRoleResolver()
	}
	limiter := p.Limiter
	if limiter == nil {
		limiter = ratelimit.AllowAll()
	}
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("http.server"),
		roles:           roles,
		limiter:         limiter,
		manufacturerSvc: p.ManufacturerSvc,
		productSvc:      p.ProductSvc,
		orderSvc:        p.OrderSvc,
		taskSvc:         p.TaskSvc,
		partnerSvc:      p.PartnerSvc,
		estimator:       p.Estimator,
		assistant:       p.Assistant,
		extractor:       p.Extractor,
		obsMetrics:      p.ObsMetrics,
	}

	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.ResolveRole())

	writers := RequireRole(RoleAdmin, RoleManager)
	staff := RequireRole(RoleAdmin, RoleManager, RoleEmployee)

	// -------- Manufacturers --------
	api.POST("/manufacturers", writers, s.CreateManufacturer)
	api.GET("/manufacturers", s.ListManufacturers)
	api.GET("/manufacturers/:id", s.GetManufacturer)
	api.PUT("/manufacturers/:id", writers, s.UpdateManufacturer)
	api.DELETE("/manufacturers/:id", writers, s.DeleteManufacturer)

	// -------- Products --------
	api.POST("/products", writers, s.CreateProduct)
	api.POST("/products/extract", writers, s.ExtractProduct)
	api.GET("/products", s.ListProducts)
	api.GET("/products/:id", s.GetProduct)
	api.PUT("/products/:id", writers, s.UpdateProduct)
	api.DELETE("/products/:id", writers, s.DeleteProduct)

	// -------- Orders --------
	api.POST("/orders", writers, s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/export.csv", s.ExportOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.GET("/orders/:id/quote.pdf", s.QuoteOrder)
	api.PUT("/orders/:id", writers, s.UpdateOrder)
	api.DELETE("/orders/:id", writers, s.DeleteOrder)

	// -------- Tasks --------
	tasks := api.Group("/tasks", staff)
	tasks.POST("", s.CreateTask)
	tasks.GET("", s.ListTasks)
	tasks.GET("/:id", s.GetTask)
	tasks.PUT("/:id", s.UpdateTask)
	tasks.PATCH("/:id/status", s.UpdateTaskStatus)
	tasks.DELETE("/:id", s.DeleteTask)

	// -------- Dealers, importers, customers --------
	for _, kind := range partnerdomain.Kinds {
		group := api.Group("/" + kind.Plural())
		group.POST("", writers, s.CreatePartner(kind))
		group.GET("", s.ListPartners(kind))
		group.GET("/:id", s.GetPartner(kind))
		group.PUT("/:id", writers, s.UpdatePartner(kind))
		group.DELETE("/:id", writers, s.DeletePartner(kind))
	}

	// -------- Tools --------
	api.POST("/transport/estimate", s.EstimateTransport)
	api.POST("/assistant/chat", s.RateLimit("assistant.chat"), s.AskAssistant)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, envelope{Success: false, Message: "Route not found"})
	})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

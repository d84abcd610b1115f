package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/middleware"
	"github.com/annel0/voxel-core/internal/sim"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/mesh"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// WorldSource - источник данных для отладочного API.
// Реализуется sim.Engine: отдаёт только снимки завершённых кадров.
type WorldSource interface {
	Snapshot() sim.Snapshot
	Mesh(coords vec.Vec3) ([]mesh.Vertex, bool)
}

// RestServer представляет отладочный REST API сервер (только чтение)
type RestServer struct {
	router     *gin.Engine
	source     WorldSource
	port       string
	runID      string
	metrics    *ServerMetrics
	encoder    *meshEncoder
	httpServer *http.Server
	log        *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port     string      // адрес для запуска сервера, например ":8088"
	Source   WorldSource // снимки мира
	RunID    string      // идентификатор запуска, попадает в /api/server
	Service  string      // имя сервиса для otel и префикс HTTP-метрик
	Registry *prometheus.Registry
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) (*RestServer, error) {
	if config.Source == nil {
		return nil, errors.New("api: не задан источник мира")
	}
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Service == "" {
		config.Service = "debug_api"
	}

	encoder, err := newMeshEncoder()
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware(config.Service))
	router.Use(middleware.NewRequestLogger(nil).Handler())

	server := &RestServer{
		router:  router,
		source:  config.Source,
		port:    config.Port,
		runID:   config.RunID,
		metrics: NewServerMetrics(),
		encoder: encoder,
		log:     logging.GetAPILogger(),
	}

	if config.Registry != nil {
		promMw := middleware.NewPrometheusMiddleware(config.Service, config.Registry)
		router.Use(promMw.Handler())
		promMw.RegisterMetricsEndpoint(router, config.Registry)
	}

	server.setupRoutes()
	return server, nil
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	api := rs.router.Group("/api")
	{
		api.GET("/world", rs.handleWorld)
		api.GET("/server", rs.handleServerInfo)
		api.GET("/chunks/mesh", rs.handleChunkMesh)
	}

	rs.router.GET("/health", rs.handleHealth)
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Handler возвращает http.Handler сервера
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// handleHealth - проверка состояния
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleWorld возвращает снимок последнего кадра
func (rs *RestServer) handleWorld(c *gin.Context) {
	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Снимок мира",
		Data:    rs.source.Snapshot(),
	})
}

// handleServerInfo возвращает информацию о процессе
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	memoryMB, _ := rs.metrics.GetMemoryUsage()
	cpuPercent, err := rs.metrics.GetCPUUsage()
	if err != nil {
		rs.log.Debug("не удалось получить загрузку CPU: %v", err)
	}

	info := map[string]interface{}{
		"name":        "voxel-core",
		"run_id":      rs.runID,
		"status":      "running",
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   fmt.Sprintf("%.1f", memoryMB),
		"cpu_percent": fmt.Sprintf("%.1f", cpuPercent),
		"frame":       rs.source.Snapshot().Frame,
		"memory":      rs.metrics.GetDetailedMemoryStats(),
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data:    info,
	})
}

// Start запускает REST сервер в отдельной горутине
func (rs *RestServer) Start() {
	rs.httpServer = &http.Server{
		Addr:              rs.port,
		Handler:           rs.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.log.Error("❌ Ошибка REST API сервера: %v", err)
		}
	}()

	rs.log.Info("✅ Отладочный API запущен на http://localhost%s", rs.port)
}

// Stop останавливает сервер, дожидаясь завершения активных запросов
func (rs *RestServer) Stop(ctx context.Context) error {
	defer rs.encoder.Close()
	if rs.httpServer == nil {
		return nil
	}
	if err := rs.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("остановка REST API: %w", err)
	}
	return nil
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/metrics"
	"github.com/wfunc/slot-engine/internal/middleware"
	"github.com/wfunc/slot-engine/internal/service"
	"github.com/wfunc/slot-engine/internal/websocket"
)

// Options 路由依赖
type Options struct {
	DB        *gorm.DB
	Services  *service.Services
	Validator middleware.TokenValidator
	Hub       *websocket.Hub // 为nil时不注册推送路由
	WebSocket config.WebSocketConfig
	Metrics   *metrics.Metrics    // 为nil时不采集HTTP指标
	Gatherer  prometheus.Gatherer // 为nil时不暴露指标接口
	Monitor   config.MonitorConfig
}

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	slotHandler    *SlotHandler
	wsHandler      *websocket.Handler
	authMiddleware *middleware.AuthMiddleware
	opts           Options
	log            *zap.Logger
}

// NewRouter 创建路由器
func NewRouter(opts Options, log *zap.Logger) *Router {
	engine := gin.New()

	// 全局中间件
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery())
	engine.Use(middleware.AccessLog())
	if opts.Metrics != nil {
		engine.Use(opts.Metrics.Middleware())
	}

	router := &Router{
		engine:         engine,
		db:             opts.DB,
		slotHandler:    NewSlotHandler(opts.Services.Spin),
		authMiddleware: middleware.NewAuthMiddleware(opts.Validator),
		opts:           opts,
		log:            log,
	}
	if opts.Hub != nil {
		router.wsHandler = websocket.NewHandler(opts.Hub, opts.WebSocket)
	}

	router.setupRoutes()
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	// 指标
	if r.opts.Gatherer != nil && r.opts.Monitor.Enabled {
		path := r.opts.Monitor.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.engine.GET(path, gin.WrapH(promhttp.HandlerFor(r.opts.Gatherer, promhttp.HandlerOpts{})))
	}

	registerSwaggerRoutes(r.engine)

	v1 := r.engine.Group("/api/v1")
	{
		// 老虎机公开接口
		slot := v1.Group("/slot")
		{
			slot.GET("/tables", r.slotHandler.Tables)
			slot.POST("/verify", r.slotHandler.Verify)
		}

		// 需要认证的接口
		player := v1.Group("/slot")
		player.Use(r.authMiddleware.RequireAuth())
		{
			player.POST("/spin", r.slotHandler.Spin)
			player.GET("/history", r.slotHandler.History)
			player.GET("/spins/:id", r.slotHandler.GetSpin)
			player.GET("/stats", r.slotHandler.Stats)
			player.GET("/seeds", r.slotHandler.CurrentSeed)
			player.POST("/seeds/rotate", r.slotHandler.RotateSeed)
			player.GET("/seeds/history", r.slotHandler.RevealedSeeds)
		}
	}

	// WebSocket路由
	if r.wsHandler != nil {
		path := r.opts.WebSocket.Path
		if path == "" {
			path = "/ws/outcomes"
		}
		r.engine.GET(path, r.authMiddleware.RequireAuth(), r.wsHandler.ServeWS)
	}

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		respondError(c, errors.Newf(errors.ErrNotFound, "接口不存在: %s %s", c.Request.Method, c.Request.URL.Path))
	})

	r.log.Info("API路由注册完成",
		zap.Bool("websocket", r.wsHandler != nil),
		zap.Int("routes", len(r.engine.Routes())))
}

// healthCheck 健康检查
// @Summary 健康检查
// @Tags System
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (r *Router) healthCheck(c *gin.Context) {
	// 检查数据库连接
	sqlDB, err := r.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库连接失败",
		})
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库ping失败",
		})
		return
	}

	resp := gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	}
	if r.opts.Hub != nil {
		resp["online_players"] = r.opts.Hub.GetOnlineCount()
	}
	c.JSON(http.StatusOK, resp)
}

// Handler 返回HTTP处理器
func (r *Router) Handler() http.Handler {
	return r.engine
}

// GetEngine 获取Gin引擎（用于测试）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}

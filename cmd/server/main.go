package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/wfunc/slot-engine/internal/api"
	"github.com/wfunc/slot-engine/internal/config"
	"github.com/wfunc/slot-engine/internal/database"
	"github.com/wfunc/slot-engine/internal/errors"
	"github.com/wfunc/slot-engine/internal/game/slot"
	"github.com/wfunc/slot-engine/internal/logger"
	"github.com/wfunc/slot-engine/internal/metrics"
	"github.com/wfunc/slot-engine/internal/service"
	"github.com/wfunc/slot-engine/internal/utils"
	"github.com/wfunc/slot-engine/internal/websocket"
)

// 版本信息
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Server 服务器实例
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	registry   *prometheus.Registry
	metrics    *metrics.Metrics
	hub        *websocket.Hub
	services   *service.Services
	httpServer *http.Server
	stopWatch  func() error

	// 关闭控制
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

func main() {
	// 命令行参数
	var (
		configPath  = flag.String("config", "", "配置文件路径")
		showVersion = flag.Bool("version", false, "显示版本信息")
	)
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// 加载配置
	if err := config.Init(*configPath); err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	// 初始化日志系统
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}

	server := NewServer(cfg)

	if err := server.Start(); err != nil {
		logger.Fatal("服务器启动失败", zap.Error(err))
	}

	server.WaitForShutdown()

	if err := server.Shutdown(); err != nil {
		logger.Error("服务器关闭失败", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("服务器已安全关闭")
}

// NewServer 创建服务器实例
func NewServer(cfg *config.Config) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		cfg:    cfg,
		logger: logger.GetLogger(),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	s.logger.Info("正在启动老虎机引擎服务...",
		zap.String("version", Version),
		zap.String("mode", s.cfg.Server.Mode),
	)

	if err := s.initComponents(); err != nil {
		return errors.Wrap(err, errors.ErrUnknown, "初始化组件失败")
	}

	s.startServices()

	// 监听配置变化
	config.Watch(func(newCfg *config.Config) {
		s.logger.Info("配置已更新，正在重新加载...")
		s.reloadConfig(newCfg)
	})

	s.logger.Info("服务器启动成功", zap.String("http", s.cfg.Server.Addr()))
	return nil
}

// initComponents 初始化组件
func (s *Server) initComponents() error {
	if err := s.initDatabase(); err != nil {
		return err
	}

	// 指标
	s.registry = prometheus.NewRegistry()
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.metrics = metrics.New(s.registry)

	// 游戏表
	tables, err := slot.LoadTables(s.cfg.Game.TablesFile)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "加载游戏表失败")
	}
	engine, err := slot.NewEngine(tables)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValidate, "游戏表校验失败")
	}

	// 推送
	s.hub = websocket.NewHub(websocket.OptionsFromConfig(s.cfg.WebSocket))
	s.hub.SetConnectionGauge(s.metrics.WSConnections)

	serviceCfg, err := service.ConfigFrom(s.cfg)
	if err != nil {
		return errors.Wrap(err, errors.ErrConfigValidate)
	}
	s.services, err = service.NewServices(database.GetDB(), engine, serviceCfg, s.metrics, s.hub)
	if err != nil {
		return err
	}

	jwtCfg := s.cfg.Security.JWT
	if jwtCfg.Secret == "change-me" {
		s.logger.Warn("使用默认JWT密钥，生产环境请设置 security.jwt.secret")
	}
	jwtManager := utils.NewJWTManager(jwtCfg.Secret, jwtCfg.Issuer, jwtCfg.TokenExpiry)

	if s.cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Options{
		DB:        database.GetDB(),
		Services:  s.services,
		Validator: jwtManager,
		Hub:       s.hub,
		WebSocket: s.cfg.WebSocket,
		Metrics:   s.metrics,
		Gatherer:  s.registry,
		Monitor:   s.cfg.Monitor,
	}, logger.GetModuleLogger("api"))

	s.httpServer = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.logger.Info("所有组件初始化完成",
		zap.Int("symbols", len(tables.Catalog.Symbols())),
		zap.Int("paylines", len(tables.Paylines)))
	return nil
}

// initDatabase 初始化数据库
func (s *Server) initDatabase() error {
	if err := database.Init(&s.cfg.Database); err != nil {
		return errors.Wrap(err, errors.ErrDatabaseConnect, "初始化数据库连接失败")
	}

	if s.cfg.Database.AutoMigrate {
		s.logger.Info("执行数据库自动迁移...")
		if err := database.AutoMigrate(); err != nil {
			return errors.Wrap(err, errors.ErrDatabaseConnect, "数据库迁移失败")
		}
	}

	if !database.IsConnected() {
		return errors.New(errors.ErrDatabaseConnect, "数据库连接检查失败")
	}
	return nil
}

// startServices 启动服务
func (s *Server) startServices() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.hub.Run(s.ctx)
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.logger.Info("HTTP服务监听", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP服务异常退出", zap.Error(err))
			s.cancel()
		}
	}()

	s.watchTables()
}

// watchTables 游戏表文件变化时重建引擎，失败时保留原引擎
func (s *Server) watchTables() {
	path := s.cfg.Game.TablesFile
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.logger.Info("游戏表文件不存在，使用内置表", zap.String("path", path))
		return
	}

	stop, err := config.WatchFile(path, func(path string) {
		tables, err := slot.LoadTables(path)
		if err != nil {
			s.logger.Error("游戏表加载失败，继续使用原配置", zap.String("path", path), zap.Error(err))
			s.metrics.ObserveTableReload(err)
			return
		}
		// 重载结果由服务记录
		_ = s.services.Spin.ReloadTables(tables)
	})
	if err != nil {
		s.logger.Warn("监听游戏表失败，热更新不可用", zap.Error(err))
		return
	}
	s.stopWatch = stop
}

// WaitForShutdown 等待关闭信号或服务异常退出
func (s *Server) WaitForShutdown() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		s.logger.Info("收到退出信号", zap.String("signal", sig.String()))
	case <-s.ctx.Done():
		s.logger.Warn("服务已停止")
	}
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.logger.Info("正在优雅关闭服务器...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	// 停止接收新请求
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP服务关闭失败", zap.Error(err))
	}
	if s.stopWatch != nil {
		_ = s.stopWatch()
	}

	// 取消主上下文，关闭推送连接
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("所有服务已正常关闭")
	case <-shutdownCtx.Done():
		s.logger.Warn("关闭超时，强制退出")
		return errors.New(errors.ErrTimeout, "关闭超时")
	}

	if err := database.Close(); err != nil {
		s.logger.Error("关闭数据库失败", zap.Error(err))
	}

	if err := logger.Sync(); err != nil {
		fmt.Printf("同步日志失败: %v\n", err)
	}
	return nil
}

// reloadConfig 应用可热更新的配置项
func (s *Server) reloadConfig(newCfg *config.Config) {
	logger.SetLevel(newCfg.Log.Level)

	// 下注范围
	serviceCfg, err := service.ConfigFrom(newCfg)
	if err == nil {
		err = s.services.Spin.UpdateConfig(serviceCfg)
	}
	if err != nil {
		s.logger.Warn("下注配置无效，继续使用原配置", zap.Error(err))
	}
	if newCfg.Game.TablesFile != s.cfg.Game.TablesFile {
		s.logger.Warn("游戏表路径变更需要重启生效",
			zap.String("current", s.cfg.Game.TablesFile),
			zap.String("new", newCfg.Game.TablesFile))
	}
	s.logger.Info("配置重新加载完成", zap.String("log_level", newCfg.Log.Level))
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("老虎机引擎服务\n")
	fmt.Printf("版本: %s\n", Version)
	fmt.Printf("构建时间: %s\n", BuildTime)
	fmt.Printf("Git提交: %s\n", GitCommit)
	fmt.Printf("Go版本: %s\n", runtime.Version())
	fmt.Printf("操作系统: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

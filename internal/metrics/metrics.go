package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// 指标名称
const (
	namespace = "slot_engine"

	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelFeature = "feature"
	LabelReason  = "reason"
	LabelResult  = "result"

	FeatureFreeSpins = "free_spins"
	FeatureBonus     = "bonus"
)

// HTTPLatencyBuckets HTTP请求耗时分桶（秒）
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// MultiplierBuckets 单次旋转赢分倍数分桶
var MultiplierBuckets = []float64{0, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}

// Metrics 引擎指标集合
type Metrics struct {
	SpinsTotal         prometheus.Counter
	SpinErrors         *prometheus.CounterVec
	BetAmount          prometheus.Counter
	WinAmount          prometheus.Counter
	WinMultiplier      prometheus.Histogram
	FeatureTriggers    *prometheus.CounterVec
	SeedRotations      prometheus.Counter
	TableReloads       *prometheus.CounterVec
	WSConnections      prometheus.Gauge
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec
}

// New 在指定注册器上创建指标
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SpinsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spins_total",
			Help:      "Total number of spins",
		}),
		SpinErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spin_errors_total",
			Help:      "Total number of rejected or failed spins",
		}, []string{LabelReason}),
		BetAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bet_amount_total",
			Help:      "Sum of all bets",
		}),
		WinAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "win_amount_total",
			Help:      "Sum of all payouts",
		}),
		WinMultiplier: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "win_multiplier",
			Help:      "Total win divided by bet per spin",
			Buckets:   MultiplierBuckets,
		}),
		FeatureTriggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feature_triggers_total",
			Help:      "Total number of feature triggers",
		}, []string{LabelFeature}),
		SeedRotations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "seed_rotations_total",
			Help:      "Total number of server seed rotations",
		}),
		TableReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_reloads_total",
			Help:      "Total number of game table reload attempts",
		}, []string{LabelResult}),
		WSConnections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Current number of websocket clients",
		}),
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{LabelMethod, LabelPath, LabelStatus}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   HTTPLatencyBuckets,
		}, []string{LabelMethod, LabelPath}),
	}
}

// ObserveSpin 记录一次成功的旋转
func (m *Metrics) ObserveSpin(bet, win decimal.Decimal, freeSpins int, bonus bool) {
	if m == nil {
		return
	}
	m.SpinsTotal.Inc()
	m.BetAmount.Add(bet.InexactFloat64())
	m.WinAmount.Add(win.InexactFloat64())
	if bet.IsPositive() {
		m.WinMultiplier.Observe(win.Div(bet).InexactFloat64())
	}
	if freeSpins > 0 {
		m.FeatureTriggers.WithLabelValues(FeatureFreeSpins).Inc()
	}
	if bonus {
		m.FeatureTriggers.WithLabelValues(FeatureBonus).Inc()
	}
}

// ObserveSpinError 记录失败的旋转
func (m *Metrics) ObserveSpinError(reason string) {
	if m == nil {
		return
	}
	m.SpinErrors.WithLabelValues(reason).Inc()
}

// ObserveSeedRotation 记录种子轮换
func (m *Metrics) ObserveSeedRotation() {
	if m == nil {
		return
	}
	m.SeedRotations.Inc()
}

// ObserveTableReload 记录配置表重载结果
func (m *Metrics) ObserveTableReload(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.TableReloads.WithLabelValues(result).Inc()
}

// Middleware HTTP请求指标中间件，路径使用路由模板避免标签爆炸
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestLatency.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

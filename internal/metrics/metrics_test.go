package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestObserveSpin(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSpin(decimal.NewFromInt(2), decimal.NewFromInt(30), 10, false)
	m.ObserveSpin(decimal.NewFromInt(2), decimal.Zero, 0, true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SpinsTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.BetAmount))
	assert.Equal(t, 30.0, testutil.ToFloat64(m.WinAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeatureTriggers.WithLabelValues(FeatureFreeSpins)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FeatureTriggers.WithLabelValues(FeatureBonus)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.WinMultiplier))
}

func TestObserveOthers(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSpinError("invalid_bet")
	m.ObserveSeedRotation()
	m.ObserveTableReload(nil)
	m.ObserveTableReload(errors.New("bad"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SpinErrors.WithLabelValues("invalid_bet")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeedRotations))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TableReloads.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TableReloads.WithLabelValues("failure")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSpin(decimal.NewFromInt(1), decimal.Zero, 0, false)
		m.ObserveSpinError("x")
		m.ObserveSeedRotation()
		m.ObserveTableReload(nil)
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/items/1", "/items/2", "/nope"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

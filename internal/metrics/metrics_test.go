package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSubmission(t *testing.T) {
	m := New()

	m.ObserveSubmission(OutcomeSuccess)
	m.ObserveSubmission(OutcomeSuccess)
	m.ObserveSubmission(OutcomeRemoteError)

	if got := testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues(OutcomeSuccess)); got != 2 {
		t.Errorf("expected 2 successful submissions, got %v", got)
	}
	if got := testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues(OutcomeRemoteError)); got != 1 {
		t.Errorf("expected 1 remote error, got %v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission(OutcomeSuccess)
	m.ObservePrediction(time.Second)
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	router := gin.New()
	router.Use(m.GinMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ping", "200")); got != 1 {
		t.Errorf("expected 1 counted request, got %v", got)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "mbs_pricing_ui_http_requests_total") {
		t.Error("metrics output is missing the request counter")
	}
}

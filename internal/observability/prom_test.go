package observability_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/usershub/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestProm_CountsRequestsByRoute(t *testing.T) {
	p := observability.NewProm(prometheus.NewRegistry())

	r := gin.New()
	r.Use(p.GinHandleMiddleware())
	r.GET("/users/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	for _, id := range []string{"a", "b"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id, nil))
	}

	got := testutil.ToFloat64(p.RequestsTotal.WithLabelValues(http.MethodGet, "/users/:id", "200"))
	if got != 2 {
		t.Fatalf("requests_total: got %v want 2", got)
	}
}

func TestProm_ObserveDBClassifiesErrors(t *testing.T) {
	p := observability.NewProm(prometheus.NewRegistry())

	err := p.ObserveDB("users.find", func() error { return errors.New("dial tcp: connection refused") })
	if err == nil {
		t.Fatalf("expected error to be returned unchanged")
	}

	got := testutil.ToFloat64(p.DbErrorsTotal.WithLabelValues("users.find", "connection"))
	if got != 1 {
		t.Fatalf("errors_total{class=connection}: got %v want 1", got)
	}
}

func TestProm_HandlerExposesMetrics(t *testing.T) {
	p := observability.NewProm(prometheus.NewRegistry())
	_ = p.ObserveDB("users.insert", func() error { return nil })

	w := httptest.NewRecorder()
	p.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "usershub_db_query_duration_seconds") {
		t.Fatalf("db histogram missing from exposition:\n%s", w.Body.String())
	}
}

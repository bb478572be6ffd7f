package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndPathFallback(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Metrics())
	r.GET("/dispatch", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// Baselines first; collectors are process-global across tests.
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/dispatch", "200"))
	base404 := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ghost", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dispatch", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /dispatch -> %d", w.Code)
	}

	// Unmatched route falls back to the raw URL path label.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ghost", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /ghost -> %d", w.Code)
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/dispatch", "200")); got != baseOK+1 {
		t.Fatalf("counter /dispatch 200 = %v; want %v", got, baseOK+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/ghost", "404")); got != base404+1 {
		t.Fatalf("counter 404 fallback = %v; want %v", got, base404+1)
	}
	if inFlight := testutil.ToFloat64(httpInflight); inFlight != 0 {
		t.Fatalf("httpInflight = %v; want 0", inFlight)
	}
}

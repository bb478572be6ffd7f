package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// captureLogs redirects the global zerolog logger into a buffer for one test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = orig })
	return &buf
}

func redactRouter(opts RedactOptions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedactingLogger(opts))
	r.GET("/feed", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestRedactingLogger_ScrubsPIIFromQuery(t *testing.T) {
	buf := captureLogs(t)
	r := redactRouter(RedactOptions{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/feed?email=alice%40example.com&ref=123e4567-e89b-12d3-a456-426614174000&tel=%2B30+210+1234+5678", nil)
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "alice@example.com") {
		t.Fatalf("email leaked: %s", out)
	}
	if strings.Contains(out, "123e4567-e89b-12d3-a456-426614174000") {
		t.Fatalf("uuid leaked: %s", out)
	}
	if strings.Contains(out, "1234 5678") {
		t.Fatalf("phone leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED:email]") ||
		!strings.Contains(out, "[REDACTED:id]") ||
		!strings.Contains(out, "[REDACTED:phone]") {
		t.Fatalf("redaction markers missing: %s", out)
	}
	if !strings.Contains(out, "http_request") {
		t.Fatalf("access log line missing: %s", out)
	}
}

func TestRedactingLogger_MasksSensitiveHeaders(t *testing.T) {
	buf := captureLogs(t)
	r := redactRouter(RedactOptions{MaskHeaders: []string{"X-User-ID"}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	req.Header.Set("Authorization", "Bearer super-secret-token")
	req.Header.Set("X-User-ID", "user-77")
	r.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "super-secret-token") {
		t.Fatalf("authorization value leaked: %s", out)
	}
	if strings.Contains(out, "user-77") {
		t.Fatalf("masked custom header leaked: %s", out)
	}
	if !strings.Contains(out, "[REDACTED]") {
		t.Fatalf("mask marker missing: %s", out)
	}
}

func TestRedactingLogger_LevelFollowsStatus(t *testing.T) {
	buf := captureLogs(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RedactingLogger(RedactOptions{}))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Fatalf("4xx should log at warn: %s", buf.String())
	}

	buf.Reset()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/broken", nil))
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("5xx should log at error: %s", buf.String())
	}
}

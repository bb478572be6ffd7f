package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func secRouter(opt SecurityOptions, pre gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := secRouter(SecurityOptions{}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing nosniff")
	}
	if h.Get("X-Frame-Options") != "DENY" {
		t.Fatal("missing frame denial")
	}
	if h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatal("missing referrer policy")
	}
	// Opt-in headers absent by default
	if h.Get("Permissions-Policy") != "" || h.Get("Cache-Control") != "" {
		t.Fatal("opt-in headers set without options")
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS set without option")
	}
}

func TestSecurityHeaders_OptIns(t *testing.T) {
	r := secRouter(SecurityOptions{NoStore: true, EnablePolicy: true}, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	h := w.Header()
	if h.Get("Cache-Control") != "no-store" {
		t.Fatal("NoStore not applied")
	}
	if h.Get("Permissions-Policy") == "" {
		t.Fatal("EnablePolicy not applied")
	}
}

func TestSecurityHeaders_HSTSOnlyOnHTTPS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour}

	// Plain HTTP: no HSTS
	r := secRouter(opt, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("HSTS advertised on plain HTTP")
	}

	// Proxied HTTPS via X-Forwarded-Proto
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	r.ServeHTTP(w, req)
	hsts := w.Header().Get("Strict-Transport-Security")
	if !strings.Contains(hsts, "max-age=3600") {
		t.Fatalf("HSTS = %q; want max-age=3600", hsts)
	}
}

func TestSecurityHeaders_ExposesRequestID(t *testing.T) {
	// RequestID runs first so the header exists when SecurityHeaders looks.
	r := secRouter(SecurityOptions{}, RequestID())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("Access-Control-Expose-Headers"); !strings.Contains(got, "X-Request-ID") {
		t.Fatalf("Access-Control-Expose-Headers = %q", got)
	}
}

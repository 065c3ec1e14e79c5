package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-backend/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func TestRequestLoggerLevels(t *testing.T) {
	log, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	want := map[string]zapcore.Level{
		"/ok":   zapcore.InfoLevel,
		"/bad":  zapcore.WarnLevel,
		"/boom": zapcore.ErrorLevel,
	}
	for path := range want {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	entries := logs.FilterMessage("HTTP request").All()
	if len(entries) != len(want) {
		t.Fatalf("expected %d log lines, got %d", len(want), len(entries))
	}
	for _, e := range entries {
		path, _ := e.ContextMap()["path"].(string)
		if e.Level != want[path] {
			t.Errorf("%s: expected level %s, got %s", path, want[path], e.Level)
		}
	}
}

func TestRequestLoggerUsesRoutePattern(t *testing.T) {
	log, logs := observedLogger()

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/items/42", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log line, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/items/:id" {
		t.Errorf("expected route pattern, got %v", fields["path"])
	}
	if fields["method"] != "GET" {
		t.Errorf("expected method GET, got %v", fields["method"])
	}
}

func TestRequestLoggerNilLogger(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(nil))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

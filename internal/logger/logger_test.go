package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestParseLevel(t *testing.T) {
	if parseLevel("DEBUG") != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
	if parseLevel("nonsense") != slog.LevelInfo {
		t.Fatalf("expected info as fallback")
	}
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	l := &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil)), output: &buf}

	r := gin.New()
	r.Use(l.GinMiddleware())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id header")
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not json: %v", err)
	}
	if entry["path"] != "/health" {
		t.Fatalf("expected path /health, got %v", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Fatalf("expected status 200, got %v", entry["status"])
	}
}

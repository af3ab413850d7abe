package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/unienroll/internal/config"
)

func TestNewServesMemoryBackend(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Mode = "test"

	srv, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Shutdown(context.Background())

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"store":"memory"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/courses/", nil)
	req.Header.Set("X-API-KEY", cfg.API.Key)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Data Structures") {
		t.Fatalf("seeded courses = %d %s", w.Code, w.Body.String())
	}
}

func TestShutdownWithoutRun(t *testing.T) {
	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	srv, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown = %v", err)
	}
}

func TestRunStopsWhenContextCanceled(t *testing.T) {
	cfg, err := config.LoadConfig("does-not-exist.yaml")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Server.Port = "0"
	srv, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

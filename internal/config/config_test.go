package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Store.Driver != DriverMemory || !cfg.Store.SeedDemo {
		t.Fatalf("store defaults = %+v", cfg.Store)
	}
	if cfg.API.Key != "secret123" || cfg.Server.Port != "8000" {
		t.Fatalf("defaults = %+v / %+v", cfg.API, cfg.Server)
	}
}

func TestLoadConfigYAMLThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
  allowed_origins: ["http://localhost:5173"]
store:
  driver: postgres
  seed_demo: false
database:
  host: db.internal
  max_open_conns: 4
api:
  key: from-file
`)
	t.Setenv("API_KEY", "from-env")
	t.Setenv("DB_MAX_OPEN_CONNS", "12")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s", cfg.Server.Port)
	}
	if cfg.API.Key != "from-env" {
		t.Errorf("api key = %s", cfg.API.Key)
	}
	if cfg.Database.MaxOpenConns != 12 || cfg.Database.Host != "db.internal" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Store.SeedDemo {
		t.Errorf("seed_demo should be false")
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{"unknown driver", "store:\n  driver: sqlite\n", nil, "unknown store driver"},
		{"empty key", "api:\n  key: \"\"\n", nil, "api key is required"},
		{"bad latency", "", map[string]string{"STORE_LATENCY": "soon"}, "invalid store latency"},
		{"bad int", "", map[string]string{"DB_MAX_IDLE_CONNS": "many"}, "DB_MAX_IDLE_CONNS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestConnectionString(t *testing.T) {
	d := DatabaseConfig{User: "u", Password: "p", Host: "h", Port: "5432", DBName: "db"}
	if got := d.ConnectionString(); got != "postgres://u:p@h:5432/db?sslmode=disable" {
		t.Fatalf("dsn = %s", got)
	}
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServer(t *testing.T) {
	yaml := `
server:
  listen_addr: ":6000"
  admin_addr: ":6001"
  max_workers: 4
store:
  driver: postgres
database:
  host: localhost
  port: 5432
  name: tickerwatch
  user: testuser
  password: testpass
dedup:
  ttl: 2m
  capacity: 50
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}

	if cfg.Server.ListenAddr != ":6000" {
		t.Errorf("Server.ListenAddr = %q, want %q", cfg.Server.ListenAddr, ":6000")
	}
	if cfg.Server.MaxWorkers != 4 {
		t.Errorf("Server.MaxWorkers = %d, want %d", cfg.Server.MaxWorkers, 4)
	}
	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("Store.Driver = %q, want %q", cfg.Store.Driver, StoreDriverPostgres)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %q, want %q", cfg.Database.Host, "localhost")
	}
	if cfg.Dedup.TTL != 2*time.Minute {
		t.Errorf("Dedup.TTL = %v, want %v", cfg.Dedup.TTL, 2*time.Minute)
	}
	if cfg.Dedup.Capacity != 50 {
		t.Errorf("Dedup.Capacity = %d, want %d", cfg.Dedup.Capacity, 50)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
store:
  driver: postgres
database:
  host: localhost
  name: tickerwatch
  user: testuser
  password: ${TEST_DB_PASSWORD}
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadServer(path)
	if err != nil {
		t.Fatalf("LoadServer failed: %v", err)
	}

	if cfg.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want %q", cfg.Database.Password, "secret123")
	}
}

func TestLoadServerAndValidate_Defaults(t *testing.T) {
	cfg, err := LoadServerAndValidate("")
	if err != nil {
		t.Fatalf("LoadServerAndValidate failed: %v", err)
	}

	if cfg.Server.ListenAddr != DefaultListenAddr {
		t.Errorf("Server.ListenAddr = %q, want default %q", cfg.Server.ListenAddr, DefaultListenAddr)
	}
	if cfg.Store.Driver != StoreDriverMemory {
		t.Errorf("Store.Driver = %q, want default %q", cfg.Store.Driver, StoreDriverMemory)
	}
	if cfg.Dedup.TTL != 600*time.Second {
		t.Errorf("Dedup.TTL = %v, want %v", cfg.Dedup.TTL, 600*time.Second)
	}
	if cfg.Dedup.Capacity != 10000 {
		t.Errorf("Dedup.Capacity = %d, want %d", cfg.Dedup.Capacity, 10000)
	}
	if cfg.Database.Port != DefaultDBPort {
		t.Errorf("Database.Port = %d, want default %d", cfg.Database.Port, DefaultDBPort)
	}
}

func TestLoadClientAndValidate_Defaults(t *testing.T) {
	cfg, err := LoadClientAndValidate("")
	if err != nil {
		t.Fatalf("LoadClientAndValidate failed: %v", err)
	}

	if cfg.Server.Addr != DefaultServerAddr {
		t.Errorf("Server.Addr = %q, want default %q", cfg.Server.Addr, DefaultServerAddr)
	}
	if cfg.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want %d", cfg.Retry.MaxAttempts, 5)
	}
	if cfg.Retry.AttemptTimeout != 5*time.Second {
		t.Errorf("Retry.AttemptTimeout = %v, want %v", cfg.Retry.AttemptTimeout, 5*time.Second)
	}
	if cfg.Retry.Delay != 5*time.Second {
		t.Errorf("Retry.Delay = %v, want %v", cfg.Retry.Delay, 5*time.Second)
	}
}

func TestLoadClient(t *testing.T) {
	yaml := `
server:
  addr: quotes.internal:50051
retry:
  max_attempts: 3
  attempt_timeout: 2s
  delay: 500ms
`
	path := writeTempFile(t, yaml)

	cfg, err := LoadClientAndValidate(path)
	if err != nil {
		t.Fatalf("LoadClientAndValidate failed: %v", err)
	}
	if cfg.Server.Addr != "quotes.internal:50051" {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, "quotes.internal:50051")
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Errorf("Retry.MaxAttempts = %d, want %d", cfg.Retry.MaxAttempts, 3)
	}
	if cfg.Retry.Delay != 500*time.Millisecond {
		t.Errorf("Retry.Delay = %v, want %v", cfg.Retry.Delay, 500*time.Millisecond)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("TICKERWATCH_DOTENV_TEST=from-file\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("TICKERWATCH_DOTENV_TEST") })

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv failed: %v", err)
	}
	if got := os.Getenv("TICKERWATCH_DOTENV_TEST"); got != "from-file" {
		t.Errorf("TICKERWATCH_DOTENV_TEST = %q, want %q", got, "from-file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() ServerConfig {
		cfg := ServerConfig{}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ServerConfig)
		wantErr string
	}{
		{
			name:    "defaults",
			mutate:  func(*ServerConfig) {},
			wantErr: "",
		},
		{
			name:    "unknown driver",
			mutate:  func(c *ServerConfig) { c.Store.Driver = "sqlite" },
			wantErr: `store.driver must be "postgres" or "memory", got "sqlite"`,
		},
		{
			name:    "postgres missing host",
			mutate:  func(c *ServerConfig) { c.Store.Driver = StoreDriverPostgres },
			wantErr: "database.host is required",
		},
		{
			name: "postgres url wins over fields",
			mutate: func(c *ServerConfig) {
				c.Store.Driver = StoreDriverPostgres
				c.Database.URL = "postgres://u:p@db:5432/x"
			},
			wantErr: "",
		},
		{
			name: "postgres missing password",
			mutate: func(c *ServerConfig) {
				c.Store.Driver = StoreDriverPostgres
				c.Database.Host = "localhost"
				c.Database.Name = "db"
				c.Database.User = "user"
			},
			wantErr: "database.password is required",
		},
		{
			name: "min_conns exceeds max_conns",
			mutate: func(c *ServerConfig) {
				c.Store.Driver = StoreDriverPostgres
				c.Database = DBConfig{Host: "localhost", Name: "db", User: "user", Password: "pass", MaxConns: 5, MinConns: 10}
			},
			wantErr: "database.min_conns (10) cannot exceed max_conns (5)",
		},
		{
			name:    "zero capacity",
			mutate:  func(c *ServerConfig) { c.Dedup.Capacity = -1 },
			wantErr: "dedup.capacity must be >= 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func TestClientValidate(t *testing.T) {
	cfg := ClientConfig{}
	cfg.applyDefaults()
	cfg.Retry.MaxAttempts = -2

	err := cfg.Validate()
	if err == nil || err.Error() != "retry.max_attempts must be >= 1, got -2" {
		t.Errorf("Validate() error = %v, want max_attempts error", err)
	}
}

func TestLogConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := (LogConfig{Level: tt.level}).SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

package config

import (
	"log/slog"
	"time"
)

// ServerConfig is the root configuration for the subscription server.
type ServerConfig struct {
	Server   ListenConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
	Database DBConfig     `yaml:"database"`
	Dedup    DedupConfig  `yaml:"dedup"`
	Log      LogConfig    `yaml:"log"`
}

// ListenConfig holds the network surface of the server.
type ListenConfig struct {
	ListenAddr           string        `yaml:"listen_addr"`            // gRPC listener
	AdminAddr            string        `yaml:"admin_addr"`             // health + metrics HTTP listener
	MaxWorkers           uint32        `yaml:"max_workers"`            // gRPC stream workers
	MaxConcurrentStreams uint32        `yaml:"max_concurrent_streams"` // per-connection cap
	ShutdownTimeout      time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig selects the Store Gateway implementation.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "postgres" or "memory"
}

// DBConfig holds a single database connection.
// URL, when set, takes precedence over the discrete fields.
type DBConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// DedupConfig holds the request deduplication cache settings.
type DedupConfig struct {
	TTL           time.Duration `yaml:"ttl"`
	Capacity      int           `yaml:"capacity"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// SlogLevel parses Level, falling back to info.
func (l LogConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// ClientConfig is the root configuration for the command-line client.
type ClientConfig struct {
	Server ServerAddrConfig `yaml:"server"`
	Retry  RetryConfig      `yaml:"retry"`
	Log    LogConfig        `yaml:"log"`
}

// ServerAddrConfig locates the server.
type ServerAddrConfig struct {
	Addr string `yaml:"addr"`
}

// RetryConfig holds the client retry discipline.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	Delay          time.Duration `yaml:"delay"`
}

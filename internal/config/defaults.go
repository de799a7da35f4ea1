package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultListenAddr           = ":50051"
	DefaultAdminAddr            = ":9090"
	DefaultMaxWorkers           = 10
	DefaultMaxConcurrentStreams = 100
	DefaultShutdownTimeout      = 10 * time.Second
	DefaultStoreDriver          = StoreDriverMemory
	DefaultDBPort               = 5432
	DefaultDBSSLMode            = "prefer"
	DefaultMaxConns             = 10
	DefaultMinConns             = 2
	DefaultDedupTTL             = 600 * time.Second
	DefaultDedupCapacity        = 10000
	DefaultPurgeInterval        = time.Minute
	DefaultLogLevel             = "info"

	DefaultServerAddr     = "localhost:50051"
	DefaultMaxAttempts    = 5
	DefaultAttemptTimeout = 5 * time.Second
	DefaultRetryDelay     = 5 * time.Second
)

// Store drivers.
const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

func (c *ServerConfig) applyDefaults() {
	// Listener defaults
	if c.Server.ListenAddr == "" {
		c.Server.ListenAddr = DefaultListenAddr
	}
	if c.Server.AdminAddr == "" {
		c.Server.AdminAddr = DefaultAdminAddr
	}
	if c.Server.MaxWorkers == 0 {
		c.Server.MaxWorkers = DefaultMaxWorkers
	}
	if c.Server.MaxConcurrentStreams == 0 {
		c.Server.MaxConcurrentStreams = DefaultMaxConcurrentStreams
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DefaultStoreDriver
	}

	applyDBDefaults(&c.Database)

	// Dedup defaults
	if c.Dedup.TTL == 0 {
		c.Dedup.TTL = DefaultDedupTTL
	}
	if c.Dedup.Capacity == 0 {
		c.Dedup.Capacity = DefaultDedupCapacity
	}
	if c.Dedup.PurgeInterval == 0 {
		c.Dedup.PurgeInterval = DefaultPurgeInterval
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}

func (c *ClientConfig) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = DefaultMaxAttempts
	}
	if c.Retry.AttemptTimeout == 0 {
		c.Retry.AttemptTimeout = DefaultAttemptTimeout
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = DefaultRetryDelay
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
}

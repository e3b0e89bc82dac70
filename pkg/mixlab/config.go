package mixlab

import (
	"time"

	"github.com/mixlab/mixlab/pkg/mixlab/storage"
)

type Config struct {
	DBPath       string
	PoolSize     int
	QueryTimeout time.Duration // 0 means no limit
	StrictExec   bool
	EscapeHTML   bool
	Logger       Logger
	Storage      Storage
}

type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithPoolSize(size int) Option {
	return func(c *Config) {
		c.PoolSize = size
	}
}

// WithQueryTimeout interrupts statements that run longer than d.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.QueryTimeout = d
	}
}

// WithStrictExec makes a statement that compiles but fails to execute report
// an error instead of success.
func WithStrictExec(strict bool) Option {
	return func(c *Config) {
		c.StrictExec = strict
	}
}

// WithEscapeHTML escapes result values before they are embedded in pages.
func WithEscapeHTML(escape bool) Option {
	return func(c *Config) {
		c.EscapeHTML = escape
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:   storage.DefaultDBFile,
		PoolSize: storage.DefaultPoolSize,
	}
}

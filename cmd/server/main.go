package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/mixlab/mixlab/pkg/logger"
	"github.com/mixlab/mixlab/pkg/mixlab"
	"github.com/mixlab/mixlab/pkg/mixlab/storage"
)

var (
	host         string
	port         int
	dbPath       string
	poolSize     int
	queryTimeout time.Duration
	strictExec   bool
	escapeHTML   bool
)

func init() {
	flag.StringVar(&host, "host", "0.0.0.0", "Interface to listen on")
	flag.IntVar(&port, "port", 8080, "HTTP server port")
	flag.StringVar(&dbPath, "db", getEnvOrDefault("MIXLAB_DB_PATH", storage.DefaultDBFile), "Path to SQLite database")
	flag.IntVar(&poolSize, "pool", getEnvIntOrDefault("MIXLAB_POOL_SIZE", storage.DefaultPoolSize), "Number of pooled database connections")
	flag.DurationVar(&queryTimeout, "timeout", 0, "Per-query timeout (0 disables)")
	flag.BoolVar(&strictExec, "strict-exec", false, "Report execution failures of statements without result columns")
	flag.BoolVar(&escapeHTML, "escape-html", false, "HTML-escape query results")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	service := setup(log,
		mixlab.WithDBPath(dbPath),
		mixlab.WithPoolSize(poolSize),
		mixlab.WithQueryTimeout(queryTimeout),
		mixlab.WithStrictExec(strictExec),
		mixlab.WithEscapeHTML(escapeHTML),
	)
	defer service.Close()

	config := &ServerConfig{
		Host:   host,
		Port:   port,
		DBPath: dbPath,
	}

	server := NewServer(service, config)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// setup opens the database and creates the schema. Failing to open is fatal.
// A schema failure is only logged and the returned service is still usable.
func setup(log *logger.Logger, opts ...mixlab.Option) mixlab.Service {
	opts = append(opts, mixlab.WithLogger(log))
	service, err := mixlab.NewService(opts...)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
		return nil
	}

	if err := service.InitSchema(context.Background()); err != nil {
		log.Warnf("Error creating tables: %v", err)
	}
	return service
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mixlab/mixlab/pkg/logger"
	"github.com/mixlab/mixlab/pkg/mixlab"
	"github.com/mixlab/mixlab/pkg/mixlab/storage"
	"github.com/mixlab/mixlab/pkg/utils"
)

// Global flags
var (
	dbPath     string
	strictExec bool
)

func init() {
	flag.StringVar(&dbPath, "db", getEnvOrDefault("MIXLAB_DB_PATH", storage.DefaultDBFile), "Path to the SQLite database file")
	flag.BoolVar(&strictExec, "strict-exec", false, "Report execution failures of statements without result columns")
	flag.Usage = printUsage
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// createService opens the database with the global flags
func createService() (mixlab.Service, error) {
	return mixlab.NewService(
		mixlab.WithDBPath(dbPath),
		mixlab.WithPoolSize(1),
		mixlab.WithStrictExec(strictExec),
	)
}

func main() {
	flag.Parse()
	log := logger.GetLogger()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	log.Debugf("Executing command: %s", command)

	var code int
	switch command {
	case "init":
		code = handleInit()
	case "query":
		code = handleQuery(args[1:], os.Stdin, os.Stdout)
	case "tables":
		code = handleTables(os.Stdout)
	case "seed":
		code = handleSeed()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: mixlab [-db path] [-strict-exec] <command> [args]

Commands:
  init              Create the Artists, Songs and SongData tables
  query <sql>       Run one SQL statement (reads stdin when <sql> is omitted or "-")
  tables            Show the row count of every table
  seed              Load a small set of sample artists, songs and song data`)
}

func handleInit() int {
	log := logger.GetLogger()

	if err := utils.EnsureParentDir(dbPath); err != nil {
		log.Errorf("Failed to create database directory: %v", err)
		return 1
	}

	svc, err := createService()
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return 1
	}
	defer svc.Close()

	if err := svc.InitSchema(context.Background()); err != nil {
		log.Errorf("Error creating tables: %v", err)
		return 1
	}
	fmt.Printf("Schema ready in %s\n", svc.DBPath())
	return 0
}

func handleQuery(args []string, stdin io.Reader, stdout io.Writer) int {
	log := logger.GetLogger()

	sqlText := strings.Join(args, " ")
	if sqlText == "" || sqlText == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			log.Errorf("Failed to read SQL from stdin: %v", err)
			return 1
		}
		sqlText = string(data)
	}

	svc, err := createService()
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return 1
	}
	defer svc.Close()

	report, err := svc.RunQuery(context.Background(), sqlText)
	if err != nil {
		log.Errorf("%v", err)
		return 1
	}

	text := report.Text()
	if !strings.HasSuffix(text, "\n") && text != "" {
		text += "\n"
	}
	fmt.Fprint(stdout, text)

	if report.IsError() {
		return 1
	}
	return 0
}

func handleTables(stdout io.Writer) int {
	log := logger.GetLogger()

	svc, err := createService()
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return 1
	}
	defer svc.Close()

	stats, err := svc.TableStats(context.Background())
	if err != nil {
		log.Errorf("Failed to count rows: %v", err)
		return 1
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TABLE\tROWS\t")
	for _, stat := range stats {
		fmt.Fprintf(tw, "%s\t%s\t\n", stat.Name, humanize.Comma(stat.Rows))
	}
	tw.Flush()

	fmt.Fprintf(stdout, "\n%s (%s)\n", svc.DBPath(), humanize.Bytes(utils.FileSize(svc.DBPath())))
	return 0
}

func handleSeed() int {
	log := logger.GetLogger()

	svc, err := createService()
	if err != nil {
		log.Errorf("Failed to open database: %v", err)
		return 1
	}
	defer svc.Close()

	ctx := context.Background()
	if err := svc.InitSchema(ctx); err != nil {
		log.Errorf("Error creating tables: %v", err)
		return 1
	}
	if err := svc.Seed(ctx, sampleArtists, sampleSongs, sampleSongData); err != nil {
		log.Errorf("%v", err)
		return 1
	}
	return 0
}

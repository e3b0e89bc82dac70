package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mixlab/mixlab/pkg/logger"
	"github.com/mixlab/mixlab/pkg/mixlab"
	"github.com/mixlab/mixlab/pkg/mixlab/query"
	"github.com/mixlab/mixlab/pkg/models"
	"zombiezen.com/go/sqlite"
)

// noSchemaStorage opens fine but cannot create tables
type noSchemaStorage struct{}

var errReadOnly = errors.New("attempt to write a readonly database")

func (noSchemaStorage) WithConn(context.Context, func(*sqlite.Conn) error) error { return errReadOnly }
func (noSchemaStorage) InitSchema(context.Context) error { return errReadOnly }
func (noSchemaStorage) TableStats(context.Context) ([]models.TableStat, error) {
	return nil, errReadOnly
}
func (noSchemaStorage) Seed(context.Context, []models.Artist, []models.Song, []models.SongData) error {
	return errReadOnly
}
func (noSchemaStorage) Path() string { return "readonly.db" }
func (noSchemaStorage) Close() error { return nil }

// captureLogger writes DEBUG and INFO to io.Discard and WARN/FATAL to the returned buffer
func captureLogger(t *testing.T) (*logger.Logger, *bytes.Buffer, *int) {
	t.Helper()

	var errOut bytes.Buffer
	log := logger.New(logger.Config{Level: logger.INFO, Output: io.Discard, ErrOutput: &errOut})
	exitCode := -1
	log.SetExitFunc(func(code int) { exitCode = code })
	return log, &errOut, &exitCode
}

func TestSetupSchemaFailureOnlyWarns(t *testing.T) {
	log, errOut, exitCode := captureLogger(t)

	service := setup(log, mixlab.WithStorage(noSchemaStorage{}))
	if service == nil {
		t.Fatal("Expected setup to continue after a schema failure")
	}
	defer service.Close()

	if *exitCode != -1 {
		t.Errorf("Expected no exit, got code %d", *exitCode)
	}
	if !strings.Contains(errOut.String(), "[WARN]") || !strings.Contains(errOut.String(), "Error creating tables") {
		t.Errorf("Expected a schema warning on the error stream, got %q", errOut.String())
	}
	if service.DBPath() != "readonly.db" {
		t.Errorf("Expected the injected storage, got %s", service.DBPath())
	}
}

func TestSetupOpenFailureExits(t *testing.T) {
	log, errOut, exitCode := captureLogger(t)

	// A directory cannot be opened as a database file.
	service := setup(log, mixlab.WithDBPath(t.TempDir()))
	if service != nil {
		service.Close()
	}

	if *exitCode != 1 {
		t.Errorf("Expected exit code 1, got %d", *exitCode)
	}
	if !strings.Contains(errOut.String(), "[FATAL]") || !strings.Contains(errOut.String(), "Failed to open database") {
		t.Errorf("Expected a fatal line on the error stream, got %q", errOut.String())
	}
}

func TestSetupCreatesSchema(t *testing.T) {
	log, errOut, exitCode := captureLogger(t)

	service := setup(log, mixlab.WithDBPath(filepath.Join(t.TempDir(), "setup.db")))
	if service == nil {
		t.Fatal("Expected a service")
	}
	defer service.Close()

	if *exitCode != -1 || errOut.Len() != 0 {
		t.Errorf("Expected a clean start, got exit %d and %q", *exitCode, errOut.String())
	}

	r, err := service.RunQuery(context.Background(), `SELECT count(*) FROM Artists`)
	if err != nil {
		t.Fatalf("RunQuery failed: %v", err)
	}
	if r.Kind != query.KindRows || r.Text() != "0\n" {
		t.Errorf("Expected empty Artists table, got %s %q", r.Kind, r.Text())
	}
}

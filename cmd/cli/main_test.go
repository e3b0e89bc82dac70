package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mixlab/mixlab/pkg/logger"
)

// useTempDB points the global -db flag at a fresh database for one test
func useTempDB(t *testing.T) {
	t.Helper()

	old := dbPath
	dbPath = filepath.Join(t.TempDir(), "cli_test.db")
	t.Cleanup(func() { dbPath = old })

	logger.SetLevel(logger.FATAL)
	t.Cleanup(func() { logger.SetLevel(logger.INFO) })
}

func TestInitSeedAndTables(t *testing.T) {
	useTempDB(t)

	if code := handleInit(); code != 0 {
		t.Fatalf("init exited with %d", code)
	}
	if code := handleSeed(); code != 0 {
		t.Fatalf("seed exited with %d", code)
	}

	var out bytes.Buffer
	if code := handleTables(&out); code != 0 {
		t.Fatalf("tables exited with %d", code)
	}
	for _, want := range []string{"Artists", "Songs", "SongData"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("tables output missing %s: %q", want, out.String())
		}
	}
}

func TestInitCreatesDirectory(t *testing.T) {
	useTempDB(t)
	dbPath = filepath.Join(filepath.Dir(dbPath), "nested", "cli_test.db")

	if code := handleInit(); code != 0 {
		t.Fatalf("init exited with %d", code)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("Expected database at %s: %v", dbPath, err)
	}
}

func TestQueryCommand(t *testing.T) {
	useTempDB(t)
	if code := handleSeed(); code != 0 {
		t.Fatalf("seed exited with %d", code)
	}

	var out bytes.Buffer
	code := handleQuery([]string{"SELECT", "name, artist_tags FROM Artists WHERE artist_id = 'ar-unknown'"}, strings.NewReader(""), &out)
	if code != 0 {
		t.Fatalf("query exited with %d", code)
	}
	if out.String() != "Unknown Artist | NULL\n" {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestQueryCommandFromStdin(t *testing.T) {
	useTempDB(t)
	if code := handleInit(); code != 0 {
		t.Fatalf("init exited with %d", code)
	}

	var out bytes.Buffer
	code := handleQuery([]string{"-"}, strings.NewReader("INSERT INTO Artists VALUES ('a1','Test',NULL)"), &out)
	if code != 0 {
		t.Fatalf("query exited with %d", code)
	}
	if out.String() != "Query executed successfully.\n" {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestQueryCommandSQLError(t *testing.T) {
	useTempDB(t)

	var out bytes.Buffer
	code := handleQuery([]string{"SELEC 1"}, strings.NewReader(""), &out)
	if code != 1 {
		t.Errorf("Expected exit code 1, got %d", code)
	}
	if !strings.HasPrefix(out.String(), "SQL error: ") {
		t.Errorf("Unexpected output: %q", out.String())
	}
}

func TestSampleDataSatisfiesSchema(t *testing.T) {
	songs := make(map[string]bool)
	for _, s := range sampleSongs {
		songs[s.SongID] = true
	}
	for _, d := range sampleSongData {
		if !songs[d.SongID] {
			t.Errorf("Song data %s has no song", d.SongID)
		}
		if d.Tempo <= 0 || d.Duration <= 0 || d.Key < 0 || d.Key > 11 || d.TimeSignature <= 0 {
			t.Errorf("Song data %s violates a CHECK constraint", d.SongID)
		}
	}
}

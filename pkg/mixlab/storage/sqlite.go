package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mixlab/mixlab/pkg/models"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const DefaultDBFile = "data.db"
const DefaultPoolSize = 4
const errDBClientNil = "db client is nil"

// busyTimeoutMs bounds how long a connection waits on another writer's lock.
const busyTimeoutMs = 5000

// SchemaDDL creates the three tables. Every statement is IF NOT EXISTS so it can
// run on each startup.
const SchemaDDL = `
CREATE TABLE IF NOT EXISTS Artists (
    artist_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    artist_tags TEXT
);

CREATE TABLE IF NOT EXISTS Songs (
    song_id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    artist_id TEXT NOT NULL,
    year INT NOT NULL,
    FOREIGN KEY (artist_id) REFERENCES Artists(artist_id)
);

CREATE TABLE IF NOT EXISTS SongData (
    song_id TEXT PRIMARY KEY,
    tempo REAL CHECK (tempo > 0),
    duration REAL CHECK (duration > 0),
    key INT CHECK (key >= 0 AND key <= 11),
    mode BOOLEAN,
    time_signature INT CHECK (time_signature > 0),
    loudness REAL,
    FOREIGN KEY (song_id) REFERENCES Songs(song_id)
);
`

// SchemaTables lists the tables created by SchemaDDL in dependency order.
var SchemaTables = []string{"Artists", "Songs", "SongData"}

// DBClient owns a pool of SQLite connections. Callers never share a connection:
// each WithConn call gets one to itself for the duration of fn.
type DBClient struct {
	pool *sqlitex.Pool
	path string
}

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("MIXLAB_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath, DefaultPoolSize)
}

// NewDBClientWithPath opens the database at dbPath, creating the file if needed.
// The parent directory must already exist.
func NewDBClientWithPath(dbPath string, poolSize int) (*DBClient, error) {
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	pool, err := sqlitex.NewPool(dbPath, sqlitex.PoolOptions{
		Flags:       sqlite.OpenReadWrite | sqlite.OpenCreate | sqlite.OpenWAL,
		PoolSize:    poolSize,
		PrepareConn: ConfigureConn,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	c := &DBClient{pool: pool, path: dbPath}

	// Connections open lazily; take one now so an unopenable file fails here.
	if err := c.WithConn(context.Background(), func(*sqlite.Conn) error { return nil }); err != nil {
		pool.Close()
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	return c, nil
}

// ConfigureConn applies the per-connection pragmas. The pool runs it once for
// every connection it opens.
func ConfigureConn(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteTransient(conn, "PRAGMA foreign_keys = ON", nil); err != nil {
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	if err := sqlitex.ExecuteTransient(conn, fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeoutMs), nil); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}
	return nil
}

// CreateSchema runs SchemaDDL on conn.
func CreateSchema(conn *sqlite.Conn) error {
	if err := sqlitex.ExecuteScript(conn, SchemaDDL, nil); err != nil {
		return fmt.Errorf("creating tables: %w", err)
	}
	return nil
}

func (c *DBClient) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

// WithConn takes a connection from the pool, runs fn with it and returns it.
// ctx bounds both the wait for a free connection and the statements fn runs.
func (c *DBClient) WithConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error {
	if c == nil || c.pool == nil {
		return errors.New(errDBClientNil)
	}
	conn, err := c.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("taking connection: %w", err)
	}
	defer c.pool.Put(conn)

	err = fn(conn)
	if resetErr := resetConn(conn); resetErr != nil {
		return errors.Join(err, resetErr)
	}
	return err
}

// resetConn clears session state a caller may have left on conn before it goes
// back to the pool: an open transaction is rolled back and the pragmas are
// reapplied.
func resetConn(conn *sqlite.Conn) error {
	conn.SetInterrupt(nil)
	if !conn.AutocommitEnabled() {
		if err := sqlitex.ExecuteTransient(conn, "ROLLBACK", nil); err != nil {
			return fmt.Errorf("rolling back open transaction: %w", err)
		}
	}
	return ConfigureConn(conn)
}

func (c *DBClient) InitSchema(ctx context.Context) error {
	return c.WithConn(ctx, CreateSchema)
}

// TableStats counts the rows of every schema table.
func (c *DBClient) TableStats(ctx context.Context) ([]models.TableStat, error) {
	stats := make([]models.TableStat, 0, len(SchemaTables))
	err := c.WithConn(ctx, func(conn *sqlite.Conn) error {
		for _, table := range SchemaTables {
			stat := models.TableStat{Name: table}
			err := sqlitex.ExecuteTransient(conn, fmt.Sprintf(`SELECT count(*) FROM "%s"`, table), &sqlitex.ExecOptions{
				ResultFunc: func(stmt *sqlite.Stmt) error {
					stat.Rows = stmt.ColumnInt64(0)
					return nil
				},
			})
			if err != nil {
				return fmt.Errorf("counting %s: %w", table, err)
			}
			stats = append(stats, stat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// Seed inserts the given rows in a single savepoint. Rows whose primary key
// already exists are left untouched.
func (c *DBClient) Seed(ctx context.Context, artists []models.Artist, songs []models.Song, data []models.SongData) error {
	return c.WithConn(ctx, func(conn *sqlite.Conn) (err error) {
		defer sqlitex.Save(conn)(&err)

		for _, a := range artists {
			var tags any
			if a.Tags != "" {
				tags = a.Tags
			}
			if err := sqlitex.Execute(conn,
				`INSERT OR IGNORE INTO Artists (artist_id, name, artist_tags) VALUES (?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{a.ArtistID, a.Name, tags}}); err != nil {
				return fmt.Errorf("inserting artist %s: %w", a.ArtistID, err)
			}
		}

		for _, s := range songs {
			if err := sqlitex.Execute(conn,
				`INSERT OR IGNORE INTO Songs (song_id, title, artist_id, year) VALUES (?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{s.SongID, s.Title, s.ArtistID, s.Year}}); err != nil {
				return fmt.Errorf("inserting song %s: %w", s.SongID, err)
			}
		}

		for _, d := range data {
			if err := sqlitex.Execute(conn,
				`INSERT OR IGNORE INTO SongData (song_id, tempo, duration, key, mode, time_signature, loudness)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				&sqlitex.ExecOptions{Args: []any{d.SongID, d.Tempo, d.Duration, d.Key, d.Mode, d.TimeSignature, d.Loudness}}); err != nil {
				return fmt.Errorf("inserting song data %s: %w", d.SongID, err)
			}
		}

		return nil
	})
}

func (c *DBClient) Close() error {
	if c == nil || c.pool == nil {
		return nil
	}
	return c.pool.Close()
}

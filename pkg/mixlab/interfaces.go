package mixlab

import (
	"context"

	"github.com/mixlab/mixlab/pkg/mixlab/query"
	"github.com/mixlab/mixlab/pkg/models"
	"zombiezen.com/go/sqlite"
)

// Service runs ad-hoc SQL against the Mixlab database.
type Service interface {
	// RunQuery executes the first statement of sqlText and returns its report.
	// SQL failures are part of the report; the error is reserved for failures
	// to reach the database at all.
	RunQuery(ctx context.Context, sqlText string) (*query.Report, error)
	InitSchema(ctx context.Context) error
	TableStats(ctx context.Context) ([]models.TableStat, error)
	Seed(ctx context.Context, artists []models.Artist, songs []models.Song, data []models.SongData) error
	DBPath() string
	Close() error
}

type Storage interface {
	WithConn(ctx context.Context, fn func(conn *sqlite.Conn) error) error
	InitSchema(ctx context.Context) error
	TableStats(ctx context.Context) ([]models.TableStat, error)
	Seed(ctx context.Context, artists []models.Artist, songs []models.Song, data []models.SongData) error
	Path() string
	Close() error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}

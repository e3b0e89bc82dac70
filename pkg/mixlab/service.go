package mixlab

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mixlab/mixlab/pkg/logger"
	"github.com/mixlab/mixlab/pkg/mixlab/query"
	"github.com/mixlab/mixlab/pkg/mixlab/storage"
	"github.com/mixlab/mixlab/pkg/models"
	"zombiezen.com/go/sqlite"
)

// mixlabService is the default implementation of the Service interface.
type mixlabService struct {
	storage Storage
	log     Logger
	config  *Config
}

// NewService opens the database and returns a Service. The schema is not
// touched; call InitSchema for that.
func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	var stor Storage
	if cfg.Storage != nil {
		stor = cfg.Storage
	} else {
		db, err := storage.NewDBClientWithPath(cfg.DBPath, cfg.PoolSize)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		stor = db
	}

	return &mixlabService{
		storage: stor,
		log:     cfg.Logger,
		config:  cfg,
	}, nil
}

func (s *mixlabService) RunQuery(ctx context.Context, sqlText string) (*query.Report, error) {
	if s.config.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.QueryTimeout)
		defer cancel()
	}

	opts := query.Options{
		StrictExec: s.config.StrictExec,
		EscapeHTML: s.config.EscapeHTML,
	}

	var report *query.Report
	start := time.Now()
	err := s.storage.WithConn(ctx, func(conn *sqlite.Conn) error {
		conn.SetInterrupt(ctx.Done())
		report = query.Run(conn, sqlText, opts)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to run query: %w", err)
	}

	s.logReport(report, time.Since(start))
	return report, nil
}

func (s *mixlabService) logReport(r *query.Report, elapsed time.Duration) {
	elapsed = elapsed.Round(time.Microsecond)
	switch r.Kind {
	case query.KindRows:
		s.log.Infof("Query returned %s rows in %s", humanize.Comma(int64(len(r.Rows))), elapsed)
	case query.KindExec:
		s.log.Infof("Statement executed in %s, %s rows changed", elapsed, humanize.Comma(int64(r.Changes)))
	default:
		s.log.Warnf("Query failed (%s): %s", r.Kind, r.Message)
	}
	if r.Trailing > 0 {
		s.log.Debugf("Ignored %s after the first statement", humanize.Bytes(uint64(r.Trailing)))
	}
}

func (s *mixlabService) InitSchema(ctx context.Context) error {
	if err := s.storage.InitSchema(ctx); err != nil {
		return err
	}
	s.log.Debugf("Schema ready in %s", s.storage.Path())
	return nil
}

func (s *mixlabService) TableStats(ctx context.Context) ([]models.TableStat, error) {
	return s.storage.TableStats(ctx)
}

func (s *mixlabService) Seed(ctx context.Context, artists []models.Artist, songs []models.Song, data []models.SongData) error {
	if err := s.storage.Seed(ctx, artists, songs, data); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	s.log.Infof("Seeded %d artists, %d songs, %d song data rows", len(artists), len(songs), len(data))
	return nil
}

func (s *mixlabService) DBPath() string {
	return s.storage.Path()
}

func (s *mixlabService) Close() error {
	return s.storage.Close()
}

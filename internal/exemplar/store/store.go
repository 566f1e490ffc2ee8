package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

// DefaultBatchSize is how many rows go into one INSERT statement.
const DefaultBatchSize = 500

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Store is the persistence the exemplar module runs on.
type Store interface {
	usecase.Store
	Migrate(ctx context.Context) error
	Close() error
}

type Config struct {
	Driver    string
	URL       string
	BatchSize int
}

// Open connects the configured driver. It does not migrate.
func Open(ctx context.Context, cfg Config, ids pkguid.NumberID) (Store, error) {
	batch := cfg.BatchSize
	if batch < 1 {
		batch = DefaultBatchSize
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres:
		return NewPostgres(ctx, cfg.URL, batch)
	case DriverSQLite:
		return NewSQLite(cfg.URL, batch)
	case DriverMemory, "":
		return NewInMemoryStore(ids), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

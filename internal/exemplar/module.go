package exemplar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/artifact"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/inbound"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/store"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/usecase"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	NumberID  pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Config == nil || dep.Router == nil {
		return nil, errors.New("exemplar: config and router are required")
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	opts, err := Options(dep.Config)
	if err != nil {
		return nil, err
	}

	storage, err := OpenStore(dep.Context, dep.Config, dep.NumberID)
	if err != nil {
		return nil, err
	}
	if err := storage.Migrate(dep.Context); err != nil {
		_ = storage.Close()
		return nil, fmt.Errorf("exemplar: migrate: %w", err)
	}

	writer, err := artifact.NewLocalWriter(dep.Config.GetString("exemplar.output_dir"))
	if err != nil {
		_ = storage.Close()
		return nil, err
	}

	var mirror usecase.Mirror
	if dep.Config.GetBool("storage.s3.enabled") {
		s3, err := artifact.NewS3Mirror(
			dep.Config.GetString("storage.s3.region"),
			dep.Config.GetString("storage.s3.bucket"),
			dep.Config.GetString("storage.s3.prefix"),
		)
		if err != nil {
			_ = storage.Close()
			return nil, err
		}
		mirror = s3
	}

	var runner usecase.Runner
	if dep.Goroutine != nil {
		runner = dep.Goroutine
	}

	uc := usecase.New(usecase.Dependency{
		Store:     storage,
		Artifacts: writer,
		Mirror:    mirror,
		Runner:    runner,
		ID:        dep.ID,
		Options:   opts,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.GetInt("exemplar.max_upload_mb")<<20)

	slog.Info("exemplar module ready",
		"driver", dep.Config.GetString("database.driver"),
		"output_dir", writer.Dir(),
		"s3_mirror", mirror != nil,
	)

	return func(context.Context) error {
		return storage.Close()
	}, nil
}

// Options reads the transformation settings.
func Options(cfg pkgconfig.Config) (usecase.Options, error) {
	policy, err := usecase.ParsePolicy(cfg.GetString("exemplar.unmatched_policy"))
	if err != nil {
		return usecase.Options{}, fmt.Errorf("exemplar: %w", err)
	}

	return usecase.Options{
		GapRows: int(cfg.GetInt("exemplar.gap_rows")),
		Policy:  policy,
	}, nil
}

// OpenStore connects the configured database driver.
func OpenStore(ctx context.Context, cfg pkgconfig.Config, ids pkguid.NumberID) (store.Store, error) {
	if ids == nil {
		node, err := pkguid.NewSnowflake()
		if err != nil {
			return nil, err
		}
		ids = node
	}

	s, err := store.Open(ctx, store.Config{
		Driver:    strings.TrimSpace(cfg.GetString("database.driver")),
		URL:       cfg.GetString("database.url"),
		BatchSize: int(cfg.GetInt("database.batch_size")),
	}, ids)
	if err != nil {
		return nil, fmt.Errorf("exemplar: open store: %w", err)
	}

	return s, nil
}

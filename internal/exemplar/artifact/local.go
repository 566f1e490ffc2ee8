package artifact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
)

// LocalWriter writes artifacts into a directory on local disk.
type LocalWriter struct {
	dir string
}

// NewLocalWriter creates dir when missing.
func NewLocalWriter(dir string) (*LocalWriter, error) {
	if dir == "" {
		return nil, errors.New("artifact: output dir is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create %s: %w", abs, err)
	}

	return &LocalWriter{dir: abs}, nil
}

// Dir returns the absolute output directory.
func (w *LocalWriter) Dir() string {
	return w.dir
}

type staged struct {
	tmp string
	art entity.Artifact
}

// Write stages every artifact in a temp file first and renames them into
// place only when all were staged. On a staging failure the temp files are
// removed and no output file is touched.
func (w *LocalWriter) Write(ctx context.Context, artifacts []entity.Artifact) ([]entity.WrittenArtifact, error) {
	stages := make([]staged, 0, len(artifacts))
	cleanup := func() {
		for _, s := range stages {
			_ = os.Remove(s.tmp)
		}
	}

	for _, art := range artifacts {
		if err := ctx.Err(); err != nil {
			cleanup()
			return nil, err
		}

		tmp, err := stage(w.dir, art)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("artifact: stage %s: %w", art.Name, err)
		}
		stages = append(stages, staged{tmp: tmp, art: art})
	}

	written := make([]entity.WrittenArtifact, 0, len(stages))
	for i, s := range stages {
		dst := filepath.Join(w.dir, s.art.Name)
		if err := os.Rename(s.tmp, dst); err != nil {
			stages = stages[i:]
			cleanup()
			return nil, fmt.Errorf("artifact: move %s into place: %w", s.art.Name, err)
		}

		file := entity.WrittenArtifact{
			Name:     s.art.Name,
			Path:     dst,
			Checksum: Checksum(s.art.Data),
			Size:     int64(len(s.art.Data)),
			Rows:     s.art.Rows,
		}
		written = append(written, file)

		slog.InfoContext(ctx, "output file written",
			"file", file.Path,
			"size", humanize.Bytes(uint64(file.Size)),
			"rows", file.Rows,
			"xxhash", file.Checksum,
		)
	}

	return written, nil
}

func stage(dir string, art entity.Artifact) (string, error) {
	f, err := os.CreateTemp(dir, "."+art.Name+".*.tmp")
	if err != nil {
		return "", err
	}

	if _, err := f.Write(art.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := os.Chmod(f.Name(), 0o644); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

// Checksum is the hex xxhash64 of data.
func Checksum(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

package store

import (
	"context"
	"sync"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shandysiswandi/goexemplar/internal/pkg/pkguid"
)

// InMemoryStore keeps exemplar rows in process memory. Rows are lost on
// restart. It backs local runs and tests.
type InMemoryStore struct {
	mu      sync.RWMutex
	ids     pkguid.NumberID
	seq     int64
	uploads map[string][]entity.StoredRecord
}

// NewInMemoryStore returns an empty store. When ids is nil rows are numbered
// sequentially.
func NewInMemoryStore(ids pkguid.NumberID) *InMemoryStore {
	return &InMemoryStore{
		ids:     ids,
		uploads: make(map[string][]entity.StoredRecord),
	}
}

func (s *InMemoryStore) Migrate(context.Context) error {
	return nil
}

func (s *InMemoryStore) InsertRecords(ctx context.Context, uploadID string, records []entity.ExemplarRecord) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := nowUTC()
	rows := s.uploads[uploadID]
	for _, rec := range records {
		rec.Description = truncate(rec.Description, entity.DescriptionWidth)
		rows = append(rows, entity.StoredRecord{
			ID:             s.nextID(),
			UploadID:       uploadID,
			CreatedAt:      createdAt,
			ExemplarRecord: rec,
		})
	}
	s.uploads[uploadID] = rows

	return int64(len(records)), nil
}

func (s *InMemoryStore) ListRecords(_ context.Context, uploadID string, page, pageSize int) ([]entity.StoredRecord, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.uploads[uploadID]
	total := len(rows)

	start := (page - 1) * pageSize
	if start >= total {
		return []entity.StoredRecord{}, total, nil
	}
	end := min(start+pageSize, total)

	out := make([]entity.StoredRecord, end-start)
	copy(out, rows[start:end])
	return out, total, nil
}

func (s *InMemoryStore) RecordsByUpload(_ context.Context, uploadID string) ([]entity.StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.StoredRecord, len(s.uploads[uploadID]))
	copy(out, s.uploads[uploadID])
	return out, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

func (s *InMemoryStore) nextID() int64 {
	if s.ids != nil {
		return s.ids.Generate()
	}
	s.seq++
	return s.seq
}

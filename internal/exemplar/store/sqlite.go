package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shopspring/decimal"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS exemplar_reports (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	upload_id TEXT NOT NULL,
	source TEXT NOT NULL,
	order_id TEXT,
	transaction_type TEXT,
	payment_type TEXT,
	invoice_amount TEXT,
	net_amount TEXT,
	p_description TEXT,
	order_date TIMESTAMP,
	payment_date TIMESTAMP,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS exemplar_reports_upload_id_idx ON exemplar_reports (upload_id, id);
`

// SQLite stores exemplar rows in a SQLite file. Amounts are kept as decimal
// text so no precision is lost.
type SQLite struct {
	db        *sql.DB
	batchSize int
}

func NewSQLite(path string, batchSize int) (*SQLite, error) {
	if path == "" {
		return nil, errors.New("sqlite: database path is required")
	}

	if dir := filepath.Dir(path); path != ":memory:" && !strings.HasPrefix(path, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite: create %s: %w", dir, err)
		}
	}

	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}

	db, err := sql.Open("sqlite3", path+sep+"_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// A single writer avoids SQLITE_BUSY between the pooled connections.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	return &SQLite{db: db, batchSize: batchLimit(batchSize, sqliteMaxParams)}, nil
}

func (s *SQLite) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("sqlite: create %s: %w", tableName, err)
	}
	return nil
}

func (s *SQLite) InsertRecords(ctx context.Context, uploadID string, records []entity.ExemplarRecord) (inserted int64, err error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "sqlite: rollback failed", "error", rerr)
		}
	}()

	createdAt := nowUTC()
	for _, chunk := range chunks(records, s.batchSize) {
		args := make([]any, 0, len(chunk)*len(insertColumns))
		for _, rec := range chunk {
			args = append(args, sqliteArgs(uploadID, rec, createdAt)...)
		}

		res, err := tx.ExecContext(ctx, insertStatement(len(chunk), question), args...)
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert %s: %w", tableName, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("sqlite: insert %s: %w", tableName, err)
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}

	return inserted, nil
}

func (s *SQLite) ListRecords(ctx context.Context, uploadID string, page, pageSize int) ([]entity.StoredRecord, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exemplar_reports WHERE upload_id = ?`, uploadID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite: count %s: %w", tableName, err)
	}
	if total == 0 {
		return []entity.StoredRecord{}, 0, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM exemplar_reports WHERE upload_id = ? ORDER BY id LIMIT ? OFFSET ?`,
		uploadID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite: list %s: %w", tableName, err)
	}

	records, err := collectSQL(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (s *SQLite) RecordsByUpload(ctx context.Context, uploadID string) ([]entity.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM exemplar_reports WHERE upload_id = ? ORDER BY id`, uploadID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %s: %w", tableName, err)
	}
	return collectSQL(rows)
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func sqliteArgs(uploadID string, rec entity.ExemplarRecord, createdAt time.Time) []any {
	return []any{
		uploadID,
		string(rec.Source),
		nullString(rec.OrderID),
		nullString(rec.TransactionType),
		nullString(rec.PaymentType),
		decimalText(rec.InvoiceAmount),
		decimalText(rec.NetAmount),
		nullString(truncate(rec.Description, entity.DescriptionWidth)),
		timeArg(rec.OrderDate),
		timeArg(rec.PaymentDate),
		createdAt,
	}
}

func timeArg(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func collectSQL(rows *sql.Rows) ([]entity.StoredRecord, error) {
	defer rows.Close()

	out := []entity.StoredRecord{}
	for rows.Next() {
		var (
			rec                                   entity.StoredRecord
			source                                string
			orderID, txType, payType, description sql.NullString
			invoice, net                          sql.NullString
			orderDate, paymentDate                sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.UploadID, &source, &orderID, &txType, &payType,
			&invoice, &net, &description, &orderDate, &paymentDate, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scan %s: %w", tableName, err)
		}

		amountIn, err := parseDecimalText(invoice)
		if err != nil {
			return nil, err
		}
		amountNet, err := parseDecimalText(net)
		if err != nil {
			return nil, err
		}

		rec.Source = entity.Source(source)
		rec.OrderID = orderID.String
		rec.TransactionType = txType.String
		rec.PaymentType = payType.String
		rec.Description = description.String
		rec.InvoiceAmount = amountIn
		rec.NetAmount = amountNet
		rec.OrderDate = nullTime(orderDate)
		rec.PaymentDate = nullTime(paymentDate)
		rec.CreatedAt = rec.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate %s: %w", tableName, err)
	}
	return out, nil
}

func decimalText(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.StringFixed(2)
}

func parseDecimalText(s sql.NullString) (decimal.NullDecimal, error) {
	if !s.Valid || s.String == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("sqlite: stored amount %q: %w", s.String, err)
	}
	return decimal.NewNullDecimal(d), nil
}

func nullTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

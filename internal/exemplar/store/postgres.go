package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
	"github.com/shopspring/decimal"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS exemplar_reports (
	id BIGSERIAL PRIMARY KEY,
	upload_id VARCHAR(36) NOT NULL,
	source VARCHAR(16) NOT NULL,
	order_id VARCHAR(255),
	transaction_type VARCHAR(255),
	payment_type VARCHAR(255),
	invoice_amount NUMERIC(18, 2),
	net_amount NUMERIC(18, 2),
	p_description VARCHAR(500),
	order_date TIMESTAMP,
	payment_date TIMESTAMP,
	created_at TIMESTAMP NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS exemplar_reports_upload_id_idx ON exemplar_reports (upload_id, id);
`

// Postgres stores exemplar rows in PostgreSQL through a pgx pool.
type Postgres struct {
	pool      *pgxpool.Pool
	batchSize int
}

func NewPostgres(ctx context.Context, url string, batchSize int) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("postgres: database url is required")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("postgres: unable to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: unable to connect: %w", err)
	}

	return &Postgres{pool: pool, batchSize: batchLimit(batchSize, postgresMaxParams)}, nil
}

func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("postgres: create %s: %w", tableName, err)
	}
	return nil
}

// InsertRecords writes every record in one transaction, batchSize rows per
// statement. Either all rows land or none do.
func (p *Postgres) InsertRecords(ctx context.Context, uploadID string, records []entity.ExemplarRecord) (inserted int64, err error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("postgres: begin transaction: %w", err)
	}
	defer func() {
		if err == nil {
			return
		}
		if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "postgres: rollback failed", "error", rerr)
		}
	}()

	createdAt := nowUTC()
	batch := &pgx.Batch{}
	for _, chunk := range chunks(records, p.batchSize) {
		args := make([]any, 0, len(chunk)*len(insertColumns))
		for _, rec := range chunk {
			args = append(args, postgresArgs(uploadID, rec, createdAt)...)
		}
		batch.Queue(insertStatement(len(chunk), dollar), args...)
	}

	results := tx.SendBatch(ctx, batch)
	for range batch.Len() {
		tag, execErr := results.Exec()
		if execErr != nil {
			_ = results.Close()
			return 0, fmt.Errorf("postgres: insert %s: %w", tableName, execErr)
		}
		inserted += tag.RowsAffected()
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("postgres: insert %s: %w", tableName, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("postgres: commit: %w", err)
	}

	return inserted, nil
}

func (p *Postgres) ListRecords(ctx context.Context, uploadID string, page, pageSize int) ([]entity.StoredRecord, int, error) {
	var total int
	if err := p.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM exemplar_reports WHERE upload_id = $1`, uploadID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres: count %s: %w", tableName, err)
	}
	if total == 0 {
		return []entity.StoredRecord{}, 0, nil
	}

	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM exemplar_reports WHERE upload_id = $1 ORDER BY id LIMIT $2 OFFSET $3`,
		uploadID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: list %s: %w", tableName, err)
	}

	records, err := collectPostgres(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (p *Postgres) RecordsByUpload(ctx context.Context, uploadID string) ([]entity.StoredRecord, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM exemplar_reports WHERE upload_id = $1 ORDER BY id`, uploadID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", tableName, err)
	}
	return collectPostgres(rows)
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func postgresArgs(uploadID string, rec entity.ExemplarRecord, createdAt time.Time) []any {
	return []any{
		uploadID,
		string(rec.Source),
		nullString(rec.OrderID),
		nullString(rec.TransactionType),
		nullString(rec.PaymentType),
		toNumeric(rec.InvoiceAmount),
		toNumeric(rec.NetAmount),
		nullString(truncate(rec.Description, entity.DescriptionWidth)),
		rec.OrderDate,
		rec.PaymentDate,
		createdAt,
	}
}

func collectPostgres(rows pgx.Rows) ([]entity.StoredRecord, error) {
	defer rows.Close()

	var out []entity.StoredRecord
	for rows.Next() {
		var (
			rec                                   entity.StoredRecord
			source                                string
			orderID, txType, payType, description pgtype.Text
			invoice, net                          pgtype.Numeric
		)
		if err := rows.Scan(
			&rec.ID, &rec.UploadID, &source, &orderID, &txType, &payType,
			&invoice, &net, &description, &rec.OrderDate, &rec.PaymentDate, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", tableName, err)
		}

		rec.Source = entity.Source(source)
		rec.OrderID = orderID.String
		rec.TransactionType = txType.String
		rec.PaymentType = payType.String
		rec.Description = description.String
		rec.InvoiceAmount = fromNumeric(invoice)
		rec.NetAmount = fromNumeric(net)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate %s: %w", tableName, err)
	}

	if out == nil {
		out = []entity.StoredRecord{}
	}
	return out, nil
}

func toNumeric(d decimal.NullDecimal) pgtype.Numeric {
	if !d.Valid {
		return pgtype.Numeric{}
	}
	return pgtype.Numeric{Int: d.Decimal.Coefficient(), Exp: d.Decimal.Exponent(), Valid: true}
}

func fromNumeric(n pgtype.Numeric) decimal.NullDecimal {
	if !n.Valid || n.Int == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(decimal.NewFromBigInt(n.Int, n.Exp))
}

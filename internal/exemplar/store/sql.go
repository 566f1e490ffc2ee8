package store

import (
	"fmt"
	"strings"

	"github.com/shandysiswandi/goexemplar/internal/exemplar/entity"
)

const tableName = "exemplar_reports"

var insertColumns = []string{
	"upload_id", "source", "order_id", "transaction_type", "payment_type",
	"invoice_amount", "net_amount", "p_description", "order_date", "payment_date",
	"created_at",
}

const selectColumns = `id, upload_id, source, order_id, transaction_type, payment_type,
	invoice_amount, net_amount, p_description, order_date, payment_date, created_at`

// Bind parameter limits per statement.
const (
	postgresMaxParams = 65535
	sqliteMaxParams   = 32766
)

// batchLimit bounds size so one multi-row INSERT stays within maxParams bind
// parameters. Sizes below 1 fall back to DefaultBatchSize.
func batchLimit(size, maxParams int) int {
	if size < 1 {
		size = DefaultBatchSize
	}
	return min(size, maxParams/len(insertColumns))
}

// insertStatement builds a multi-row INSERT for rows records. placeholder
// renders the n-th (1-based) bind parameter.
func insertStatement(rows int, placeholder func(n int) string) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(tableName)
	sb.WriteString(" (")
	sb.WriteString(strings.Join(insertColumns, ", "))
	sb.WriteString(") VALUES ")

	n := 1
	for r := range rows {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range insertColumns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

func dollar(n int) string { return fmt.Sprintf("$%d", n) }

func question(int) string { return "?" }

// chunks splits records into consecutive slices of at most size.
func chunks(records []entity.ExemplarRecord, size int) [][]entity.ExemplarRecord {
	var out [][]entity.ExemplarRecord
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, records[start:end])
	}
	return out
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// truncate keeps s within the column width in runes.
func truncate(s string, width int) string {
	if r := []rune(s); len(r) > width {
		return string(r[:width])
	}
	return s
}

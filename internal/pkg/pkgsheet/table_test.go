package pkgsheet

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVStripsBOMAndPads(t *testing.T) {
	in := "\xEF\xBB\xBFtype,description,total\nOrder,\"Shirt, blue\",10\nRefund\n,,\n"

	tbl, err := Read(FormatCSV, strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"type", "description", "total"}, tbl.Header)
	want := [][]string{
		{"Order", "Shirt, blue", "10"},
		{"Refund", "", ""},
	}
	if diff := cmp.Diff(want, tbl.Rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSVLazyQuotes(t *testing.T) {
	tbl, err := Read(FormatCSV, strings.NewReader("a,b\n5\" cable,2\n"))
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, `5" cable`, tbl.Rows[0][0])
}

func TestLocateSkipsPreamble(t *testing.T) {
	in := strings.Join([]string{
		`"Includes Amazon Marketplace, Fulfillment by Amazon (FBA), and Amazon Webstore transactions"`,
		`"All amounts in INR, unless specified"`,
		`date/time,type,order id,description,total`,
		`"01/02/2024 10:00:00 UTC",Order,171-1,Shirt,"1,200.50"`,
	}, "\n")

	tbl, err := Read(FormatCSV, strings.NewReader(in))
	require.NoError(t, err)

	require.NoError(t, tbl.Locate("type", "description", "order id", "total", "date/time"))
	assert.Equal(t, 2, tbl.Column("ORDER ID"))
	require.Len(t, tbl.Rows, 1)
	assert.Equal(t, "1,200.50", tbl.Rows[0][4])
}

func TestLocateReportsMissingColumns(t *testing.T) {
	tbl := NewTable([][]string{{"type", "total"}, {"Order", "1"}})

	err := tbl.Locate("type", "description", "order id")
	require.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "description, order id")
}

func TestColumnNotFound(t *testing.T) {
	tbl := NewTable([][]string{{" Order Id ", "Invoice Amount"}})

	assert.Equal(t, 0, tbl.Column("order id"))
	assert.Equal(t, 1, tbl.Column("missing", "invoice amount"))
	assert.Equal(t, -1, tbl.Column("Order Date"))
}

func TestCloneIsDeep(t *testing.T) {
	tbl := NewTable([][]string{{"a"}, {"1"}})
	cp := tbl.Clone()
	cp.Rows[0][0] = "2"
	cp.Header[0] = "b"

	assert.Equal(t, "1", tbl.Rows[0][0])
	assert.Equal(t, "a", tbl.Header[0])
}

func TestCell(t *testing.T) {
	row := []string{"x"}
	assert.Equal(t, "x", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 3))
	assert.Equal(t, "", Cell(row, -1))
}

package sheets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, dir, id string, rows [][]interface{}) {
	t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, wb.SetSheetRow("Sheet1", cell, &r))
	}
	require.NoError(t, wb.SaveAs(filepath.Join(dir, id+".xlsx")))
}

func TestXLSXFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "book1", [][]interface{}{
		{"Name", "", "Age"},
		{"Alice", "x", 30},
		{},
		{"", "", "41"},
	})

	f := NewXLSXFetcher(dir, "Sheet1")
	grid, err := f.Fetch(context.Background(), "book1")
	require.NoError(t, err)

	columns, data, err := Normalize(grid)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Age"}, []string(columns))
	require.Len(t, data, 2)
	assert.Equal(t, "Alice", data[0]["Name"])
	assert.Equal(t, "30", data[0]["Age"])
	assert.Equal(t, map[string]string{"Age": "41"}, map[string]string(data[1]))
}

func TestXLSXFetcher_RangeWithCells(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "book1", [][]interface{}{{"A"}, {"1"}})

	f := NewXLSXFetcher(dir, "Sheet1!A1:Z")
	grid, err := f.Fetch(context.Background(), "book1")
	require.NoError(t, err)
	assert.Equal(t, Grid{{"A"}, {"1"}}, grid)
}

func TestXLSXFetcher_MissingWorkbook(t *testing.T) {
	f := NewXLSXFetcher(t.TempDir(), "Sheet1")

	_, err := f.Fetch(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSourceNotFound)

	_, err = f.Fetch(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrSourceNotFound)
}

func TestXLSXFetcher_MissingSheet(t *testing.T) {
	dir := t.TempDir()
	writeWorkbook(t, dir, "book1", [][]interface{}{{"A"}})

	f := NewXLSXFetcher(dir, "Data")
	_, err := f.Fetch(context.Background(), "book1")
	require.ErrorIs(t, err, ErrRangeUnavailable)
	assert.Contains(t, err.Error(), "has data in Data")
}

func TestXLSXFetcher_CorruptWorkbook(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xlsx"), []byte("not a zip"), 0o600))

	f := NewXLSXFetcher(dir, "Sheet1")
	_, err := f.Fetch(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrTransientProvider)
}

func TestXLSXFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewXLSXFetcher(t.TempDir(), "Sheet1")
	_, err := f.Fetch(ctx, "book1")
	assert.ErrorIs(t, err, ErrTransientProvider)
}

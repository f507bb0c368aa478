package sheets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXFetcher serves spreadsheets from a directory of workbooks named
// <sheetID>.xlsx. The worksheet read is the sheet part of the configured range.
type XLSXFetcher struct {
	dir   string
	sheet string
}

// NewXLSXFetcher returns a fetcher reading workbooks from dir
func NewXLSXFetcher(dir, rng string) *XLSXFetcher {
	sheet, _, _ := strings.Cut(rng, "!")
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &XLSXFetcher{dir: dir, sheet: strings.Trim(sheet, "'")}
}

// Fetch implements Fetcher
func (f *XLSXFetcher) Fetch(ctx context.Context, sheetID string) (Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransientProvider, err)
	}
	if sheetID == "" || filepath.Base(sheetID) != sheetID {
		return nil, fmt.Errorf("%w (bad id %q)", ErrSourceNotFound, sheetID)
	}

	path := filepath.Join(f.dir, sheetID+".xlsx")
	wb, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w (%s)", ErrSourceNotFound, sheetID)
		}
		return nil, fmt.Errorf("%w: open %s: %v", ErrTransientProvider, sheetID, err)
	}
	defer wb.Close()

	idx, err := wb.GetSheetIndex(f.sheet)
	if err != nil || idx == -1 {
		return nil, fmt.Errorf("%w, please make sure the sheet has data in %s", ErrRangeUnavailable, f.sheet)
	}

	rows, err := wb.GetRows(f.sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransientProvider, sheetID, err)
	}

	return Grid(rows), nil
}

package sheets

import "context"

// Fetcher reads the raw grid of a spreadsheet identified by its provider id.
//
// Implementations bound their own latency and report failures wrapped around
// ErrSourceNotFound, ErrRangeUnavailable or ErrTransientProvider. Callers do
// not retry.
type Fetcher interface {
	Fetch(ctx context.Context, sheetID string) (Grid, error)
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, sheetID string) (Grid, error)

// Fetch calls f(ctx, sheetID)
func (f FetcherFunc) Fetch(ctx context.Context, sheetID string) (Grid, error) {
	return f(ctx, sheetID)
}

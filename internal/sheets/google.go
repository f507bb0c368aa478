package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

// GoogleOptions configures a GoogleFetcher. With no credentials set the
// client falls back to Application Default Credentials.
type GoogleOptions struct {
	CredentialsFile string
	CredentialsJSON string
	APIKey          string
	Endpoint        string
	Range           string
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// GoogleFetcher reads sheet values through the Google Sheets v4 API
type GoogleFetcher struct {
	svc     *sheetsapi.Service
	rng     string
	timeout time.Duration
}

// NewGoogleFetcher builds a read-only Sheets API client
func NewGoogleFetcher(ctx context.Context, opts GoogleOptions) (*GoogleFetcher, error) {
	clientOpts := []option.ClientOption{
		option.WithScopes(sheetsapi.SpreadsheetsReadonlyScope),
	}

	switch {
	case opts.CredentialsJSON != "":
		clientOpts = append(clientOpts, option.WithCredentialsJSON([]byte(opts.CredentialsJSON)))
	case opts.CredentialsFile != "":
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	case opts.Endpoint != "":
		// emulators and test servers take no credentials
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}

	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	}

	svc, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}

	rng := opts.Range
	if rng == "" {
		rng = "Sheet1"
	}

	return &GoogleFetcher{svc: svc, rng: rng, timeout: opts.Timeout}, nil
}

// Fetch implements Fetcher
func (f *GoogleFetcher) Fetch(ctx context.Context, sheetID string) (Grid, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	resp, err := f.svc.Spreadsheets.Values.Get(sheetID, f.rng).Context(ctx).Do()
	if err != nil {
		return nil, f.translateError(err)
	}

	grid := make(Grid, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = cellString(v)
		}
		grid[i] = cells
	}
	return grid, nil
}

func (f *GoogleFetcher) translateError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusNotFound,
			apiErr.Code == http.StatusForbidden,
			apiErr.Code == http.StatusUnauthorized:
			return fmt.Errorf("%w (%s)", ErrSourceNotFound, apiErr.Message)
		case apiErr.Code == http.StatusBadRequest:
			return fmt.Errorf("%w, please make sure the sheet has data in %s (%s)", ErrRangeUnavailable, f.rng, apiErr.Message)
		}
	}
	return fmt.Errorf("%w: %v", ErrTransientProvider, err)
}

func cellString(v interface{}) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	default:
		return fmt.Sprint(c)
	}
}

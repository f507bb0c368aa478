package sheets

import "errors"

// Errors reported while resolving and reading a spreadsheet. Fetchers wrap
// these with provider detail, so match them with errors.Is.
var (
	ErrInvalidSourceURL  = errors.New("invalid Google Sheets URL")
	ErrEmptySource       = errors.New("no data found in sheet")
	ErrSourceNotFound    = errors.New("sheet not found, please check the URL and make sure the sheet is accessible")
	ErrRangeUnavailable  = errors.New("invalid sheet range")
	ErrTransientProvider = errors.New("spreadsheet provider is temporarily unavailable, please try again")
)

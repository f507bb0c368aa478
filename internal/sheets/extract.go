// Package sheets turns externally hosted spreadsheets into normalized
// column/record sets: it resolves a spreadsheet id from its URL, fetches the
// raw cell grid from a provider and normalizes that grid.
package sheets

import (
	"fmt"
	"regexp"
	"strings"
)

// URLMarker is the path every supported spreadsheet URL carries before the id
const URLMarker = "docs.google.com/spreadsheets/d/"

var sheetIDPattern = regexp.MustCompile(`docs\.google\.com/spreadsheets/d/([a-zA-Z0-9_-]+)`)

// LooksLikeSheetURL reports whether url has the shape of a supported
// spreadsheet URL. It does not guarantee an id can be extracted.
func LooksLikeSheetURL(url string) bool {
	return strings.Contains(url, URLMarker)
}

// ExtractSheetID returns the spreadsheet id that directly follows URLMarker
// in url.
func ExtractSheetID(url string) (string, error) {
	matches := sheetIDPattern.FindStringSubmatch(url)
	if matches == nil {
		return "", fmt.Errorf("%w: no spreadsheet id in %q", ErrInvalidSourceURL, url)
	}
	return matches[1], nil
}

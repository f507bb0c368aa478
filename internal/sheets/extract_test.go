package sheets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSheetID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://docs.google.com/spreadsheets/d/ABC123/edit", "ABC123"},
		{"https://docs.google.com/spreadsheets/d/1a-B_c9/edit#gid=0", "1a-B_c9"},
		{"https://docs.google.com/spreadsheets/d/XYZ", "XYZ"},
		{"docs.google.com/spreadsheets/d/q_w-e?usp=sharing", "q_w-e"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			id, err := ExtractSheetID(tt.url)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestExtractSheetID_Invalid(t *testing.T) {
	urls := []string{
		"",
		"https://example.com/sheet",
		"https://docs.google.com/document/d/ABC123/edit",
		"https://docs.google.com/spreadsheets/d/",
		"https://docs.google.com/spreadsheets/d/?x=1",
		"https://evil.example/spreadsheets/d/EVIL?next=docs.google.com/spreadsheets/d/",
	}

	for _, u := range urls {
		_, err := ExtractSheetID(u)
		assert.ErrorIs(t, err, ErrInvalidSourceURL, "url %q", u)
	}
}

func TestLooksLikeSheetURL(t *testing.T) {
	assert.True(t, LooksLikeSheetURL("https://docs.google.com/spreadsheets/d/ABC/edit"))
	assert.True(t, LooksLikeSheetURL("https://docs.google.com/spreadsheets/d/"))
	assert.False(t, LooksLikeSheetURL("https://docs.google.com/document/d/ABC"))
	assert.False(t, LooksLikeSheetURL("ABC123"))
}

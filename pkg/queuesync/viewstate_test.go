package queuesync

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampLogsPerPage(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{100, 50},
		{2, 5},
		{5, 5},
		{50, 50},
		{10, 10},
		{0, 5},
		{-3, 5},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampLogsPerPage(tc.in), "clamp(%d)", tc.in)
	}
}

func TestViewStateRoundTrip(t *testing.T) {
	vs := ViewState{
		Search:      "jane",
		FilterBy:    "queue.next",
		Date:        "2026-08-31",
		LogsPerPage: 25,
		Page:        3,
	}

	parsed := ParseViewState(vs.Encode())
	assert.Equal(t, vs, parsed)
}

func TestParseDefaults(t *testing.T) {
	vs := ParseViewState(url.Values{})

	assert.Equal(t, "", vs.Search)
	assert.Equal(t, defaultLogsPerPage, vs.LogsPerPage)
	assert.Equal(t, 1, vs.Page)
}

func TestParseClampsAndIgnoresGarbage(t *testing.T) {
	query := url.Values{}
	query.Set("logs_per_page", "100")
	query.Set("page", "abc")

	vs := ParseViewState(query)
	assert.Equal(t, 50, vs.LogsPerPage)
	assert.Equal(t, 1, vs.Page)

	query.Set("logs_per_page", "2")
	assert.Equal(t, 5, ParseViewState(query).LogsPerPage)

	// Empty filters round-trip to short URLs.
	encoded := vs.Encode()
	assert.False(t, encoded.Has("search"))
	assert.False(t, encoded.Has("date"))
}

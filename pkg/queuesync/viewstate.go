package queuesync

import (
	"net/url"
	"strconv"
)

// ViewState is the page-local filter and pagination state for the
// log-style dashboard views. It round-trips through URL query
// parameters so back/refresh keeps the view.
type ViewState struct {
	Search      string
	FilterBy    string
	Date        string
	LogsPerPage int
	Page        int
}

const (
	minLogsPerPage     = 5
	maxLogsPerPage     = 50
	defaultLogsPerPage = 10
)

// ClampLogsPerPage forces the page size into [5, 50]. Boundary
// values pass through unchanged.
func ClampLogsPerPage(n int) int {
	if n < minLogsPerPage {
		return minLogsPerPage
	}
	if n > maxLogsPerPage {
		return maxLogsPerPage
	}
	return n
}

// ParseViewState reads a query string. Missing or unparsable numbers
// fall back to defaults; logs_per_page is clamped.
func ParseViewState(query url.Values) ViewState {
	vs := ViewState{
		Search:      query.Get("search"),
		FilterBy:    query.Get("filter_by"),
		Date:        query.Get("date"),
		LogsPerPage: defaultLogsPerPage,
		Page:        1,
	}

	if raw := query.Get("logs_per_page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			vs.LogsPerPage = ClampLogsPerPage(n)
		}
	}
	if raw := query.Get("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			vs.Page = n
		}
	}
	return vs
}

// Encode writes the state back to query parameters, omitting empty
// filters so URLs stay short.
func (vs ViewState) Encode() url.Values {
	query := url.Values{}
	if vs.Search != "" {
		query.Set("search", vs.Search)
	}
	if vs.FilterBy != "" {
		query.Set("filter_by", vs.FilterBy)
	}
	if vs.Date != "" {
		query.Set("date", vs.Date)
	}
	query.Set("logs_per_page", strconv.Itoa(ClampLogsPerPage(vs.LogsPerPage)))
	query.Set("page", strconv.Itoa(vs.Page))
	return query
}

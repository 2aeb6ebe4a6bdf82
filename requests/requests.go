// Package requests holds the request types of the service API.
package requests

// Parameter a named report parameter, order matters
type Parameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// RawReport - run a configured report
type RawReport struct {
	// which site to report on
	Site string `json:"site"`
	// configured report id, e.g. "1"
	ReportID string `json:"reportId"`
	// report specific parameters in declaration order
	Parameters []Parameter `json:"parameters"`
	// requested display language, empty falls back to the site default
	Language string `json:"language"`
	// pagination window
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	// optional sort request
	SortColumn    *int   `json:"sortColumn,omitempty"`
	SortDirection string `json:"sortDirection,omitempty"`
}

// Overview - site wide counts
type Overview struct {
	Site     string `json:"site"`
	Language string `json:"language"`
}

// Sites - list the available sites
type Sites struct{}

// Update - request a repository update
type Update struct{}

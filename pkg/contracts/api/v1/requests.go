// Package api contains the request and response contracts of the SOLPED
// HTTP API. Version v1 is served under /api/v1.
package api

import (
	"strings"

	"solpedcli/pkg/contracts/domain"
)

// Dataset API Requests

// RemoteIngestRequest is the body of POST /datasets/remote.
// Empty handles fall back to the configured defaults.
type RemoteIngestRequest struct {
	DocumentID string `json:"document_id" validate:"omitempty,document_id"`
	TabID      string `json:"tab_id" validate:"omitempty,tab_id"`
}

// Normalize trims both handles
func (r *RemoteIngestRequest) Normalize() {
	r.DocumentID = strings.TrimSpace(r.DocumentID)
	r.TabID = strings.TrimSpace(r.TabID)
}

// Query API Requests

// FilterQuery holds the filter parameters shared by /records, /charts and
// /export.csv. Requester and center repeat in the query string.
type FilterQuery struct {
	Requesters []string `query:"requester"`
	Centers    []string `query:"center"`
	Status     string   `query:"status"`
}

// Spec converts the query into a filter spec. Blank entries are dropped and
// values are never split on commas, since names may contain them.
func (q FilterQuery) Spec() domain.FilterSpec {
	return domain.FilterSpec{
		Requesters: compact(q.Requesters),
		Centers:    compact(q.Centers),
		Status:     domain.StatusSelection(strings.TrimSpace(q.Status)),
	}
}

func compact(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Responses

// RecordsResponse is a filtered view rendered as a table
type RecordsResponse struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   int        `json:"total"`
}

// DistributionResponse lists the record count per status
type DistributionResponse struct {
	Statuses []domain.StatusCount `json:"statuses"`
}

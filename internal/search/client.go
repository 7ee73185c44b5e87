// Package search provides the knowledge-base query contract consumed by the
// dialog flows, with two interchangeable backends: an Azure-Search-style
// querystring API and a self-hosted Elasticsearch index.
package search

import (
	"context"
	"errors"

	"helpdesk-bot/internal/models"
)

var (
	ErrQueryFailed       = errors.New("SEARCH_QUERY_FAILED")
	ErrFacetQueryFailed  = errors.New("FACET_QUERY_FAILED")
	ErrSearchTimeout     = errors.New("SEARCH_TIMEOUT")
	ErrResponseMalformed = errors.New("SEARCH_RESPONSE_MALFORMED")
)

// Result is the response shape shared by both backends. Value holds matching
// documents; Facets is populated only by facet queries.
type Result struct {
	Value  []models.Article          `json:"value"`
	Facets map[string][]models.Facet `json:"@search.facets,omitempty"`
}

// Client is the query surface the dialog flows depend on. The three request
// shapes map onto free-text search, facet retrieval, and filtered lookup.
type Client interface {
	// Search runs a full-text query.
	Search(ctx context.Context, text string) (*Result, error)
	// Facets returns value/count pairs for the given field.
	Facets(ctx context.Context, field string) (*Result, error)
	// Filter returns documents where field equals value exactly.
	Filter(ctx context.Context, field, value string) (*Result, error)
}

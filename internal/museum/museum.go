package museum

import (
	"context"

	"curio/pkg/models"
)

// Fixed provenance labels. Stored artwork references carry these exact
// strings, so they form a closed set: anything else is corrupt data, not a
// new museum.
const (
	SourceVA  = "Victoria and Albert Museum"
	SourceMET = "The Metropolitan Museum of Art"
)

// pageSize is the fixed number of artworks per page for every source,
// regardless of how the upstream paginates natively.
const pageSize = 10

// Source is implemented by each museum API adapter. Search returns one
// fixed-size page of normalized artworks plus the source's own total match
// count for the query; FetchDetail resolves a single id into the full record.
type Source interface {
	Name() string
	Search(ctx context.Context, query string, page int) (SearchResult, error)
	FetchDetail(ctx context.Context, artworkID string) (models.ArtworkDetail, error)
}

// SearchResult is one source's contribution to a combined page.
type SearchResult struct {
	Records      []models.Artwork
	RecordsCount int
}

// APIError marks a transport-level failure (network error, non-2xx status,
// undecodable body) from one upstream museum API.
type APIError struct {
	Source string
	Status int
	Err    error
}

func (e *APIError) Error() string {
	switch e.Source {
	case SourceVA:
		return "V&A Museum API request failed"
	case SourceMET:
		return "The Met Museum of Art API request failed"
	default:
		return "API request failed"
	}
}

func (e *APIError) Unwrap() error { return e.Err }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func strOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

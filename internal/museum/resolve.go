package museum

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"curio/pkg/models"
)

// Resolve hydrates an artwork reference into a full detail record by
// dispatching to the owning source.
//
// An unrecognized source tag is a data error and comes back as one: refs are
// validated against the closed source set when they are written, so a miss
// here means corrupt data, not a transient outage. A failing upstream fetch
// is not an error: it yields a degraded placeholder record the UI can still
// render as a card shell.
func (a *Aggregator) Resolve(ctx context.Context, ref models.ArtworkRef) (models.ArtworkDetail, error) {
	var src Source
	switch ref.Source {
	case SourceVA:
		src = a.VA
	case SourceMET:
		src = a.MET
	default:
		return models.ArtworkDetail{}, fmt.Errorf("unknown source %q for artwork %s", ref.Source, ref.ArtworkID)
	}

	detail, err := src.FetchDetail(ctx, ref.ArtworkID)
	if err != nil {
		log.Warn().Err(err).
			Str("source", ref.Source).
			Str("artwork_id", ref.ArtworkID).
			Msg("detail fetch failed, substituting degraded record")
		return degradedDetail(ref), nil
	}
	return detail, nil
}

// ResolveMany resolves a set of references concurrently. Output order matches
// input order regardless of which fetch settled first.
func (a *Aggregator) ResolveMany(ctx context.Context, refs []models.ArtworkRef) ([]models.ArtworkDetail, error) {
	out := make([]models.ArtworkDetail, len(refs))
	errs := make([]error, len(refs))

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref models.ArtworkRef) {
			defer wg.Done()
			out[i], errs[i] = a.Resolve(ctx, ref)
		}(i, ref)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// degradedDetail preserves the identity fields from the ref so the caller can
// still key, retry or remove the broken reference.
func degradedDetail(ref models.ArtworkRef) models.ArtworkDetail {
	return models.ArtworkDetail{
		Artwork: models.Artwork{
			ArtworkID: ref.ArtworkID,
			Title:     "Error loading artwork",
			Artist:    "Unknown",
			Source:    ref.Source,
		},
	}
}

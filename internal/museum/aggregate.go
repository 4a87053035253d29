package museum

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"curio/pkg/models"
)

// Aggregator fans a query out to both museums and merges their pages into a
// single result set.
//
// Known limitation: nothing dedups across sources. An artwork digitized by
// both institutions appears twice and counts twice in the total, and the
// summed count can overstate how many combined pages actually exist.
type Aggregator struct {
	VA  Source
	MET Source
}

func NewAggregator(va, met Source) *Aggregator {
	return &Aggregator{VA: va, MET: met}
}

// CombinedSearch queries both sources concurrently and joins the results,
// VA records first, each source's own ordering preserved. A failing source
// contributes an empty page instead of aborting the merge; when both fail the
// result is a well-formed empty page, never an error.
func (a *Aggregator) CombinedSearch(ctx context.Context, query string, page int) models.SearchPage {
	var (
		wg     sync.WaitGroup
		vaRes  SearchResult
		metRes SearchResult
	)

	fetch := func(src Source, out *SearchResult) {
		defer wg.Done()
		res, err := src.Search(ctx, query, page)
		if err != nil {
			log.Warn().Err(err).
				Str("source", src.Name()).
				Str("query", query).
				Int("page", page).
				Msg("source search failed, contributing empty page")
			return
		}
		*out = res
	}

	wg.Add(2)
	go fetch(a.VA, &vaRes)
	go fetch(a.MET, &metRes)
	wg.Wait()

	records := make([]models.Artwork, 0, len(vaRes.Records)+len(metRes.Records))
	records = append(records, vaRes.Records...)
	records = append(records, metRes.Records...)

	return models.SearchPage{
		Records:           records,
		TotalRecordsCount: vaRes.RecordsCount + metRes.RecordsCount,
	}
}

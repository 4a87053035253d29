package museum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"curio/pkg/models"
)

const metDefaultBaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"

// METClient talks to the Metropolitan Museum of Art collection API.
type METClient struct {
	BaseURL string
	Client  *http.Client
}

func NewMETClient() *METClient {
	return &METClient{
		BaseURL: metDefaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *METClient) Name() string { return SourceMET }

type metSearchResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

type metObject struct {
	ObjectID          int    `json:"objectID"`
	Title             string `json:"title"`
	ArtistDisplayName string `json:"artistDisplayName"`
	ArtistDisplayBio  string `json:"artistDisplayBio"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	Medium            string `json:"medium"`
	AccessionNumber   string `json:"accessionNumber"`
	ObjectURL         string `json:"objectURL"`
	Country           string `json:"country"`
	Culture           string `json:"culture"`
	ObjectDate        string `json:"objectDate"`
}

// Search queries the MET. The search endpoint has no native paging and
// returns every matching object ID, so the ID list is windowed client-side
// to the fixed page size, then each ID in the window is resolved with its own
// detail request, all in flight at once.
//
// IDs whose detail request fails or 404s are delisted entries still present
// in the search index; they are dropped from the page, not surfaced as an
// error. RecordsCount is the total the search endpoint itself reports, not a
// count of what this page fetched.
func (c *METClient) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}

	var sr metSearchResponse
	if err := c.getJSON(ctx, c.BaseURL+"/search?q="+url.QueryEscape(query), &sr); err != nil {
		return SearchResult{}, err
	}
	if len(sr.ObjectIDs) == 0 {
		return SearchResult{Records: []models.Artwork{}, RecordsCount: sr.Total}, nil
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start >= len(sr.ObjectIDs) {
		return SearchResult{Records: []models.Artwork{}, RecordsCount: sr.Total}, nil
	}
	if end > len(sr.ObjectIDs) {
		end = len(sr.ObjectIDs)
	}
	window := sr.ObjectIDs[start:end]

	// Indexed slice keeps the source's relevance order stable no matter
	// which fetch finishes first.
	found := make([]*metObject, len(window))
	var wg sync.WaitGroup
	for i, id := range window {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			var obj metObject
			if err := c.getJSON(ctx, fmt.Sprintf("%s/objects/%d", c.BaseURL, id), &obj); err != nil {
				return
			}
			found[i] = &obj
		}(i, id)
	}
	wg.Wait()

	records := make([]models.Artwork, 0, len(window))
	for _, obj := range found {
		if obj == nil {
			continue
		}
		records = append(records, metArtwork(obj))
	}

	return SearchResult{Records: records, RecordsCount: sr.Total}, nil
}

// FetchDetail resolves one object ID into a full record. The MET object
// record carries no prose description, so Description is always nil for this
// source; origin prefers the country field and falls back to culture.
func (c *METClient) FetchDetail(ctx context.Context, artworkID string) (models.ArtworkDetail, error) {
	var obj metObject
	if err := c.getJSON(ctx, c.BaseURL+"/objects/"+url.PathEscape(artworkID), &obj); err != nil {
		return models.ArtworkDetail{}, err
	}

	origin := obj.Country
	if origin == "" {
		origin = obj.Culture
	}

	return models.ArtworkDetail{
		Artwork:         metArtwork(&obj),
		ArtistBio:       strOrNil(obj.ArtistDisplayBio),
		Medium:          strOrNil(obj.Medium),
		AccessionNumber: strOrNil(obj.AccessionNumber),
		DetailsURL:      strOrNil(obj.ObjectURL),
		Origin:          strOrNil(origin),
		DateProduced:    strOrNil(obj.ObjectDate),
	}, nil
}

func metArtwork(obj *metObject) models.Artwork {
	return models.Artwork{
		ArtworkID: strconv.Itoa(obj.ObjectID),
		Title:     orDefault(obj.Title, "Untitled"),
		Artist:    orDefault(obj.ArtistDisplayName, "Unattributed or unknown"),
		Image:     strOrNil(obj.PrimaryImageSmall),
		Source:    SourceMET,
	}
}

func (c *METClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &APIError{Source: SourceMET, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return &APIError{Source: SourceMET, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Source: SourceMET, Status: resp.StatusCode, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &APIError{Source: SourceMET, Err: fmt.Errorf("decode json: %w", err)}
	}
	return nil
}

package museum

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"curio/pkg/models"
)

const (
	vaDefaultBaseURL = "https://api.vam.ac.uk/v2"

	// IIIF sizing suffix appended to the base image identifier the V&A
	// returns. The API hands out the identifier only, never a full URL.
	vaImageSuffix = "/full/!300,300/0/default.jpg"

	vaItemBaseURL = "https://collections.vam.ac.uk/item/"
)

// VAClient talks to the Victoria & Albert Museum collections API.
type VAClient struct {
	BaseURL string
	Client  *http.Client
}

func NewVAClient() *VAClient {
	return &VAClient{
		BaseURL: vaDefaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *VAClient) Name() string { return SourceVA }

type vaSearchResponse struct {
	Records []vaSearchRecord `json:"records"`
	Info    struct {
		RecordCount int `json:"record_count"`
	} `json:"info"`
}

type vaSearchRecord struct {
	SystemNumber string `json:"systemNumber"`
	PrimaryTitle string `json:"_primaryTitle"`
	PrimaryMaker struct {
		Name string `json:"name"`
	} `json:"_primaryMaker"`
	Images struct {
		IIIFImageBaseURL string `json:"_iiif_image_base_url"`
	} `json:"_images"`
}

// Search runs a server-side paged search against the V&A. The API supports
// real pagination, so the fixed page size is passed straight through.
func (c *VAClient) Search(ctx context.Context, query string, page int) (SearchResult, error) {
	if page < 1 {
		page = 1
	}

	u := fmt.Sprintf("%s/objects/search?q=%s&page=%d&page_size=%d",
		c.BaseURL, url.QueryEscape(query), page, pageSize)

	var out vaSearchResponse
	if err := c.getJSON(ctx, u, &out); err != nil {
		return SearchResult{}, err
	}

	records := make([]models.Artwork, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, models.Artwork{
			ArtworkID: r.SystemNumber,
			Title:     orDefault(r.PrimaryTitle, "Untitled"),
			Artist:    orDefault(r.PrimaryMaker.Name, "Unattributed or unknown"),
			Image:     vaImageURL(r.Images.IIIFImageBaseURL),
			Source:    SourceVA,
		})
	}

	return SearchResult{Records: records, RecordsCount: out.Info.RecordCount}, nil
}

type vaDetailResponse struct {
	Record struct {
		SystemNumber string `json:"systemNumber"`
		Titles       []struct {
			Title string `json:"title"`
		} `json:"titles"`
		ArtistMakerPerson []struct {
			Name struct {
				Text string `json:"text"`
			} `json:"name"`
		} `json:"artistMakerPerson"`
		SummaryDescription     string `json:"summaryDescription"`
		PhysicalDescription    string `json:"physicalDescription"`
		MaterialsAndTechniques string `json:"materialsAndTechniques"`
		AccessionNumber        string `json:"accessionNumber"`
		PlacesOfOrigin         []struct {
			Place struct {
				Text string `json:"text"`
			} `json:"place"`
		} `json:"placesOfOrigin"`
		ProductionDates []struct {
			Date struct {
				Text string `json:"text"`
			} `json:"date"`
		} `json:"productionDates"`
	} `json:"record"`
	Meta struct {
		Images struct {
			IIIFImage string `json:"_iiif_image"`
		} `json:"images"`
	} `json:"meta"`
}

// FetchDetail resolves one system number into a full record. The V&A embeds
// HTML markup in its descriptions; it is stripped here because the
// description is rendered as plain text. The API has no maker-biography
// field, so ArtistBio is always nil for this source.
func (c *VAClient) FetchDetail(ctx context.Context, artworkID string) (models.ArtworkDetail, error) {
	var out vaDetailResponse
	if err := c.getJSON(ctx, c.BaseURL+"/museumobject/"+url.PathEscape(artworkID), &out); err != nil {
		return models.ArtworkDetail{}, err
	}

	rec := out.Record

	var title string
	if len(rec.Titles) > 0 {
		title = rec.Titles[0].Title
	}
	var artist string
	if len(rec.ArtistMakerPerson) > 0 {
		artist = rec.ArtistMakerPerson[0].Name.Text
	}
	var origin string
	if len(rec.PlacesOfOrigin) > 0 {
		origin = rec.PlacesOfOrigin[0].Place.Text
	}
	var produced string
	if len(rec.ProductionDates) > 0 {
		produced = rec.ProductionDates[0].Date.Text
	}

	desc := rec.SummaryDescription
	if desc == "" {
		desc = rec.PhysicalDescription
	}

	var detailsURL string
	if rec.SystemNumber != "" {
		detailsURL = vaItemBaseURL + rec.SystemNumber
	}

	return models.ArtworkDetail{
		Artwork: models.Artwork{
			ArtworkID: rec.SystemNumber,
			Title:     orDefault(title, "Untitled"),
			Artist:    orDefault(artist, "Unattributed or unknown"),
			Image:     vaImageURL(out.Meta.Images.IIIFImage),
			Source:    SourceVA,
		},
		Medium:          strOrNil(rec.MaterialsAndTechniques),
		AccessionNumber: strOrNil(rec.AccessionNumber),
		Description:     strOrNil(stripTags(desc)),
		DetailsURL:      strOrNil(detailsURL),
		Origin:          strOrNil(origin),
		DateProduced:    strOrNil(produced),
	}, nil
}

func (c *VAClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &APIError{Source: SourceVA, Err: fmt.Errorf("build request: %w", err)}
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return &APIError{Source: SourceVA, Err: fmt.Errorf("do request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Source: SourceVA, Status: resp.StatusCode, Err: fmt.Errorf("status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &APIError{Source: SourceVA, Err: fmt.Errorf("decode json: %w", err)}
	}
	return nil
}

// vaImageURL turns an IIIF base identifier into a sized image URL. No base
// identifier means no image asset, never a broken URL.
func vaImageURL(base string) *string {
	if base == "" {
		return nil
	}
	u := base + vaImageSuffix
	return &u
}

// stripTags removes HTML markup from a description fragment. A linear strip
// is enough here: upstream descriptions carry simple formatting tags, not
// documents worth parsing.
func stripTags(s string) string {
	if !strings.ContainsRune(s, '<') {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	b.Grow(len(s))

	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

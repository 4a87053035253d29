package models

// Artwork is the normalized, list-view form of a museum object.
//
// Every external source is mapped into this structure first; nothing
// downstream ever sees a source-specific payload. Missing upstream fields get
// the display defaults here ("Untitled", "Unattributed or unknown"), never an
// empty string.
type Artwork struct {
	ArtworkID string  `json:"artworkId"`
	Title     string  `json:"title"`
	Artist    string  `json:"artist"`
	Image     *string `json:"image"`
	Source    string  `json:"source"`
}

// ArtworkDetail is the full record behind a single artwork view.
//
// Unlike the list shape, descriptive fields stay nil when the owning museum
// has no data for them, so a renderer can tell "genuinely unknown" apart from
// the friendlier list-view placeholders.
type ArtworkDetail struct {
	Artwork
	ArtistBio       *string `json:"artistBio"`
	Medium          *string `json:"medium"`
	AccessionNumber *string `json:"accessionNumber"`
	Description     *string `json:"description"`
	DetailsURL      *string `json:"detailsURL"`
	Origin          *string `json:"origin"`
	DateProduced    *string `json:"dateProduced"`
}

// ArtworkRef is the minimal identity pair persisted inside a collection.
// It is not renderable on its own; it has to be resolved back through the
// owning source first.
type ArtworkRef struct {
	ArtworkID string `json:"artworkId"`
	Source    string `json:"source"`
}

// SearchPage is one merged page of combined search results. The count is the
// sum of what each source reports for the whole query, not the page length.
type SearchPage struct {
	Records           []Artwork `json:"records"`
	TotalRecordsCount int       `json:"totalRecordsCount"`
}

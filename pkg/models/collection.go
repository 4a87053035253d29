package models

// Collection is a user-named set of artwork references. Only the references
// are persisted; full artwork records are recomputed from the sources on
// demand, so the canonical shape can evolve without migrating stored data.
type Collection struct {
	CollectionID string       `json:"collectionId"`
	User         string       `json:"user"`
	Name         string       `json:"name"`
	Artworks     []ArtworkRef `json:"artworks"`
}

// DetailedCollection is a collection whose references have been hydrated into
// full artwork records for display.
type DetailedCollection struct {
	CollectionID string          `json:"collectionId"`
	User         string          `json:"user"`
	Name         string          `json:"name"`
	Artworks     []ArtworkDetail `json:"artworks"`
}

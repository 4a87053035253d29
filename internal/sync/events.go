package sync

import "time"

const (
	EventCollectionCreated = "collection.created"
	EventArtworkAdded      = "collection.artwork_added"
	EventArtworkRemoved    = "collection.artwork_removed"
)

// CollectionEvent is broadcast to connected clients whenever a collection
// changes, so open UIs can refresh without polling.
type CollectionEvent struct {
	Type         string    `json:"type"`
	CollectionID string    `json:"collection_id"`
	User         string    `json:"user,omitempty"`
	ArtworkID    string    `json:"artwork_id,omitempty"`
	Source       string    `json:"source,omitempty"`
	At           time.Time `json:"at"`
}

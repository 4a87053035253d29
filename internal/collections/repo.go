package collections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"curio/pkg/models"
)

var (
	// ErrNotFound means the collection id does not exist.
	ErrNotFound = errors.New("collection not found")
	// ErrDuplicateArtwork means the (artworkId, source) pair is already in
	// the collection. Duplicate adds are rejected, not silently ignored.
	ErrDuplicateArtwork = errors.New("duplicate artwork in collection")
	// ErrArtworkNotFound means the artwork id is not in the collection.
	ErrArtworkNotFound = errors.New("artwork not found in collection")
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) List(ctx context.Context) ([]models.Collection, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT collection_id, user, name
		FROM collections
		ORDER BY created_at, collection_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	defer rows.Close()

	out := make([]models.Collection, 0)
	for rows.Next() {
		var c models.Collection
		if err := rows.Scan(&c.CollectionID, &c.User, &c.Name); err != nil {
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}

	for i := range out {
		refs, err := r.artworks(ctx, out[i].CollectionID)
		if err != nil {
			return nil, err
		}
		out[i].Artworks = refs
	}
	return out, nil
}

// Get returns nil, nil when the collection does not exist.
func (r *Repo) Get(ctx context.Context, collectionID string) (*models.Collection, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT collection_id, user, name
		FROM collections
		WHERE collection_id = ?
	`, collectionID)

	var c models.Collection
	if err := row.Scan(&c.CollectionID, &c.User, &c.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}

	refs, err := r.artworks(ctx, c.CollectionID)
	if err != nil {
		return nil, err
	}
	c.Artworks = refs
	return &c, nil
}

// Create inserts a collection together with its seed artwork references.
func (r *Repo) Create(ctx context.Context, c models.Collection) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create collection: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `
		INSERT INTO collections (collection_id, user, name)
		VALUES (?, ?, ?)
	`, c.CollectionID, c.User, c.Name); err != nil {
		return fmt.Errorf("insert collection: %w", err)
	}

	for _, ref := range c.Artworks {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO collection_artworks (collection_id, artwork_id, source)
			VALUES (?, ?, ?)
		`, c.CollectionID, ref.ArtworkID, ref.Source); err != nil {
			return fmt.Errorf("insert seed artwork: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create collection: %w", err)
	}
	return nil
}

// AddArtwork appends a reference and returns the updated collection.
func (r *Repo) AddArtwork(ctx context.Context, collectionID string, ref models.ArtworkRef) (*models.Collection, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM collections WHERE collection_id = ?)
	`, collectionID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	var dup bool
	if err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM collection_artworks
			WHERE collection_id = ? AND artwork_id = ? AND source = ?
		)
	`, collectionID, ref.ArtworkID, ref.Source).Scan(&dup); err != nil {
		return nil, fmt.Errorf("check duplicate artwork: %w", err)
	}
	if dup {
		return nil, ErrDuplicateArtwork
	}

	if _, err := r.DB.ExecContext(ctx, `
		INSERT INTO collection_artworks (collection_id, artwork_id, source)
		VALUES (?, ?, ?)
	`, collectionID, ref.ArtworkID, ref.Source); err != nil {
		return nil, fmt.Errorf("insert artwork: %w", err)
	}

	return r.Get(ctx, collectionID)
}

// RemoveArtwork deletes a reference by artwork id alone, so a ref stored from
// both museums under one id goes away together. Returns the updated
// collection.
func (r *Repo) RemoveArtwork(ctx context.Context, collectionID, artworkID string) (*models.Collection, error) {
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM collections WHERE collection_id = ?)
	`, collectionID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return nil, ErrNotFound
	}

	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM collection_artworks
		WHERE collection_id = ? AND artwork_id = ?
	`, collectionID, artworkID)
	if err != nil {
		return nil, fmt.Errorf("delete artwork: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, ErrArtworkNotFound
	}

	return r.Get(ctx, collectionID)
}

func (r *Repo) artworks(ctx context.Context, collectionID string) ([]models.ArtworkRef, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT artwork_id, source
		FROM collection_artworks
		WHERE collection_id = ?
		ORDER BY rowid
	`, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list collection artworks: %w", err)
	}
	defer rows.Close()

	refs := make([]models.ArtworkRef, 0)
	for rows.Next() {
		var ref models.ArtworkRef
		if err := rows.Scan(&ref.ArtworkID, &ref.Source); err != nil {
			return nil, fmt.Errorf("scan artwork row: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return refs, nil
}

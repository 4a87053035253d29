package collections

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curio/internal/museum"
	"curio/pkg/models"
)

type stubSource struct {
	name     string
	detailFn func(ctx context.Context, artworkID string) (models.ArtworkDetail, error)
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Search(context.Context, string, int) (museum.SearchResult, error) {
	return museum.SearchResult{}, nil
}

func (s *stubSource) FetchDetail(ctx context.Context, artworkID string) (models.ArtworkDetail, error) {
	return s.detailFn(ctx, artworkID)
}

func okDetail(source string) func(context.Context, string) (models.ArtworkDetail, error) {
	return func(_ context.Context, id string) (models.ArtworkDetail, error) {
		return models.ArtworkDetail{
			Artwork: models.Artwork{ArtworkID: id, Title: "Title of " + id, Artist: "Somebody", Source: source},
		}, nil
	}
}

func failDetail(source string) func(context.Context, string) (models.ArtworkDetail, error) {
	return func(context.Context, string) (models.ArtworkDetail, error) {
		return models.ArtworkDetail{}, errors.New(source + ": upstream down")
	}
}

// newOKRouter wires the handler to stub sources whose detail lookups always
// succeed.
func newOKRouter(t *testing.T) (*gin.Engine, *Repo) {
	t.Helper()
	return newTestRouter(t,
		&stubSource{name: museum.SourceVA, detailFn: okDetail(museum.SourceVA)},
		&stubSource{name: museum.SourceMET, detailFn: okDetail(museum.SourceMET)},
	)
}

func newTestRouter(t *testing.T, va, met museum.Source) (*gin.Engine, *Repo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepo(openTestDB(t))
	h := NewHandler(repo, museum.NewAggregator(va, met), nil)

	router := gin.New()
	h.RegisterRoutes(router.Group(""))
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"msg": "path not found"})
	})
	return router, repo
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func msgOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Msg string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Msg
}

func TestCreateCollection(t *testing.T) {
	router, _ := newOKRouter(t)

	w := doJSON(router, http.MethodPost, "/collections", `{
		"user": "ada",
		"name": "Favourites",
		"artworks": [{"artworkId": "O1234", "source": "Victoria and Albert Museum"}]
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var col models.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	assert.NotEmpty(t, col.CollectionID)
	assert.Equal(t, "ada", col.User)
	require.Len(t, col.Artworks, 1)

	// round-trip through GET
	w = doJSON(router, http.MethodGet, "/collections/"+col.CollectionID, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateCollectionValidation(t *testing.T) {
	router, _ := newOKRouter(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"malformed json", `{`, "Missing or invalid fields"},
		{"missing user", `{"name": "x", "artworks": []}`, "Missing or invalid fields"},
		{"missing name", `{"user": "ada", "artworks": []}`, "Missing or invalid fields"},
		{"missing artworks", `{"user": "ada", "name": "x"}`, "Missing or invalid fields"},
		{"blank user", `{"user": "  ", "name": "x", "artworks": []}`, "Missing or invalid fields"},
		{
			"ref without source",
			`{"user": "ada", "name": "x", "artworks": [{"artworkId": "O1"}]}`,
			"Each artwork must have an 'artworkId' and 'source'.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/collections", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.msg, msgOf(t, w))
		})
	}
}

func TestCreateCollectionEmptyArtworksAllowed(t *testing.T) {
	router, _ := newOKRouter(t)

	w := doJSON(router, http.MethodPost, "/collections", `{"user": "ada", "name": "Empty", "artworks": []}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListCollections(t *testing.T) {
	router, repo := newOKRouter(t)
	seedCollection(t, repo, "c1", models.ArtworkRef{ArtworkID: "O1", Source: museum.SourceVA})

	w := doJSON(router, http.MethodGet, "/collections", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cols []models.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cols))
	require.Len(t, cols, 1)
	assert.Equal(t, "c1", cols[0].CollectionID)
}

func TestGetCollectionNotFound(t *testing.T) {
	router, _ := newOKRouter(t)

	w := doJSON(router, http.MethodGet, "/collections/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Collection not found", msgOf(t, w))
}

func TestAddArtwork(t *testing.T) {
	router, repo := newOKRouter(t)
	seedCollection(t, repo, "c1")

	w := doJSON(router, http.MethodPost, "/collections/c1/artworks",
		`{"artwork": {"artworkId": "42", "source": "The Metropolitan Museum of Art"}}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var col models.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	require.Len(t, col.Artworks, 1)
	assert.Equal(t, "42", col.Artworks[0].ArtworkID)
}

func TestAddArtworkErrors(t *testing.T) {
	router, repo := newOKRouter(t)
	seedCollection(t, repo, "c1", models.ArtworkRef{ArtworkID: "O1", Source: museum.SourceVA})

	// missing collection reads as a client mistake, not a 404
	w := doJSON(router, http.MethodPost, "/collections/nope/artworks",
		`{"artwork": {"artworkId": "42", "source": "The Metropolitan Museum of Art"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Collection not found", msgOf(t, w))

	w = doJSON(router, http.MethodPost, "/collections/c1/artworks",
		`{"artwork": {"artworkId": "O1", "source": "Victoria and Albert Museum"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Duplicate artwork found in collection", msgOf(t, w))

	w = doJSON(router, http.MethodPost, "/collections/c1/artworks", `{"artwork": {"artworkId": "O2"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing or invalid fields", msgOf(t, w))
}

func TestRemoveArtwork(t *testing.T) {
	router, repo := newOKRouter(t)
	seedCollection(t, repo, "c1", models.ArtworkRef{ArtworkID: "O1", Source: museum.SourceVA})

	w := doJSON(router, http.MethodDelete, "/collections/c1/artworks/O1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var col models.Collection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	assert.Empty(t, col.Artworks)

	w = doJSON(router, http.MethodDelete, "/collections/c1/artworks/O1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Artwork not found", msgOf(t, w))

	w = doJSON(router, http.MethodDelete, "/collections/nope/artworks/O1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Collection not found", msgOf(t, w))
}

func TestGetDetailedHydratesAndDegrades(t *testing.T) {
	// the VA stub fails, so its ref must come back as a degraded card while
	// the MET ref hydrates normally
	router, repo := newTestRouter(t,
		&stubSource{name: museum.SourceVA, detailFn: failDetail(museum.SourceVA)},
		&stubSource{name: museum.SourceMET, detailFn: okDetail(museum.SourceMET)},
	)
	seedCollection(t, repo, "c1",
		models.ArtworkRef{ArtworkID: "O1", Source: museum.SourceVA},
		models.ArtworkRef{ArtworkID: "42", Source: museum.SourceMET},
	)

	w := doJSON(router, http.MethodGet, "/collections/c1/detailed", "")
	require.Equal(t, http.StatusOK, w.Code)

	var col models.DetailedCollection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &col))
	assert.Equal(t, "c1", col.CollectionID)
	require.Len(t, col.Artworks, 2)

	assert.Equal(t, "Error loading artwork", col.Artworks[0].Title)
	assert.Equal(t, "Unknown", col.Artworks[0].Artist)
	assert.Equal(t, "O1", col.Artworks[0].ArtworkID)

	assert.Equal(t, "Title of 42", col.Artworks[1].Title)
}

func TestGetDetailedNotFound(t *testing.T) {
	router, _ := newOKRouter(t)

	w := doJSON(router, http.MethodGet, "/collections/nope/detailed", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Collection not found", msgOf(t, w))
}

func TestUnknownPath(t *testing.T) {
	router, _ := newOKRouter(t)

	w := doJSON(router, http.MethodGet, "/collectionz", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "path not found", msgOf(t, w))
}

package collections

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"curio/internal/museum"
	"curio/internal/sync"
	"curio/pkg/models"
)

type Handler struct {
	Repo *Repo
	Agg  *museum.Aggregator
	Hub  *sync.Hub
}

func NewHandler(repo *Repo, agg *museum.Aggregator, hub *sync.Hub) *Handler {
	return &Handler{Repo: repo, Agg: agg, Hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/collections", h.list)
	rg.GET("/collections/:collection_id", h.getByID)
	rg.GET("/collections/:collection_id/detailed", h.getDetailed)
	rg.POST("/collections", h.create)
	rg.POST("/collections/:collection_id/artworks", h.addArtwork)
	rg.DELETE("/collections/:collection_id/artworks/:artwork_id", h.removeArtwork)
}

func (h *Handler) list(c *gin.Context) {
	cols, err := h.Repo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "error fetching collections"})
		return
	}
	c.JSON(http.StatusOK, cols)
}

func (h *Handler) getByID(c *gin.Context) {
	col, err := h.Repo.Get(c.Request.Context(), c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "error fetching collection"})
		return
	}
	if col == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Collection not found"})
		return
	}
	c.JSON(http.StatusOK, col)
}

// getDetailed hydrates every stored reference through the resolver. Broken
// refs come back as degraded cards, never as a page-level failure.
func (h *Handler) getDetailed(c *gin.Context) {
	col, err := h.Repo.Get(c.Request.Context(), c.Param("collection_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "error fetching collection"})
		return
	}
	if col == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Collection not found"})
		return
	}

	details, err := h.Agg.ResolveMany(c.Request.Context(), col.Artworks)
	if err != nil {
		// only reachable with a corrupt source tag in storage
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "error resolving artworks"})
		return
	}

	c.JSON(http.StatusOK, models.DetailedCollection{
		CollectionID: col.CollectionID,
		User:         col.User,
		Name:         col.Name,
		Artworks:     details,
	})
}

type createReq struct {
	User     string               `json:"user"`
	Name     string               `json:"name"`
	Artworks *[]models.ArtworkRef `json:"artworks"`
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing or invalid fields"})
		return
	}

	req.User = strings.TrimSpace(req.User)
	req.Name = strings.TrimSpace(req.Name)
	if req.User == "" || req.Name == "" || req.Artworks == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing or invalid fields"})
		return
	}

	for _, ref := range *req.Artworks {
		if ref.ArtworkID == "" || ref.Source == "" {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Each artwork must have an 'artworkId' and 'source'."})
			return
		}
	}

	col := models.Collection{
		CollectionID: uuid.NewString(),
		User:         req.User,
		Name:         req.Name,
		Artworks:     *req.Artworks,
	}

	if err := h.Repo.Create(c.Request.Context(), col); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "error adding collection"})
		return
	}

	h.broadcast(sync.CollectionEvent{
		Type:         sync.EventCollectionCreated,
		CollectionID: col.CollectionID,
		User:         col.User,
	})

	c.JSON(http.StatusCreated, col)
}

type addArtworkReq struct {
	Artwork models.ArtworkRef `json:"artwork"`
}

func (h *Handler) addArtwork(c *gin.Context) {
	collectionID := c.Param("collection_id")

	var req addArtworkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing or invalid fields"})
		return
	}
	if collectionID == "" || req.Artwork.ArtworkID == "" || req.Artwork.Source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing or invalid fields"})
		return
	}

	col, err := h.Repo.AddArtwork(c.Request.Context(), collectionID, req.Artwork)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Collection not found"})
		return
	case errors.Is(err, ErrDuplicateArtwork):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Duplicate artwork found in collection"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error: unable to add artwork"})
		return
	}

	h.broadcast(sync.CollectionEvent{
		Type:         sync.EventArtworkAdded,
		CollectionID: collectionID,
		ArtworkID:    req.Artwork.ArtworkID,
		Source:       req.Artwork.Source,
	})

	c.JSON(http.StatusCreated, col)
}

func (h *Handler) removeArtwork(c *gin.Context) {
	collectionID := c.Param("collection_id")
	artworkID := c.Param("artwork_id")

	if collectionID == "" || artworkID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing or invalid fields"})
		return
	}

	col, err := h.Repo.RemoveArtwork(c.Request.Context(), collectionID, artworkID)
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Collection not found"})
		return
	case errors.Is(err, ErrArtworkNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Artwork not found"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error: unable to remove artwork"})
		return
	}

	h.broadcast(sync.CollectionEvent{
		Type:         sync.EventArtworkRemoved,
		CollectionID: collectionID,
		ArtworkID:    artworkID,
	})

	c.JSON(http.StatusOK, col)
}

func (h *Handler) broadcast(ev sync.CollectionEvent) {
	if h.Hub == nil {
		return
	}
	ev.At = time.Now().UTC()
	go h.Hub.BroadcastJSON(ev)
}

package artworks

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"curio/internal/museum"
	"curio/pkg/models"
)

// Handler exposes the aggregation core over HTTP. It holds no state beyond
// the aggregator itself; every request is an independent fan-out.
type Handler struct {
	Agg *museum.Aggregator
}

func NewHandler(agg *museum.Aggregator) *Handler {
	return &Handler{Agg: agg}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)      // GET /artworks/search?q=...&page=1
	rg.GET("/:artwork_id", h.detail) // GET /artworks/:artwork_id?source=...
}

func (h *Handler) search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "query parameter 'q' required"})
		return
	}

	page := 1
	if s := c.Query("page"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "page must be a positive integer"})
			return
		}
		page = n
	}

	c.JSON(http.StatusOK, h.Agg.CombinedSearch(c.Request.Context(), query, page))
}

func (h *Handler) detail(c *gin.Context) {
	ref := models.ArtworkRef{
		ArtworkID: c.Param("artwork_id"),
		Source:    c.Query("source"),
	}
	if ref.Source == "" {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "query parameter 'source' required"})
		return
	}

	detail, err := h.Agg.Resolve(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "unknown source"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

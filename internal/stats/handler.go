package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/shared/server/respond"
)

// Handler serves the statistics endpoint.
type Handler struct {
	Cache *Cache
}

// NewHandler constructs a Handler.
func NewHandler(cache *Cache) *Handler {
	return &Handler{Cache: cache}
}

// RegisterRoutes attaches the statistics route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/estatisticas", h.get)
}

func (h *Handler) get(c *gin.Context) {
	snap, cached, err := h.Cache.Get(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "Erro ao calcular estatísticas", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": snap, "cached": cached})
}

package postings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches posting routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/vagas", h.list)
	rg.POST("/vagas", h.create)
	rg.PUT("/vagas/:id", h.update)
	rg.DELETE("/vagas/:id", h.remove)
}

func (h *Handler) list(c *gin.Context) {
	onlyActive := c.Query("todas") != "1"

	vagas, err := h.Svc.List(c.Request.Context(), onlyActive)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal", "Erro ao listar vagas", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": vagas, "total": len(vagas)})
}

func (h *Handler) create(c *gin.Context) {
	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Corpo da requisição inválido", nil)
		return
	}

	v, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		h.writeError(c, err, "Erro ao criar vaga")
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"success": true, "data": v})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var in Input
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Corpo da requisição inválido", nil)
		return
	}

	v, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err, "Erro ao atualizar vaga")
		return
	}
	respond.OK(c, gin.H{"success": true, "data": v})
}

func (h *Handler) remove(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err, "Erro ao excluir vaga")
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Vaga excluída com sucesso"})
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Identificador inválido", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Vaga não encontrada", nil)
	case errors.Is(err, ErrSlugTaken):
		respond.Error(c, http.StatusConflict, "slug_taken", "Já existe uma vaga com este slug", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", fallback, nil)
	}
}

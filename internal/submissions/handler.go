package submissions

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/shared/server/respond"
)

// multipartOverhead covers boundary markers, part headers and the form
// fields around the file itself.
const multipartOverhead = 512 << 10

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches submission routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/curriculos", h.list)
	rg.GET("/curriculos/:id", h.get)
	rg.DELETE("/curriculos/:id", h.remove)
}

// RegisterSubmitRoute attaches the public submission endpoint. Separate so
// the router can stack the stricter rate limit on this route only.
func (h *Handler) RegisterSubmitRoute(rg *gin.RouterGroup) {
	rg.POST("/curriculos", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Svc.MaxUploadBytes+multipartOverhead)

	in := Input{
		Nome:     c.PostForm("nome"),
		Telefone: c.PostForm("telefone"),
		CPF:      c.PostForm("cpf"),
		CEP:      c.PostForm("cep"),
		Estado:   c.PostForm("estado"),
		Cidade:   c.PostForm("cidade"),
		Bairro:   c.PostForm("bairro"),
		Rua:      c.PostForm("rua"),
		Numero:   c.PostForm("numero"),
		Vaga:     c.PostForm("vaga"),
	}

	file, err := h.readUpload(c)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			respond.Error(c, http.StatusBadRequest, "validation_error",
				"Arquivo muito grande. O tamanho máximo é 5MB.", nil)
			return
		}
		// Missing file is reported through the validator alongside the
		// other field violations.
		file = nil
	}

	sub, err := h.Svc.Submit(c.Request.Context(), in, file, c.ClientIP())
	if err != nil {
		var valErr *ValidationError
		var dupErr *DuplicateError
		switch {
		case errors.As(err, &valErr):
			respond.Error(c, http.StatusBadRequest, "validation_error",
				"Dados inválidos", valErr.Violations)
		case errors.As(err, &dupErr):
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"success":    false,
				"error":      "duplicate",
				"message":    "Você já enviou um currículo para esta vaga.",
				"data_envio": dupErr.DataEnvio,
			})
		default:
			respond.Error(c, http.StatusInternalServerError, "internal",
				"Erro ao processar o envio. Tente novamente mais tarde.", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"success": true,
		"message": "Currículo enviado com sucesso!",
		"data":    toSubmitResponse(sub),
	})
}

// readUpload pulls the résumé file out of the multipart form into memory.
func (h *Handler) readUpload(c *gin.Context) (*FileUpload, error) {
	fileHeader, err := c.FormFile("curriculo")
	if err != nil {
		return nil, err
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	return &FileUpload{
		Name:        fileHeader.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}, nil
}

func (h *Handler) list(c *gin.Context) {
	filter := ListFilter{
		Busca:       strings.TrimSpace(c.Query("busca")),
		Vaga:        strings.TrimSpace(c.Query("vaga")),
		Data:        strings.TrimSpace(c.Query("data")),
		Estado:      strings.TrimSpace(c.Query("estado")),
		Experiencia: strings.TrimSpace(c.Query("experiencia")),
	}
	if v := c.Query("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.Page = parsed
		}
	}
	if v := c.Query("per_page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			filter.PerPage = parsed
		}
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage < 1 {
		filter.PerPage = 10
	}
	if filter.PerPage > 100 {
		filter.PerPage = 100
	}

	subs, total, err := h.Svc.List(c.Request.Context(), filter)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal",
			"Erro ao listar currículos", nil)
		return
	}

	items := make([]SubmissionResponse, 0, len(subs))
	for _, sub := range subs {
		items = append(items, toResponse(sub))
	}

	respond.OK(c, gin.H{
		"success":  true,
		"data":     items,
		"total":    total,
		"page":     filter.Page,
		"per_page": filter.PerPage,
	})
}

func (h *Handler) get(c *gin.Context) {
	sub, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Currículo não encontrado", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal",
			"Erro ao buscar currículo", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "data": toResponse(sub)})
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Currículo não encontrado", nil)
			return
		}
		var partial *PartialDeleteError
		if errors.As(err, &partial) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success":        false,
				"error":          "partial_delete",
				"message":        "Exclusão incompleta",
				"partial":        true,
				"file_removed":   partial.FileRemoved,
				"record_removed": partial.RecordRemoved,
			})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal",
			"Erro ao excluir currículo", nil)
		return
	}
	respond.OK(c, gin.H{"success": true, "message": "Currículo excluído com sucesso"})
}

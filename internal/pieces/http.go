package pieces

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proyectos-app/proyectos-backend/internal/logging"
)

type Handler struct {
	repo *Repo
	log  *zap.Logger
}

func Register(rg *gin.RouterGroup, repo *Repo, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{repo: repo, log: log}

	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var body Piece
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Cuerpo de la solicitud inválido"})
		return
	}
	if body == nil {
		body = Piece{}
	}

	p, err := h.repo.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, "create", err, "Error al crear la pieza")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Pieza creada correctamente", "pieza": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err, "Error al obtener la lista de piezas")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Lista de piezas:", "datos": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.repo.Get(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		h.fail(c, "get", err, "Error al obtener la pieza por ID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Pieza encontrada:", "datos": p})
}

func (h *Handler) update(c *gin.Context) {
	var body Piece
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Cuerpo de la solicitud inválido"})
		return
	}

	p, err := h.repo.Update(c.Request.Context(), strings.TrimSpace(c.Param("id")), body)
	if err != nil {
		h.fail(c, "update", err, "Error al actualizar la pieza")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Pieza actualizada correctamente", "datos": p})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		h.fail(c, "delete", err, "Error al eliminar la pieza")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Pieza eliminada correctamente"})
}

func (h *Handler) fail(c *gin.Context, op string, err error, failMsg string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": "No se encontró la pieza"})
	case errors.Is(err, ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "ID de pieza inválido"})
	default:
		fields := append(logging.ContextFields(c.Request.Context()), zap.String("op", op), zap.Error(err))
		h.log.Error("piece operation failed", fields...)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": failMsg})
	}
}

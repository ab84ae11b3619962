package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proyectos-app/proyectos-backend/internal/logging"
	"github.com/proyectos-app/proyectos-backend/internal/projects/domain"
)

const (
	msgNotFound  = "No se encontró el proyecto"
	msgInvalidID = "ID de proyecto inválido"
	msgBadBody   = "Cuerpo de la solicitud inválido"
)

func (h *Handler) create(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}

	p, err := h.svc.Create(c.Request.Context(), body)
	if err != nil {
		h.fail(c, "create", err, "Error al crear el proyecto")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Proyecto creado correctamente", "proyecto": p})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, "list", err, "Error al obtener la lista de proyectos")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Lista de proyectos:", "datos": items})
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "get", err, "Error al obtener el proyecto por ID")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Proyecto encontrado:", "datos": p})
}

func (h *Handler) update(c *gin.Context) {
	body, ok := bindObject(c)
	if !ok {
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.Param("id"), body)
	if err != nil {
		h.fail(c, "update", err, "Error al actualizar el proyecto")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Proyecto actualizado correctamente", "datos": p})
}

func (h *Handler) delete(c *gin.Context) {
	if _, err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, "delete", err, "Error al eliminar el proyecto")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Proyecto eliminado correctamente"})
}

func (h *Handler) search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadBody})
		return
	}

	items, err := h.svc.Search(c.Request.Context(), domain.SearchFilter{
		HasPieces: req.TienePiezas,
		Date:      req.Fecha,
	})
	if err != nil {
		h.fail(c, "search", err, "Error al buscar proyectos por filtros")
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "Proyectos encontrados:", "datos": items})
}

func (h *Handler) appendPieces(c *gin.Context) {
	var req appendReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Piezas == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Se esperaba un arreglo de piezas"})
		return
	}

	outcome, err := h.svc.AppendPieces(c.Request.Context(), c.Param("id"), *req.Piezas)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidID) {
			c.JSON(http.StatusBadRequest, gin.H{"message": msgInvalidID})
			return
		}
		h.logFailure(c, "append_pieces", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Error al agregar piezas al proyecto",
			"error":   err.Error(),
		})
		return
	}

	switch outcome {
	case domain.Appended:
		c.JSON(http.StatusOK, gin.H{"message": "Piezas agregadas al proyecto correctamente"})
	case domain.AppendNoChange:
		c.JSON(http.StatusOK, gin.H{"message": "No se realizaron cambios en el proyecto"})
	default:
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	}
}

func (h *Handler) listWithPieces(c *gin.Context) {
	items, err := h.svc.ListWithPieces(c.Request.Context())
	if err != nil {
		h.fail(c, "list_with_pieces", err, "Error al obtener proyectos con piezas")
		return
	}
	c.JSON(http.StatusOK, gin.H{"proyectosConPiezas": items})
}

func (h *Handler) listByDate(c *gin.Context) {
	items, err := h.svc.ListByDate(c.Request.Context())
	if err != nil {
		h.fail(c, "list_by_date", err, "Error al obtener proyectos por fecha")
		return
	}
	c.JSON(http.StatusOK, gin.H{"proyectosPorFecha": items})
}

// fail maps service errors onto {msg} responses. Anything that is not a
// caller mistake is a storage failure: logged, and reported generically.
func (h *Handler) fail(c *gin.Context, op string, err error, failMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": msgNotFound})
	case errors.Is(err, domain.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgInvalidID})
	case errors.Is(err, domain.ErrInvalidDocument):
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadBody, "error": err.Error()})
	default:
		h.logFailure(c, op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": failMsg})
	}
}

func (h *Handler) logFailure(c *gin.Context, op string, err error) {
	fields := append(logging.ContextFields(c.Request.Context()),
		zap.String("op", op),
		zap.String("id", c.Param("id")),
		zap.Error(err),
	)
	h.log.Error("project operation failed", fields...)
}

// bindObject reads a JSON object body; an empty body counts as {}.
func bindObject(c *gin.Context) (domain.Project, bool) {
	var body domain.Project
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"msg": msgBadBody})
		return nil, false
	}
	if body == nil {
		body = domain.Project{}
	}
	return body, true
}

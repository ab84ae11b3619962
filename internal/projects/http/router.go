package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.POST("/buscar", h.search)
	rg.GET("/con-piezas", h.listWithPieces)
	rg.GET("/por-fecha", h.listByDate)
	rg.GET("/:id", h.get)
	rg.PUT("/:id", h.update)
	rg.DELETE("/:id", h.delete)
	rg.PUT("/:id/piezas", h.appendPieces)
}

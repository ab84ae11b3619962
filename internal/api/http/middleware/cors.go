package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/proyectos-app/proyectos-backend/internal/logging"
)

// AllowList is the set of origins permitted to call the API.
type AllowList struct {
	origins       map[string]struct{}
	allowNoOrigin bool
}

// NewAllowList ignores blank entries and trailing slashes.
func NewAllowList(origins []string, allowNoOrigin bool) *AllowList {
	a := &AllowList{origins: make(map[string]struct{}, len(origins)), allowNoOrigin: allowNoOrigin}
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" {
			a.origins[o] = struct{}{}
		}
	}
	return a
}

func (a *AllowList) Allows(origin string) bool {
	if origin == "" {
		return a.allowNoOrigin
	}
	_, ok := a.origins[strings.TrimRight(origin, "/")]
	return ok
}

// CORSGate rejects any request whose Origin is not on the allow-list before it
// reaches a handler, then lets gin-contrib/cors write the CORS headers and
// answer preflights for the allowed ones.
func CORSGate(allow *AllowList, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	headers := cors.New(cors.Config{
		AllowOriginFunc:  allow.Allows,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposeHeaders:    []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           5 * time.Minute,
	})

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if !allow.Allows(origin) {
			fields := append(logging.ContextFields(c.Request.Context()),
				zap.String("origin", origin),
				zap.String("path", c.Request.URL.Path),
			)
			log.Warn("cors rejected", fields...)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "Error de CORS"})
			return
		}
		headers(c)
	}
}

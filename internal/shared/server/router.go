package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/health"
	"github.com/JeffiBR/backend-curriculos/internal/postings"
	"github.com/JeffiBR/backend-curriculos/internal/shared/config"
	"github.com/JeffiBR/backend-curriculos/internal/shared/metrics"
	"github.com/JeffiBR/backend-curriculos/internal/shared/server/middleware"
	"github.com/JeffiBR/backend-curriculos/internal/stats"
	"github.com/JeffiBR/backend-curriculos/internal/submissions"
)

// RouterDeps carries the constructed handlers and limiters into route
// registration.
type RouterDeps struct {
	Config            config.Config
	SubmissionHandler *submissions.Handler
	PostingHandler    *postings.Handler
	StatsHandler      *stats.Handler
	HealthHandler     *health.Handler
	GeneralLimiter    *middleware.RateLimiter
	SubmitLimiter     *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	deps.HealthHandler.RegisterRoutes(r)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api")
	api.Use(middleware.RateLimit(deps.GeneralLimiter,
		"Muitas requisições. Tente novamente mais tarde."))

	deps.SubmissionHandler.RegisterRoutes(api)
	deps.PostingHandler.RegisterRoutes(api)
	deps.StatsHandler.RegisterRoutes(api)

	// The submission endpoint stacks the stricter per-IP limit on top of
	// the general one.
	submit := api.Group("")
	submit.Use(middleware.RateLimit(deps.SubmitLimiter,
		"Limite de envios atingido. Tente novamente mais tarde."))
	deps.SubmissionHandler.RegisterSubmitRoute(submit)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Endpoint não encontrado",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

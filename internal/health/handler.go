package health

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// Handler serves the liveness/readiness endpoint.
type Handler struct {
	DB      *sql.DB
	started time.Time
}

// NewHandler constructs a Handler. DB may be nil when the process runs on
// in-memory storage.
func NewHandler(db *sql.DB) *Handler {
	return &Handler{DB: db, started: time.Now()}
}

// RegisterRoutes attaches the health route to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.get)
}

func (h *Handler) get(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "not_configured"

	if h.DB != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.DB.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "unreachable"
		} else {
			dbStatus = "ok"
		}
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}

	c.JSON(status, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"memory": gin.H{
			"alloc_bytes":       mem.Alloc,
			"total_alloc_bytes": mem.TotalAlloc,
			"sys_bytes":         mem.Sys,
			"num_gc":            mem.NumGC,
		},
		"database": dbStatus,
	})
}

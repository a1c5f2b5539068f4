package api

import (
	"net/http"
	"time"

	"github.com/copyflow/detection-engine/internal/agent"
	"github.com/copyflow/detection-engine/internal/detect"
	"github.com/copyflow/detection-engine/internal/pkg/httputil"
	"github.com/copyflow/detection-engine/internal/repository/postgres"
	"github.com/copyflow/detection-engine/internal/store"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	engine        *detect.Engine
	store         store.Store
	responder     agent.Responder
	detectionRepo *postgres.DetectionRepo
	chatLimit     int
	startedAt     time.Time
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(engine *detect.Engine, st store.Store, chatLimitPerMinute int) *Handlers {
	return &Handlers{
		engine:    engine,
		store:     st,
		responder: agent.NewRuleResponder(),
		chatLimit: chatLimitPerMinute,
		startedAt: time.Now(),
	}
}

// SetResponder swaps the support-chat responder.
func (h *Handlers) SetResponder(r agent.Responder) {
	h.responder = r
}

// SetDetectionRepo attaches the optional audit repository backing
// GET /api/detect/stats.
func (h *Handlers) SetDetectionRepo(repo *postgres.DetectionRepo) {
	h.detectionRepo = repo
}

// HealthCheck returns the health status of the API.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if err := h.store.Ping(r.Context()); err != nil {
		status = "degraded"
	}
	httputil.OK(w, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
	})
}

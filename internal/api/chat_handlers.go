package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/copyflow/detection-engine/internal/pkg/httputil"
	"github.com/copyflow/detection-engine/internal/pkg/logger"
)

type chatRequest struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

// HandleChat answers a support-chat message. The chat surface has its
// own rate window, independent of detection. POST /api/support/chat
func (h *Handlers) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		httputil.CodedError(w, http.StatusBadRequest, httputil.CodeValidation, "message is required")
		return
	}

	identity := req.UserID
	if identity == "" {
		identity = r.RemoteAddr
	}
	count, err := h.store.IncrWindow(r.Context(), "ratelimit:chat:"+identity, time.Minute)
	if err != nil {
		logger.Warn("chat rate limit check failed", "identity", identity, "error", err.Error())
	} else if count > int64(h.chatLimit) {
		httputil.RateLimited(w, "chat message limit exceeded", 60)
		return
	}

	resp, err := h.responder.Respond(r.Context(), req.Message)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{
		"success":  true,
		"response": resp,
	})
}

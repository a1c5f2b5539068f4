package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/copyflow/detection-engine/internal/detect"
	"github.com/copyflow/detection-engine/internal/pkg/httputil"
)

// HandleDetect runs platform detection for an uploaded header set.
// POST /api/detect
func (h *Handlers) HandleDetect(w http.ResponseWriter, r *http.Request) {
	var req detect.Request
	if !httputil.Decode(w, r, &req) {
		return
	}
	req.Identity = callerIdentity(&req, r)

	resp, err := h.engine.Detect(r.Context(), &req)
	if err != nil {
		writeDetectError(w, r, err)
		return
	}

	if resp.ProcessingInfo.Cached {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.Header().Set("X-Processing-Time", fmt.Sprintf("%dms", resp.ProcessingInfo.ProcessingTime))
	if resp.FastPath {
		w.Header().Set("X-Fast-Path", "TRUE")
	}
	httputil.OK(w, resp)
}

// writeDetectError maps the engine's error taxonomy onto HTTP codes.
// Anything unrecognized becomes a safe generic failure.
func writeDetectError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *detect.ValidationError
	var invalidDataErr *detect.InvalidDataError
	var rateLimitErr *detect.RateLimitError
	var invariantErr *detect.InvariantError

	switch {
	case errors.As(err, &validationErr):
		httputil.CodedError(w, http.StatusBadRequest, httputil.CodeValidation, validationErr.Error())
	case errors.As(err, &invalidDataErr):
		httputil.CodedError(w, http.StatusBadRequest, httputil.CodeInvalidData, invalidDataErr.Error())
	case errors.As(err, &rateLimitErr):
		httputil.RateLimited(w, "detection request limit exceeded", int(rateLimitErr.RetryAfter.Seconds()))
	case errors.As(err, &invariantErr):
		httputil.CodedError(w, http.StatusInternalServerError, httputil.CodeDetection, "detection produced an invalid result")
	case errors.Is(err, r.Context().Err()) && r.Context().Err() != nil:
		// Caller disconnected; nothing useful to write.
	default:
		httputil.InternalError(w, err)
	}
}

// HandlePlatforms describes the supported platforms and capabilities.
// Purely descriptive; no analysis is performed. GET /api/platforms
func (h *Handlers) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	platforms := make([]map[string]interface{}, 0, len(detect.KnownPlatforms))
	for _, p := range detect.KnownPlatforms {
		platforms = append(platforms, map[string]interface{}{
			"id":                     string(p),
			"supportedOptimizations": detect.SupportedOptimizations(p),
		})
	}

	languages := make([]string, 0, len(detect.SupportedLanguages))
	for code := range detect.SupportedLanguages {
		languages = append(languages, code)
	}

	httputil.OK(w, map[string]interface{}{
		"platforms": platforms,
		"capabilities": []string{
			"confidence scoring",
			"column mapping",
			"export planning",
			"multi-language",
			"caching",
		},
		"supportedLanguages": languages,
	})
}

// HandleDetectStats serves aggregate detection counts from the audit
// repository. GET /api/detect/stats
func (h *Handlers) HandleDetectStats(w http.ResponseWriter, r *http.Request) {
	if h.detectionRepo == nil {
		httputil.OK(w, map[string]interface{}{
			"enabled": false,
			"stats":   []interface{}{},
		})
		return
	}
	stats, err := h.detectionRepo.Stats(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.OK(w, map[string]interface{}{
		"enabled": true,
		"stats":   stats,
	})
}

// callerIdentity picks the rate-limit key: the caller-supplied user id
// when present, else the network origin.
func callerIdentity(req *detect.Request, r *http.Request) string {
	if req.UserID != "" {
		return req.UserID
	}
	return r.RemoteAddr
}

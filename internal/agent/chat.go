package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/copyflow/detection-engine/internal/detect"
)

// ChatResponse is the support agent's answer to a user query.
type ChatResponse struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Responder answers support-chat queries. The detection core never calls
// a responder; it only serves the chat surface.
type Responder interface {
	Respond(ctx context.Context, query string) (ChatResponse, error)
}

// RuleResponder is the default keyword-intent responder over the
// detection domain. It needs no external service.
type RuleResponder struct{}

func NewRuleResponder() *RuleResponder { return &RuleResponder{} }

// Respond detects intent and answers accordingly. Order matters for
// priority: platform questions beat generic export questions.
func (a *RuleResponder) Respond(_ context.Context, query string) (ChatResponse, error) {
	q := strings.ToLower(query)

	switch {
	case containsAny(q, []string{"platform", "amazon", "shopify", "ebay", "etsy", "woocommerce"}):
		return a.handlePlatformQuery(q), nil
	case containsAny(q, []string{"confidence", "score", "sure", "accurate"}):
		return a.handleConfidenceQuery(), nil
	case containsAny(q, []string{"column", "mapping", "header", "field"}):
		return a.handleMappingQuery(), nil
	case containsAny(q, []string{"export", "output", "file", "download"}):
		return a.handleExportQuery(), nil
	case containsAny(q, []string{"limit", "rate", "429", "too many"}):
		return a.handleRateLimitQuery(), nil
	default:
		return ChatResponse{
			Message: "I can help with platform detection, column mapping, confidence scores, and export structure.",
			Suggestions: []string{
				"Which platforms do you support?",
				"Why is my confidence score low?",
				"What columns will the export contain?",
			},
		}, nil
	}
}

func (a *RuleResponder) handlePlatformQuery(q string) ChatResponse {
	for _, p := range detect.KnownPlatforms {
		if p == detect.PlatformUniversal {
			continue
		}
		if strings.Contains(q, string(p)) {
			opts := detect.SupportedOptimizations(p)
			return ChatResponse{
				Message: fmt.Sprintf("For %s exports we support: %s.", p, strings.Join(opts, ", ")),
			}
		}
	}
	names := make([]string, 0, len(detect.KnownPlatforms))
	for _, p := range detect.KnownPlatforms {
		names = append(names, string(p))
	}
	return ChatResponse{
		Message:     fmt.Sprintf("We recognize exports from %s. Anything else falls back to the universal layout.", strings.Join(names[:len(names)-1], ", ")),
		Suggestions: []string{"What does the universal layout include?"},
	}
}

func (a *RuleResponder) handleConfidenceQuery() ChatResponse {
	return ChatResponse{
		Message: "Confidence reflects how much platform-specific evidence we found in your headers and sample rows. " +
			"Below 50 we suggest picking the platform manually; 80 or above is safe to proceed.",
		Suggestions: []string{"How do I select a platform manually?"},
	}
}

func (a *RuleResponder) handleMappingQuery() ChatResponse {
	return ChatResponse{
		Message: "We map your columns onto product name, description, price, SKU and category. " +
			"Each field binds to at most one column, and ambiguous headers resolve in that priority order.",
	}
}

func (a *RuleResponder) handleExportQuery() ChatResponse {
	return ChatResponse{
		Message: "Your export keeps every original column unchanged, then appends the generated CopyFlow columns " +
			"and any platform-specific columns. Nothing is ever dropped or renamed.",
	}
}

func (a *RuleResponder) handleRateLimitQuery() ChatResponse {
	return ChatResponse{
		Message: "Detection requests are limited to 60 per minute and chat messages to 20 per minute. " +
			"A 429 response includes a retry hint; the window resets within a minute.",
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

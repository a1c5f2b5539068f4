package detect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/copyflow/detection-engine/internal/pkg/logger"
	"github.com/copyflow/detection-engine/internal/store"
)

// Config holds the orchestrator policy knobs. The cache-key sample
// bounds (rows × cells) are an intentional approximation: requests that
// differ only beyond them are cache-equivalent. They are tunables, not
// hidden constants.
type Config struct {
	MaxHeaders         int
	MaxSampleRows      int
	FastPathMaxHeaders int
	RateLimitPerMinute int
	AnalysisTimeout    time.Duration
	CacheTTL           time.Duration
	CacheSampleRows    int
	CacheSampleCells   int
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MaxHeaders:         100,
		MaxSampleRows:      50,
		FastPathMaxHeaders: 10,
		RateLimitPerMinute: 60,
		AnalysisTimeout:    5 * time.Second,
		CacheTTL:           24 * time.Hour,
		CacheSampleRows:    3,
		CacheSampleCells:   5,
	}
}

// Fast-path and timeout-fallback confidences are contract values, not
// tunables.
const (
	fastPathConfidence = 60
	fallbackConfidence = 30
)

// Recorder persists a detection audit record. Implementations are
// best-effort; the engine logs and continues on failure.
type Recorder interface {
	RecordDetection(ctx context.Context, rec Record) error
}

// Record is one detection audit row.
type Record struct {
	ID           string
	Identity     string
	Platform     Platform
	Confidence   int
	HeaderCount  int
	FastPath     bool
	Cached       bool
	ProcessingMS int64
	CreatedAt    time.Time
}

// Request is a detection request after JSON decoding. Identity is the
// rate-limit key (user id when supplied, else network origin) and is
// set by the transport layer.
type Request struct {
	Headers    []string   `json:"headers"`
	SampleData [][]string `json:"sampleData"`
	Language   string     `json:"language"`
	UserID     string     `json:"userId"`
	Identity   string     `json:"-"`
}

// ProcessingInfo reports how a response was produced.
type ProcessingInfo struct {
	ProcessingTime int64 `json:"processingTime"`
	EvidenceCount  int   `json:"evidenceCount"`
	Cached         bool  `json:"cached"`
}

// Response is the assembled detection response.
type Response struct {
	Success                bool            `json:"success"`
	DetectedPlatform       Platform        `json:"detectedPlatform"`
	Confidence             int             `json:"confidence"`
	ColumnMapping          ColumnMapping   `json:"columnMapping"`
	ExportStructure        ExportStructure `json:"exportStructure"`
	Recommendations        []string        `json:"recommendations"`
	SupportedOptimizations []string        `json:"supportedOptimizations"`
	Warnings               []string        `json:"warnings"`
	ProcessingInfo         ProcessingInfo  `json:"processingInfo"`

	// FastPath is a transport hint (X-Fast-Path), not part of the body.
	FastPath bool `json:"-"`
}

// analyzer is the full-analysis dependency of the engine. *Classifier
// is the production implementation.
type analyzer interface {
	Analyze(headers []string, sampleData [][]string) *Result
}

// Engine is the detection orchestrator: it validates input, enforces
// rate limits, consults the cache, chooses the fast or full analysis
// path and assembles the final response.
type Engine struct {
	store      store.Store
	classifier analyzer
	cfg        Config
	recorder   Recorder
}

func NewEngine(st store.Store, cfg Config) *Engine {
	return &Engine{
		store:      st,
		classifier: NewClassifier(),
		cfg:        cfg,
	}
}

// SetRecorder attaches an optional audit recorder.
func (e *Engine) SetRecorder(r Recorder) { e.recorder = r }

// Detect runs the full request policy. Errors are always one of the
// typed errors in errors.go; timeouts are not errors.
func (e *Engine) Detect(ctx context.Context, req *Request) (*Response, error) {
	start := time.Now()

	if err := e.validate(req); err != nil {
		return nil, err
	}

	if err := e.allow(ctx, "ratelimit:detect:"+req.Identity, e.cfg.RateLimitPerMinute); err != nil {
		return nil, err
	}

	key := e.cacheKey(req)
	var cached Response
	hit, err := e.store.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "error", err.Error())
	}
	if hit {
		cached.ProcessingInfo.Cached = true
		cached.ProcessingInfo.ProcessingTime = 0
		e.record(ctx, req, &cached, start)
		return &cached, nil
	}

	var res *Result
	fastPath := len(req.Headers) <= e.cfg.FastPathMaxHeaders && len(req.SampleData) == 0
	if fastPath {
		res = e.fastAnalyze(req.Headers)
	} else {
		res = e.fullAnalyze(ctx, req)
		if res == nil {
			// Caller disconnected mid-analysis; abandon.
			return nil, ctx.Err()
		}
	}

	res.ExportStructure = PlanExport(req.Headers, res.DetectedPlatform)

	resp := &Response{
		Success:                true,
		DetectedPlatform:       res.DetectedPlatform,
		Confidence:             res.Confidence,
		ColumnMapping:          res.ColumnMapping,
		ExportStructure:        res.ExportStructure,
		Recommendations:        Recommendations(res),
		SupportedOptimizations: SupportedOptimizations(res.DetectedPlatform),
		Warnings:               res.Warnings,
		ProcessingInfo: ProcessingInfo{
			ProcessingTime: time.Since(start).Milliseconds(),
			EvidenceCount:  len(res.Evidence),
			Cached:         false,
		},
		FastPath: fastPath,
	}

	if err := validateResponse(req.Headers, resp); err != nil {
		logger.Error("detection invariant violated", "error", err.Error())
		return nil, err
	}

	if err := e.store.SetJSON(ctx, key, resp, e.cfg.CacheTTL); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err.Error())
	}

	e.record(ctx, req, resp, start)
	return resp, nil
}

func (e *Engine) validate(req *Request) error {
	if len(req.Headers) == 0 {
		return &ValidationError{Msg: "at least one header is required"}
	}
	if len(req.Headers) > e.cfg.MaxHeaders {
		return &ValidationError{Msg: fmt.Sprintf("too many headers: %d (max %d)", len(req.Headers), e.cfg.MaxHeaders)}
	}
	for i, h := range req.Headers {
		if strings.TrimSpace(h) == "" {
			return &ValidationError{Msg: fmt.Sprintf("header %d is empty", i+1)}
		}
	}
	if len(req.SampleData) > e.cfg.MaxSampleRows {
		return &ValidationError{Msg: fmt.Sprintf("too many sample rows: %d (max %d)", len(req.SampleData), e.cfg.MaxSampleRows)}
	}
	if req.Language == "" {
		req.Language = "en"
	}
	if !SupportedLanguages[req.Language] {
		return &ValidationError{Msg: fmt.Sprintf("unsupported language %q", req.Language)}
	}

	if len(req.SampleData) > 0 {
		allMismatched := true
		for _, row := range req.SampleData {
			if len(row) == len(req.Headers) {
				allMismatched = false
				break
			}
		}
		if allMismatched {
			return &InvalidDataError{Msg: "no sample row matches the header count"}
		}
	}
	return nil
}

// allow enforces a fixed-window rate limit. Store failures are logged
// and the request is allowed, so a degraded store never blocks traffic.
func (e *Engine) allow(ctx context.Context, key string, limit int) error {
	count, err := e.store.IncrWindow(ctx, key, time.Minute)
	if err != nil {
		logger.Warn("rate limit check failed", "key", key, "error", err.Error())
		return nil
	}
	if count > int64(limit) {
		return &RateLimitError{RetryAfter: time.Minute}
	}
	return nil
}

// fastAnalyze is the classifier-skipping route for small, sample-less
// requests: mapper only, universal platform, fixed confidence.
func (e *Engine) fastAnalyze(headers []string) *Result {
	return &Result{
		DetectedPlatform: PlatformUniversal,
		Confidence:       fastPathConfidence,
		Evidence:         []Evidence{},
		ColumnMapping:    MapColumns(headers),
		Warnings:         []string{},
	}
}

// fullAnalyze races the classifier against the analysis timeout. The
// timeout arm returns a fully-formed degraded result, never an error, so
// downstream assembly needs no special casing. Returns nil only when the
// caller disconnected.
func (e *Engine) fullAnalyze(ctx context.Context, req *Request) *Result {
	resultCh := make(chan *Result, 1)
	go func() {
		resultCh <- e.classifier.Analyze(req.Headers, req.SampleData)
	}()

	select {
	case res := <-resultCh:
		return res
	case <-time.After(e.cfg.AnalysisTimeout):
		logger.Warn("full analysis timed out", "timeout", e.cfg.AnalysisTimeout.String(), "headers", fmt.Sprintf("%d", len(req.Headers)))
		return &Result{
			DetectedPlatform: PlatformUniversal,
			Confidence:       fallbackConfidence,
			Evidence:         []Evidence{},
			ColumnMapping:    MapColumns(req.Headers),
			Warnings: []string{
				fmt.Sprintf("full analysis exceeded the %s timeout; returning a degraded universal result", e.cfg.AnalysisTimeout),
			},
		}
	case <-ctx.Done():
		return nil
	}
}

// cacheKey digests the sorted headers plus the leading sample window.
// Two requests identical within that window are cache-equivalent.
func (e *Engine) cacheKey(req *Request) string {
	sorted := make([]string, len(req.Headers))
	copy(sorted, req.Headers)
	sort.Strings(sorted)

	h := sha256.New()
	for _, s := range sorted {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	rows := req.SampleData
	if len(rows) > e.cfg.CacheSampleRows {
		rows = rows[:e.cfg.CacheSampleRows]
	}
	for _, row := range rows {
		cells := row
		if len(cells) > e.cfg.CacheSampleCells {
			cells = cells[:e.cfg.CacheSampleCells]
		}
		for _, c := range cells {
			h.Write([]byte(c))
			h.Write([]byte{1})
		}
		h.Write([]byte{2})
	}
	return "detect:cache:" + hex.EncodeToString(h.Sum(nil))
}

// validateResponse checks the assembled response against the result
// invariants before it leaves the engine.
func validateResponse(headers []string, resp *Response) error {
	es := resp.ExportStructure
	if es.TotalColumns != len(es.PreserveOriginalColumns)+len(es.AddCopyFlowColumns)+len(es.PlatformSpecificColumns) {
		return &InvariantError{Msg: "totalColumns does not equal the sum of its parts"}
	}
	if len(es.PreserveOriginalColumns) != len(headers) {
		return &InvariantError{Msg: "original columns were dropped"}
	}
	for i, h := range headers {
		if es.PreserveOriginalColumns[i] != h {
			return &InvariantError{Msg: fmt.Sprintf("original column %d was renamed or reordered", i+1)}
		}
	}
	if resp.Confidence < 0 || resp.Confidence > 100 {
		return &InvariantError{Msg: fmt.Sprintf("confidence %d out of range", resp.Confidence)}
	}

	inInput := make(map[string]bool, len(headers))
	for _, h := range headers {
		inInput[h] = true
	}
	seen := make(map[string]bool, len(resp.ColumnMapping))
	for field, header := range resp.ColumnMapping {
		if !inInput[header] {
			return &InvariantError{Msg: fmt.Sprintf("field %s mapped to unknown header %q", field, header)}
		}
		if seen[header] {
			return &InvariantError{Msg: fmt.Sprintf("header %q assigned to more than one field", header)}
		}
		seen[header] = true
	}
	return nil
}

// record persists a best-effort audit row when a recorder is attached.
func (e *Engine) record(ctx context.Context, req *Request, resp *Response, start time.Time) {
	if e.recorder == nil {
		return
	}
	rec := Record{
		ID:           uuid.NewString(),
		Identity:     req.Identity,
		Platform:     resp.DetectedPlatform,
		Confidence:   resp.Confidence,
		HeaderCount:  len(req.Headers),
		FastPath:     resp.FastPath,
		Cached:       resp.ProcessingInfo.Cached,
		ProcessingMS: time.Since(start).Milliseconds(),
		CreatedAt:    time.Now().UTC(),
	}
	if err := e.recorder.RecordDetection(ctx, rec); err != nil {
		logger.Warn("detection audit write failed", "error", err.Error())
	}
}

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/copyflow/detection-engine/internal/detect"
)

// DetectionRepo implements detect.Recorder against PostgreSQL. Recording
// is best-effort: the engine logs and continues when a write fails, so
// the audit trail never blocks detection.
type DetectionRepo struct{ db *sql.DB }

// NewDetectionRepo creates a Postgres-backed detection audit repository.
func NewDetectionRepo(db *sql.DB) *DetectionRepo { return &DetectionRepo{db: db} }

// RecordDetection inserts one audit row for a served detection.
func (r *DetectionRepo) RecordDetection(ctx context.Context, rec detect.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO detection_events (id, identity, platform, confidence,
		       header_count, fast_path, cached, processing_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, rec.ID, rec.Identity, string(rec.Platform), rec.Confidence,
		rec.HeaderCount, rec.FastPath, rec.Cached, rec.ProcessingMS, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("record detection: %w", err)
	}
	return nil
}

// PlatformStat is an aggregate of served detections for one platform.
type PlatformStat struct {
	Platform      string  `json:"platform"`
	Detections    int     `json:"detections"`
	AvgConfidence float64 `json:"avgConfidence"`
	FastPathShare float64 `json:"fastPathShare"`
	CacheHitShare float64 `json:"cacheHitShare"`
}

// Stats returns per-platform aggregates over the audit trail.
func (r *DetectionRepo) Stats(ctx context.Context) ([]PlatformStat, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT platform,
		       COUNT(*),
		       COALESCE(AVG(confidence), 0),
		       COALESCE(AVG(CASE WHEN fast_path THEN 1.0 ELSE 0.0 END), 0),
		       COALESCE(AVG(CASE WHEN cached THEN 1.0 ELSE 0.0 END), 0)
		FROM detection_events
		GROUP BY platform
		ORDER BY COUNT(*) DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query detection stats: %w", err)
	}
	defer rows.Close()

	var stats []PlatformStat
	for rows.Next() {
		var s PlatformStat
		if err := rows.Scan(&s.Platform, &s.Detections, &s.AvgConfidence, &s.FastPathShare, &s.CacheHitShare); err != nil {
			return nil, fmt.Errorf("scan detection stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

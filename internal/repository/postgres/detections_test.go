package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyflow/detection-engine/internal/detect"
)

func TestRecordDetection(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDetectionRepo(db)
	rec := detect.Record{
		ID:           "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		Identity:     "user-1",
		Platform:     detect.PlatformAmazon,
		Confidence:   85,
		HeaderCount:  12,
		FastPath:     false,
		Cached:       false,
		ProcessingMS: 42,
		CreatedAt:    time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO detection_events").
		WithArgs(rec.ID, rec.Identity, "amazon", rec.Confidence,
			rec.HeaderCount, rec.FastPath, rec.Cached, rec.ProcessingMS, rec.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RecordDetection(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordDetectionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDetectionRepo(db)

	mock.ExpectExec("INSERT INTO detection_events").
		WillReturnError(errors.New("connection reset"))

	err = repo.RecordDetection(context.Background(), detect.Record{ID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record detection")
}

func TestStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDetectionRepo(db)

	rows := sqlmock.NewRows([]string{"platform", "count", "avg", "fast", "cached"}).
		AddRow("amazon", 120, 84.5, 0.25, 0.6).
		AddRow("shopify", 45, 78.0, 0.4, 0.5)

	mock.ExpectQuery("SELECT platform,").WillReturnRows(rows)

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, "amazon", stats[0].Platform)
	assert.Equal(t, 120, stats[0].Detections)
	assert.InDelta(t, 84.5, stats[0].AvgConfidence, 0.001)
	assert.InDelta(t, 0.25, stats[0].FastPathShare, 0.001)
	assert.Equal(t, "shopify", stats[1].Platform)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDetectionRepo(db)
	mock.ExpectQuery("SELECT platform,").WillReturnError(errors.New("relation does not exist"))

	_, err = repo.Stats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query detection stats")
}

package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeAmazonHeaders(t *testing.T) {
	c := NewClassifier()
	res := c.Analyze([]string{"asin", "fulfilled-by", "title", "price"}, nil)

	assert.Equal(t, PlatformAmazon, res.DetectedPlatform)
	assert.NotEmpty(t, res.Evidence)
	assert.GreaterOrEqual(t, res.Confidence, 80)
	assert.LessOrEqual(t, res.Confidence, 100)
	assert.Equal(t, "asin", res.ColumnMapping[FieldSKU])
}

func TestAnalyzeShopifyHeaders(t *testing.T) {
	c := NewClassifier()
	res := c.Analyze([]string{"Handle", "Title", "Body (HTML)", "Vendor", "Variant SKU"}, nil)

	assert.Equal(t, PlatformShopify, res.DetectedPlatform)
	assert.Equal(t, "Body (HTML)", res.ColumnMapping[FieldDescription])
	assert.Equal(t, "Variant SKU", res.ColumnMapping[FieldSKU])
}

func TestAnalyzeSampleValueEvidence(t *testing.T) {
	c := NewClassifier()
	headers := []string{"identifier", "label"}
	sample := [][]string{
		{"B08N5WRWNW", "Widget"},
		{"B07XJ8C8F5", "Gadget"},
	}

	res := c.Analyze(headers, sample)
	assert.Equal(t, PlatformAmazon, res.DetectedPlatform)

	found := false
	for _, ev := range res.Evidence {
		if ev.Platform == PlatformAmazon && ev.Header == "identifier" {
			found = true
		}
	}
	assert.True(t, found, "expected ASIN-format evidence for the identifier column")
}

func TestAnalyzeNoPlatformEvidence(t *testing.T) {
	c := NewClassifier()
	res := c.Analyze([]string{"title", "price", "quantity"}, nil)

	assert.Equal(t, PlatformUniversal, res.DetectedPlatform)
	assert.LessOrEqual(t, res.Confidence, 40)
	assert.Empty(t, res.Evidence)
}

func TestAnalyzeConfidenceMonotonic(t *testing.T) {
	c := NewClassifier()
	one := c.Analyze([]string{"asin"}, nil)
	two := c.Analyze([]string{"asin", "fulfilled-by"}, nil)
	three := c.Analyze([]string{"asin", "fulfilled-by", "buy box price"}, nil)

	assert.GreaterOrEqual(t, two.Confidence, one.Confidence)
	assert.GreaterOrEqual(t, three.Confidence, two.Confidence)
}

func TestAnalyzeToleratesMalformedSample(t *testing.T) {
	c := NewClassifier()
	headers := []string{"title", "price"}
	sample := [][]string{
		{"Widget", "9.99", "extra-cell"},
		{},
		{"", "  "},
		{"Gadget", "19.99"},
	}

	res := c.Analyze(headers, sample)
	require.NotNil(t, res)

	// Ragged row and the two empty rows are flagged, not fatal.
	assert.Len(t, res.Warnings, 3)
}

func TestAnalyzeEmptySampleData(t *testing.T) {
	c := NewClassifier()
	res := c.Analyze([]string{"title"}, [][]string{})

	require.NotNil(t, res)
	assert.Empty(t, res.Warnings)
}

func TestValuePatternCountedOncePerColumn(t *testing.T) {
	c := NewClassifier()
	headers := []string{"sku code"}
	sample := [][]string{
		{"B08N5WRWNW"},
		{"B07XJ8C8F5"},
		{"B09ABCD123"},
	}

	res := c.Analyze(headers, sample)

	count := 0
	for _, ev := range res.Evidence {
		if ev.Platform == PlatformAmazon && ev.Field == "" {
			count++
		}
	}
	assert.Equal(t, 1, count, "value pattern should count once per column")
}

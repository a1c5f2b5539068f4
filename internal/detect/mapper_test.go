package detect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapColumns(t *testing.T) {
	headers := []string{"Product Title", "Desc", "Price", "ASIN"}
	mapping := MapColumns(headers)

	assert.Equal(t, "Product Title", mapping[FieldProductName])
	assert.Equal(t, "Desc", mapping[FieldDescription])
	assert.Equal(t, "Price", mapping[FieldPrice])
	assert.Equal(t, "ASIN", mapping[FieldSKU])
	assert.NotContains(t, mapping, FieldCategory)
}

func TestMapColumnsFirstMatchWins(t *testing.T) {
	// Both headers match productName; the first keeps the slot and the
	// second is ignored, not demoted to another field.
	mapping := MapColumns([]string{"Product Name", "Item Title", "Price"})

	assert.Equal(t, "Product Name", mapping[FieldProductName])
	assert.Equal(t, "Price", mapping[FieldPrice])
	assert.Len(t, mapping, 2)
}

func TestMapColumnsNoDuplicateAssignment(t *testing.T) {
	headers := []string{"price", "price", "cost"}
	mapping := MapColumns(headers)

	seen := map[string]int{}
	for _, h := range mapping {
		seen[h]++
	}
	for h, n := range seen {
		assert.Equal(t, 1, n, "header %q assigned %d times", h, n)
	}
}

func TestMapColumnsOnlyInputHeaders(t *testing.T) {
	headers := []string{"title", "amount"}
	mapping := MapColumns(headers)

	valid := map[string]bool{"title": true, "amount": true}
	for field, h := range mapping {
		assert.True(t, valid[h], "field %s mapped to header %q not in input", field, h)
	}
}

func TestMapColumnsWithEvidencePrefersConfirmedHeader(t *testing.T) {
	// Plain matching would bind sku to "code" (earlier in input); the
	// Amazon scanner confirmed "asin" so it takes the slot.
	headers := []string{"code", "asin", "title"}
	evidence := []Evidence{
		{Signal: "header matches amazon token", Platform: PlatformAmazon, Field: FieldSKU, Header: "asin", Strength: 30},
	}

	mapping := MapColumnsWithEvidence(headers, evidence)
	assert.Equal(t, "asin", mapping[FieldSKU])
	assert.Equal(t, "title", mapping[FieldProductName])
}

func TestMapColumnsWithEvidenceIgnoresForeignHeaders(t *testing.T) {
	headers := []string{"title"}
	evidence := []Evidence{
		{Signal: "bogus", Field: FieldSKU, Header: "not-in-input", Strength: 99},
	}

	mapping := MapColumnsWithEvidence(headers, evidence)
	assert.NotContains(t, mapping, FieldSKU)
}

func TestMapColumnsWithEvidenceStrongerWins(t *testing.T) {
	headers := []string{"variant sku", "asin"}
	evidence := []Evidence{
		{Signal: "shopify", Platform: PlatformShopify, Field: FieldSKU, Header: "variant sku", Strength: 25},
		{Signal: "amazon", Platform: PlatformAmazon, Field: FieldSKU, Header: "asin", Strength: 30},
	}

	mapping := MapColumnsWithEvidence(headers, evidence)
	assert.Equal(t, "asin", mapping[FieldSKU])

	// No header is double-assigned after the replacement.
	seen := map[string]bool{}
	for _, h := range mapping {
		assert.False(t, seen[h])
		seen[h] = true
	}
}

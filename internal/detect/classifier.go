package detect

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// platformSignal is one header keyword that points at a platform. Some
// signals also imply a semantic field directly (an "asin" header is both
// Amazon evidence and the SKU column).
type platformSignal struct {
	Platform Platform
	Keyword  string
	Strength int
	Field    SemanticField
}

// headerSignals is the platform vocabulary scanned against every header.
// Strengths reflect how discriminating each token is: "asin" only ever
// appears in Amazon exports, "vendor" is weaker Shopify evidence.
var headerSignals = []platformSignal{
	{PlatformAmazon, "asin", 30, FieldSKU},
	{PlatformAmazon, "fulfilled-by", 25, ""},
	{PlatformAmazon, "fulfillment-channel", 25, ""},
	{PlatformAmazon, "buy box", 20, ""},
	{PlatformAmazon, "browse node", 20, FieldCategory},

	{PlatformShopify, "handle", 30, ""},
	{PlatformShopify, "body (html)", 30, FieldDescription},
	{PlatformShopify, "variant sku", 25, FieldSKU},
	{PlatformShopify, "variant", 20, ""},
	{PlatformShopify, "vendor", 15, ""},

	{PlatformEbay, "listing_id", 30, ""},
	{PlatformEbay, "listing id", 30, ""},
	{PlatformEbay, "item number", 25, FieldSKU},
	{PlatformEbay, "best offer", 20, ""},

	{PlatformEtsy, "who_made", 30, ""},
	{PlatformEtsy, "when_made", 30, ""},
	{PlatformEtsy, "is_supply", 25, ""},
	{PlatformEtsy, "occasion", 15, ""},

	{PlatformWooCommerce, "regular_price", 30, FieldPrice},
	{PlatformWooCommerce, "sale_price", 25, ""},
	{PlatformWooCommerce, "post_title", 25, FieldProductName},
	{PlatformWooCommerce, "tax_class", 20, ""},
	{PlatformWooCommerce, "short_description", 20, FieldDescription},
}

// valueSignal is a platform-characteristic cell format scanned against
// sample data.
type valueSignal struct {
	Platform Platform
	Name     string
	Pattern  *regexp.Regexp
	Strength int
}

var valueSignals = []valueSignal{
	{PlatformAmazon, "asin-format value", regexp.MustCompile(`^B0[A-Z0-9]{8}$`), 20},
	{PlatformShopify, "handle-style slug", regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+){2,}$`), 10},
	{PlatformEbay, "numeric listing id", regexp.MustCompile(`^\d{12}$`), 10},
}

// universalBaseConfidence is the floor confidence when no platform
// vocabulary matched at all; mapped fields nudge it up to at most 40.
const universalBaseConfidence = 30

// Classifier performs full evidence-based platform analysis.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Analyze scans headers and optional sample rows, accumulates evidence,
// and produces a detection result with confidence, mapping and warnings
// populated. The export structure is left to the planner. Analyze never
// fails on malformed-but-structurally-valid input: ragged or empty
// sample rows produce warnings, not errors.
func (c *Classifier) Analyze(headers []string, sampleData [][]string) *Result {
	start := time.Now()

	var evidence []Evidence
	warnings := []string{}

	for _, h := range headers {
		norm := normalizeHeader(h)
		for _, sig := range headerSignals {
			if strings.Contains(norm, sig.Keyword) {
				evidence = append(evidence, Evidence{
					Signal:   fmt.Sprintf("header %q matches %s token %q", h, sig.Platform, sig.Keyword),
					Platform: sig.Platform,
					Field:    sig.Field,
					Header:   h,
					Strength: sig.Strength,
				})
			}
		}
	}

	evidence = append(evidence, c.scanSampleValues(headers, sampleData, &warnings)...)

	platform, confidence := scoreEvidence(evidence)
	mapping := MapColumnsWithEvidence(headers, evidence)

	if platform == PlatformUniversal {
		confidence = universalConfidence(mapping)
	}

	return &Result{
		DetectedPlatform: platform,
		Confidence:       confidence,
		Evidence:         evidence,
		ColumnMapping:    mapping,
		Warnings:         warnings,
		ProcessingTime:   time.Since(start),
	}
}

// scanSampleValues tests each cell against the platform value patterns.
// A pattern counts once per column so that a thousand identical rows do
// not drown out header evidence. Rows with the wrong arity or no content
// are flagged but still scanned as far as they go.
func (c *Classifier) scanSampleValues(headers []string, sampleData [][]string, warnings *[]string) []Evidence {
	var evidence []Evidence
	seen := make(map[string]bool)

	for i, row := range sampleData {
		if rowEmpty(row) {
			*warnings = append(*warnings, fmt.Sprintf("sample row %d is empty", i+1))
			continue
		}
		if len(row) != len(headers) {
			*warnings = append(*warnings, fmt.Sprintf("sample row %d has %d cells, expected %d", i+1, len(row), len(headers)))
		}
		for col, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			for _, sig := range valueSignals {
				key := fmt.Sprintf("%s|%s|%d", sig.Platform, sig.Name, col)
				if seen[key] || !sig.Pattern.MatchString(cell) {
					continue
				}
				seen[key] = true
				header := ""
				if col < len(headers) {
					header = headers[col]
				}
				evidence = append(evidence, Evidence{
					Signal:   fmt.Sprintf("column %d sample value has %s", col+1, sig.Name),
					Platform: sig.Platform,
					Header:   header,
					Strength: sig.Strength,
				})
			}
		}
	}
	return evidence
}

// scoreEvidence reduces the accumulated evidence to a leading platform
// and a confidence in [0,100]. Confidence grows monotonically with
// corroborating evidence for the same platform. No platform evidence at
// all means universal.
func scoreEvidence(evidence []Evidence) (Platform, int) {
	totals := make(map[Platform]int)
	for _, ev := range evidence {
		if ev.Platform != "" && ev.Platform != PlatformUniversal {
			totals[ev.Platform] += ev.Strength
		}
	}
	if len(totals) == 0 {
		return PlatformUniversal, universalBaseConfidence
	}

	var leader Platform
	best := -1
	for _, p := range KnownPlatforms {
		if totals[p] > best {
			leader = p
			best = totals[p]
		}
	}
	return leader, clampConfidence(40 + best)
}

func universalConfidence(mapping ColumnMapping) int {
	c := universalBaseConfidence + 2*len(mapping)
	if c > 40 {
		c = 40
	}
	return c
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

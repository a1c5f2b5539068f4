package detect

import "fmt"

// Recommendations derives user-facing next-step suggestions from a
// finished detection result. Pure and deterministic: the same result
// always yields the same strings.
func Recommendations(res *Result) []string {
	recs := []string{}

	switch {
	case res.Confidence >= 80:
		recs = append(recs, fmt.Sprintf("High confidence — proceed with the %s export structure.", res.DetectedPlatform))
	case res.Confidence < 50:
		recs = append(recs, "Detection confidence is low — consider selecting the platform manually.")
	}

	if _, ok := res.ColumnMapping[FieldProductName]; !ok {
		recs = append(recs, "No product name column was detected; generated titles will use a placeholder source.")
	}
	if _, ok := res.ColumnMapping[FieldPrice]; !ok {
		recs = append(recs, "No price column was detected; price-aware optimizations are disabled.")
	}
	if res.DetectedPlatform == PlatformUniversal && res.Confidence >= 50 {
		recs = append(recs, "No platform-specific format recognized; the universal export layout will be used.")
	}
	return recs
}

// supportedOptimizations is the fixed optimization menu per platform.
var supportedOptimizations = map[Platform][]string{
	PlatformAmazon: {
		"backend keyword generation",
		"search term optimization",
		"bullet point rewriting",
	},
	PlatformShopify: {
		"SEO title and meta description",
		"handle normalization",
	},
	PlatformEbay: {
		"item specifics enrichment",
		"condition description templates",
	},
	PlatformEtsy: {
		"tag suggestions",
		"story section drafting",
	},
	PlatformWooCommerce: {
		"short description generation",
		"purchase note templates",
	},
	PlatformUniversal: {
		"title enhancement",
		"description enrichment",
		"keyword extraction",
	},
}

// SupportedOptimizations returns the optimization list for a platform.
func SupportedOptimizations(p Platform) []string {
	if opts, ok := supportedOptimizations[p]; ok {
		return append([]string{}, opts...)
	}
	return append([]string{}, supportedOptimizations[PlatformUniversal]...)
}

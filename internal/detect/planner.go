package detect

import "fmt"

// copyFlowColumns are the generated-content columns appended to every
// export, independent of platform.
var copyFlowColumns = []string{
	"copyflow_title",
	"copyflow_description",
	"copyflow_bullet_points",
	"copyflow_keywords",
	"copyflow_meta_description",
}

// platformColumns is the fixed table of extra columns per platform.
// Universal gets none.
var platformColumns = map[Platform][]string{
	PlatformAmazon:      {"amazon_backend_keywords", "amazon_search_terms"},
	PlatformShopify:     {"shopify_handle", "shopify_seo_title", "shopify_seo_description"},
	PlatformEbay:        {"ebay_item_specifics", "ebay_condition_description"},
	PlatformEtsy:        {"etsy_tags", "etsy_story"},
	PlatformWooCommerce: {"woo_short_description", "woo_purchase_note"},
	PlatformUniversal:   {},
}

// Size estimate assumptions. The estimate is a coarse, human-readable
// figure for a nominal thousand-row export, not a byte-exact guarantee.
const (
	estimateBytesPerCell = 64
	estimateRows         = 1000
)

// PlanExport computes the output column layout for the given headers and
// platform. Every original column is preserved verbatim and in order;
// the product guarantee at the UI boundary depends on that.
func PlanExport(headers []string, platform Platform) ExportStructure {
	preserved := make([]string, len(headers))
	copy(preserved, headers)

	extra := platformColumns[platform]
	if extra == nil {
		extra = []string{}
	}
	specific := make([]string, len(extra))
	copy(specific, extra)

	total := len(preserved) + len(copyFlowColumns) + len(specific)

	return ExportStructure{
		PreserveOriginalColumns: preserved,
		AddCopyFlowColumns:      append([]string{}, copyFlowColumns...),
		PlatformSpecificColumns: specific,
		TotalColumns:            total,
		EstimatedFileSize:       estimateFileSize(total),
	}
}

func estimateFileSize(totalColumns int) string {
	bytes := totalColumns * estimateBytesPerCell * estimateRows
	switch {
	case bytes >= 1<<20:
		return fmt.Sprintf("~%.1f MB", float64(bytes)/(1<<20))
	case bytes >= 1<<10:
		return fmt.Sprintf("~%d KB", bytes/(1<<10))
	default:
		return fmt.Sprintf("~%d B", bytes)
	}
}

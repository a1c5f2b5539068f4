package detect

import "time"

// Platform identifies an e-commerce system whose export format we recognize.
type Platform string

const (
	PlatformAmazon      Platform = "amazon"
	PlatformShopify     Platform = "shopify"
	PlatformEbay        Platform = "ebay"
	PlatformEtsy        Platform = "etsy"
	PlatformWooCommerce Platform = "woocommerce"
	PlatformUniversal   Platform = "universal"
)

// KnownPlatforms lists every platform the classifier can detect, in the
// order they are reported by the capabilities endpoint.
var KnownPlatforms = []Platform{
	PlatformAmazon,
	PlatformShopify,
	PlatformEbay,
	PlatformEtsy,
	PlatformWooCommerce,
	PlatformUniversal,
}

// SemanticField is a canonical product field that a spreadsheet column
// can be mapped onto.
type SemanticField string

const (
	FieldProductName SemanticField = "productName"
	FieldDescription SemanticField = "description"
	FieldPrice       SemanticField = "price"
	FieldSKU         SemanticField = "sku"
	FieldCategory    SemanticField = "category"
)

// ColumnMapping maps semantic fields to source header names. A field is
// present only when evidence supports it; no two fields share a header.
type ColumnMapping map[SemanticField]string

// Evidence is one discrete, weighted observation supporting a platform or
// field inference. Evidence is append-only: the classifier accumulates
// items and never mutates them.
type Evidence struct {
	Signal   string        `json:"signal"`
	Platform Platform      `json:"platform,omitempty"`
	Field    SemanticField `json:"field,omitempty"`
	Header   string        `json:"header,omitempty"`
	Strength int           `json:"strength"`
}

// ExportStructure describes the output column layout a later
// content-generation step will populate.
type ExportStructure struct {
	PreserveOriginalColumns []string `json:"preserveOriginalColumns"`
	AddCopyFlowColumns      []string `json:"addCopyFlowColumns"`
	PlatformSpecificColumns []string `json:"platformSpecificColumns"`
	TotalColumns            int      `json:"totalColumns"`
	EstimatedFileSize       string   `json:"estimatedFileSize"`
}

// Result is the outcome of a platform detection run.
type Result struct {
	DetectedPlatform Platform        `json:"detectedPlatform"`
	Confidence       int             `json:"confidence"`
	Evidence         []Evidence      `json:"evidence"`
	ColumnMapping    ColumnMapping   `json:"columnMapping"`
	ExportStructure  ExportStructure `json:"exportStructure"`
	Warnings         []string        `json:"warnings"`
	ProcessingTime   time.Duration   `json:"-"`
}

// SupportedLanguages is the fixed set of language codes accepted on a
// detection request. "en" is the default when none is supplied.
var SupportedLanguages = map[string]bool{
	"en": true, "de": true, "fr": true, "es": true, "it": true,
	"pt": true, "nl": true, "pl": true, "ja": true, "zh": true,
	"ru": true,
}

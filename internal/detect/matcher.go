package detect

import "strings"

// fieldRule pairs a semantic field with the header keywords that imply it.
// The rules are evaluated in order; the order IS the tie-break policy for
// headers that match more than one vocabulary.
type fieldRule struct {
	Field    SemanticField
	Keywords []string
}

// fieldRules is the fixed priority list used by the header pattern matcher.
// productName outranks description outranks price outranks sku outranks
// category, so "Product Code" lands on productName, not sku.
var fieldRules = []fieldRule{
	{FieldProductName, []string{"product", "item", "title", "name"}},
	{FieldDescription, []string{"description", "desc", "content", "details"}},
	{FieldPrice, []string{"price", "cost", "amount"}},
	{FieldSKU, []string{"sku", "asin", "code", "id"}},
	{FieldCategory, []string{"category", "type", "department"}},
}

// ClassifyHeader classifies a single header into at most one semantic
// field using case-insensitive keyword matching. Pure function.
func ClassifyHeader(header string) (SemanticField, bool) {
	h := normalizeHeader(header)
	if h == "" {
		return "", false
	}
	for _, rule := range fieldRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(h, kw) {
				return rule.Field, true
			}
		}
	}
	return "", false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Trim(h, "\"'")
}

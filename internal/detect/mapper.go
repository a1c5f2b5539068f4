package detect

// MapColumns resolves a header list into a column mapping using only the
// header pattern matcher. This is the sole mapping source on the fast
// path. First match wins per field, stable with input order; duplicate
// headers are tolerated and a header is never assigned twice.
func MapColumns(headers []string) ColumnMapping {
	mapping := make(ColumnMapping, len(fieldRules))
	used := make(map[string]bool, len(headers))

	for _, h := range headers {
		if used[h] {
			continue
		}
		field, ok := ClassifyHeader(h)
		if !ok {
			continue
		}
		if _, taken := mapping[field]; taken {
			continue
		}
		mapping[field] = h
		used[h] = true
	}
	return mapping
}

// MapColumnsWithEvidence refines the plain mapping with classifier
// evidence: a header directly confirmed by platform-specific evidence
// (e.g. an "asin" header seen by the Amazon scanner) takes the slot even
// when pattern matching alone would have picked an earlier header.
// Stronger evidence wins; the no-duplicate-assignment invariant holds.
func MapColumnsWithEvidence(headers []string, evidence []Evidence) ColumnMapping {
	inInput := make(map[string]bool, len(headers))
	for _, h := range headers {
		inInput[h] = true
	}

	mapping := make(ColumnMapping, len(fieldRules))
	used := make(map[string]bool, len(headers))
	strength := make(map[SemanticField]int)

	for _, ev := range evidence {
		if ev.Field == "" || ev.Header == "" || !inInput[ev.Header] {
			continue
		}
		if used[ev.Header] {
			continue
		}
		if prev, ok := mapping[ev.Field]; ok {
			if ev.Strength <= strength[ev.Field] {
				continue
			}
			delete(used, prev)
		}
		mapping[ev.Field] = ev.Header
		used[ev.Header] = true
		strength[ev.Field] = ev.Strength
	}

	// Fill remaining fields from plain pattern matching.
	for _, h := range headers {
		if used[h] {
			continue
		}
		field, ok := ClassifyHeader(h)
		if !ok {
			continue
		}
		if _, taken := mapping[field]; taken {
			continue
		}
		mapping[field] = h
		used[h] = true
	}
	return mapping
}

package merge

import "phrasebook-sync-server/internal/domain"

// Per-field completeness weights. The primary text counts most, the
// narrative fields next, the short attribute fields least. Used only to
// break ties between edits that fall inside the concurrency window; a
// clear timestamp difference always wins over completeness.
var fieldWeights = map[string]int{
	domain.FieldText:          4,
	domain.FieldUsage:         2,
	domain.FieldNotes:         2,
	domain.FieldTranslation:   1,
	domain.FieldPronunciation: 1,
	domain.FieldCategory:      1,
	domain.FieldStatus:        1,
	domain.FieldGroup:         1,
}

// Score ranks a phrase by how much usable information it carries. Only
// meaningful values count; placeholders add nothing.
func Score(p *domain.Phrase) int {
	if p == nil {
		return 0
	}
	total := 0
	for _, f := range domain.ContentFields {
		if Meaningful(p.Field(f)) {
			total += fieldWeights[f]
		}
	}
	return total
}

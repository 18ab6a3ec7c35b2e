package merge

import (
	"strings"
	"unicode"

	"phrasebook-sync-server/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Placeholder tokens that clients and imports have historically written
// instead of leaving a field empty. All are treated as "no value".
var placeholders = map[string]bool{
	"n/a":  true,
	"null": true,
	"none": true,
	"nan":  true,
}

// Meaningful reports whether a field value carries usable information.
// Empty strings, whitespace and recognized placeholders do not.
func Meaningful(value string) bool {
	v := strings.TrimSpace(value)
	if v == "" {
		return false
	}
	return !placeholders[strings.ToLower(v)]
}

// Fallbacks for Lithuanian letters, applied before decomposition so the key
// is stable even for inputs that arrive pre-composed.
var letterFallbacks = strings.NewReplacer(
	"ą", "a",
	"č", "c",
	"ę", "e",
	"ė", "e",
	"į", "i",
	"š", "s",
	"ų", "u",
	"ū", "u",
	"ž", "z",
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

const groupSeparator = "|"

// normalizeText lowercases, folds Lithuanian special letters, strips
// diacritic marks and drops every remaining non-alphanumeric rune.
func normalizeText(s string) string {
	s = letterFallbacks.Replace(strings.ToLower(s))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContentKey derives the identity key of a phrase from its primary text,
// independent of the phrase ID. Two phrases created on different devices
// for the same text key identically. Returns "" when the primary text is
// not meaningful. A meaningful group is appended behind a separator so the
// same text filed under different groups stays distinct.
//
// The derivation is pure and idempotent: re-deriving from an unchanged
// phrase always yields the same key.
func ContentKey(p *domain.Phrase) string {
	if p == nil || !Meaningful(p.Text) {
		return ""
	}
	key := normalizeText(p.Text)
	if key == "" {
		return ""
	}
	if Meaningful(p.Group) {
		if g := normalizeText(p.Group); g != "" {
			key = key + groupSeparator + g
		}
	}
	return key
}

// Normalize returns a copy of p with the tombstone invariants and identity
// defaults enforced: a live phrase has no deletion timestamp, a deleted
// phrase always has one, a missing ID is synthesized, and the content key
// is re-derived. The input is never mutated. A nil input yields an empty
// phrase with a fresh ID, which keeps the engine total over any record
// shape it is handed.
func Normalize(p *domain.Phrase) *domain.Phrase {
	var c *domain.Phrase
	if p == nil {
		c = &domain.Phrase{}
	} else {
		c = p.Clone()
	}

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.UpdatedAt < 0 {
		c.UpdatedAt = 0
	}

	if c.Deleted {
		if c.DeletedAt == nil {
			ts := c.UpdatedAt
			c.DeletedAt = &ts
		}
	} else {
		c.DeletedAt = nil
	}

	c.ContentKey = ContentKey(c)
	return c
}

func deletedAt(p *domain.Phrase) int64 {
	if p.DeletedAt == nil {
		return 0
	}
	return *p.DeletedAt
}

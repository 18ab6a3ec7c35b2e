package merge

import "phrasebook-sync-server/internal/domain"

// ApplyResolutions rewrites merged phrases according to a reviewer's
// explicit per-conflict choices. It is a plain overlay pass: no matching
// heuristics, no scoring, and every value it writes already exists on one
// of the conflict's two original records. Resolutions for conflicts that
// no longer correspond to a phrase, and conflicts without a resolution,
// are no-ops that leave the engine's automatic choice in place.
//
// The pass is idempotent and never mutates its inputs; applying the same
// resolutions twice yields an identical result.
func ApplyResolutions(merged []*domain.Phrase, conflicts []*domain.Conflict, resolutions map[string]domain.Resolution) []*domain.Phrase {
	byID := make(map[string]*domain.Conflict, len(conflicts))
	byKey := make(map[string]*domain.Conflict)
	for _, c := range conflicts {
		if _, ok := byID[c.Key]; !ok {
			byID[c.Key] = c
		}
		for _, p := range []*domain.Phrase{c.Local, c.Remote} {
			if p != nil && p.ContentKey != "" {
				if _, ok := byKey[p.ContentKey]; !ok {
					byKey[p.ContentKey] = c
				}
			}
		}
	}

	out := make([]*domain.Phrase, 0, len(merged))
	for _, p := range merged {
		conflict := byID[p.ID]
		if conflict == nil && p.ContentKey != "" {
			conflict = byKey[p.ContentKey]
		}
		if conflict == nil {
			out = append(out, p.Clone())
			continue
		}

		res, ok := resolutions[conflict.Key]
		if !ok {
			out = append(out, p.Clone())
			continue
		}

		switch conflict.Kind {
		case domain.ConflictDeleteVsEdit:
			out = append(out, applyPick(p, conflict, res))
		case domain.ConflictField:
			out = append(out, applyFieldChoices(p, conflict, res))
		default:
			out = append(out, p.Clone())
		}
	}
	return out
}

// applyPick overlays the chosen side of a delete-vs-edit conflict onto the
// merged phrase wholesale, keeping the identity the merged phrase already
// carries.
func applyPick(p *domain.Phrase, c *domain.Conflict, res domain.Resolution) *domain.Phrase {
	var src *domain.Phrase
	switch res.Pick {
	case domain.PickLocal:
		src = c.Local
	case domain.PickRemote:
		src = c.Remote
	}
	if src == nil {
		return p.Clone()
	}

	out := src.Clone()
	out.ID = p.ID
	if out.ContentKey == "" {
		out.ContentKey = p.ContentKey
	}
	return out
}

// applyFieldChoices overwrites only the fields the resolution names, and
// only when the chosen side has a meaningful value for them. A populated
// field is never replaced with a blank, and "auto" keeps the engine's
// original choice.
func applyFieldChoices(p *domain.Phrase, c *domain.Conflict, res domain.Resolution) *domain.Phrase {
	out := p.Clone()
	if len(res.Fields) == 0 {
		return out
	}

	conflicted := make(map[string]bool, len(c.Fields))
	for _, d := range c.Fields {
		conflicted[d.Field] = true
	}

	for field, choice := range res.Fields {
		if !conflicted[field] {
			continue
		}

		var value string
		switch choice {
		case domain.PickLocal:
			if c.Local != nil {
				value = c.Local.Field(field)
			}
		case domain.PickRemote:
			if c.Remote != nil {
				value = c.Remote.Field(field)
			}
		default:
			continue
		}

		if Meaningful(value) {
			out.SetField(field, value)
		}
	}

	out.ContentKey = ContentKey(out)
	return out
}

package merge

import (
	"sort"

	"phrasebook-sync-server/internal/domain"
)

// Result is the outcome of merging two replicas of a collection.
type Result struct {
	Merged    []*domain.Phrase
	Conflicts []*domain.Conflict
	Stats     domain.MergeStats
}

// Merge reconciles a device's local collection against the server copy.
// Records are matched by ID first, then by content key, so phrases created
// independently on two devices for the same text still converge. Unmatched
// records from either side pass through unchanged. The inputs are never
// mutated; every record in the result is a fresh value.
func (e *Engine) Merge(local, remote []*domain.Phrase) *Result {
	locals := normalizeAll(local)
	remotes := normalizeAll(remote)

	result := &Result{
		Stats: domain.MergeStats{
			LocalCount:  len(locals),
			RemoteCount: len(remotes),
		},
	}

	// Index the remote side by ID and by content key. Duplicate IDs keep
	// the first occurrence; a content-key collision keeps the newer record
	// as the representative for matching.
	byID := make(map[string]*domain.Phrase, len(remotes))
	byKey := make(map[string]*domain.Phrase)
	for _, r := range remotes {
		if _, ok := byID[r.ID]; !ok {
			byID[r.ID] = r
		}
		if r.ContentKey == "" {
			continue
		}
		if cur, ok := byKey[r.ContentKey]; !ok || r.UpdatedAt > cur.UpdatedAt {
			byKey[r.ContentKey] = r
		}
	}

	consumed := make(map[*domain.Phrase]bool, len(remotes))

	for _, l := range locals {
		counterpart := byID[l.ID]
		matchedByID := counterpart != nil
		if counterpart == nil && l.ContentKey != "" {
			if candidate := byKey[l.ContentKey]; candidate != nil && !consumed[candidate] {
				counterpart = candidate
			}
		}

		if counterpart == nil {
			result.Merged = append(result.Merged, l)
			result.Stats.CreatedFromLocal++
			continue
		}

		consumed[counterpart] = true
		if matchedByID {
			result.Stats.MatchedByID++
		} else {
			result.Stats.MatchedByKey++
		}

		pair := e.Reconcile(l, counterpart)
		result.Merged = append(result.Merged, pair.Merged)
		if pair.Conflict != nil {
			result.Conflicts = append(result.Conflicts, pair.Conflict)
		}
	}

	for _, r := range remotes {
		if !consumed[r] {
			result.Merged = append(result.Merged, r)
			result.Stats.CreatedFromRemote++
		}
	}

	sortMerged(result.Merged)

	for _, p := range result.Merged {
		if p.Deleted {
			result.Stats.Tombstones++
		}
	}
	result.Stats.Conflicts = len(result.Conflicts)

	return result
}

func normalizeAll(phrases []*domain.Phrase) []*domain.Phrase {
	out := make([]*domain.Phrase, 0, len(phrases))
	for _, p := range phrases {
		out = append(out, Normalize(p))
	}
	return out
}

// sortMerged orders live phrases before tombstones and newest first within
// each group. The order is a presentation convenience; the sort is stable
// so ties keep their input order.
func sortMerged(phrases []*domain.Phrase) {
	sort.SliceStable(phrases, func(i, j int) bool {
		a, b := phrases[i], phrases[j]
		if a.Deleted != b.Deleted {
			return !a.Deleted
		}
		return a.UpdatedAt > b.UpdatedAt
	})
}

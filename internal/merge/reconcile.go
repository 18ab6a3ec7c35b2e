package merge

import (
	"fmt"
	"strings"

	"phrasebook-sync-server/internal/domain"
)

// DefaultConcurrencyWindow is the timestamp gap, in milliseconds, below
// which two edits are considered concurrent and resolved by completeness
// instead of recency.
const DefaultConcurrencyWindow = int64(10_000)

// Engine reconciles two replicas of a phrase collection. It holds no
// ambient state beyond its tuning parameter; every method is a pure
// function over its inputs.
type Engine struct {
	window int64
}

// NewEngine returns an engine with the given concurrency window in
// milliseconds. A non-positive window selects the default.
func NewEngine(windowMillis int64) *Engine {
	if windowMillis <= 0 {
		windowMillis = DefaultConcurrencyWindow
	}
	return &Engine{window: windowMillis}
}

// PairResult is the outcome of reconciling one matched pair: the merged
// phrase plus at most one conflict.
type PairResult struct {
	Merged   *domain.Phrase
	Conflict *domain.Conflict
}

// Reconcile combines one local and one remote phrase believed to represent
// the same entity. The inputs are normalized first and never mutated. The
// function is total: malformed records get synthesized IDs and zeroed
// timestamps rather than causing an error.
func (e *Engine) Reconcile(local, remote *domain.Phrase) PairResult {
	l := Normalize(local)
	r := Normalize(remote)

	switch {
	case l.Deleted && !r.Deleted:
		return e.reconcileTombstone(l, r, true)
	case r.Deleted && !l.Deleted:
		return e.reconcileTombstone(r, l, false)
	case l.Deleted && r.Deleted:
		return PairResult{Merged: mergeTombstones(l, r)}
	default:
		return e.reconcileLive(l, r)
	}
}

// reconcileTombstone handles a deletion racing an edit. dead is the deleted
// side, live the edited one; deadIsLocal records which replica deleted.
// A deletion at or after the edit supersedes it silently. An edit newer
// than the deletion wins, but resurrecting a deleted phrase without asking
// is unsafe, so that outcome always raises a conflict.
func (e *Engine) reconcileTombstone(dead, live *domain.Phrase, deadIsLocal bool) PairResult {
	if deletedAt(dead) >= live.UpdatedAt {
		return PairResult{Merged: dead.Clone()}
	}

	merged := live.Clone()
	side := "remote"
	if deadIsLocal {
		side = "local"
	}
	conflict := &domain.Conflict{
		Kind: domain.ConflictDeleteVsEdit,
		Key:  merged.ID,
		Reason: fmt.Sprintf("%s deletion at %d predates edit at %d; edited version kept",
			side, deletedAt(dead), live.UpdatedAt),
	}
	if deadIsLocal {
		conflict.Local, conflict.Remote = dead, live
	} else {
		conflict.Local, conflict.Remote = live, dead
	}
	return PairResult{Merged: merged, Conflict: conflict}
}

// mergeTombstones keeps the later deletion and the richer payload, so a
// future undelete has the most complete version to recover.
func mergeTombstones(l, r *domain.Phrase) *domain.Phrase {
	base := r
	if Score(l) >= Score(r) {
		base = l
	}
	merged := base.Clone()
	if merged.ID == "" {
		merged.ID = other(base, l, r).ID
	}
	merged.UpdatedAt = max64(l.UpdatedAt, r.UpdatedAt)
	merged.Deleted = true
	ts := max64(deletedAt(l), deletedAt(r))
	merged.DeletedAt = &ts
	merged.ContentKey = ContentKey(merged)
	return merged
}

// reconcileLive merges two live phrases field by field.
func (e *Engine) reconcileLive(l, r *domain.Phrase) PairResult {
	base := e.pickBase(l, r)

	merged := &domain.Phrase{ID: base.ID}
	if merged.ID == "" {
		merged.ID = other(base, l, r).ID
	}

	var diffs []domain.FieldDiff
	for _, f := range domain.ContentFields {
		lv, rv := l.Field(f), r.Field(f)
		lok, rok := Meaningful(lv), Meaningful(rv)

		switch {
		case lok && !rok:
			merged.SetField(f, lv)
		case rok && !lok:
			merged.SetField(f, rv)
		case lok && rok:
			if strings.TrimSpace(lv) == strings.TrimSpace(rv) {
				merged.SetField(f, base.Field(f))
				continue
			}
			chosen := chooseValue(l, r, lv, rv)
			merged.SetField(f, chosen)
			diffs = append(diffs, domain.FieldDiff{Field: f, Local: lv, Remote: rv, Chosen: chosen})
		}
	}

	merged.UpdatedAt = max64(l.UpdatedAt, r.UpdatedAt)
	merged.Deleted = false
	merged.DeletedAt = nil
	merged.ContentKey = ContentKey(merged)

	if len(diffs) == 0 {
		return PairResult{Merged: merged}
	}
	return PairResult{
		Merged: merged,
		Conflict: &domain.Conflict{
			Kind:   domain.ConflictField,
			Key:    merged.ID,
			Local:  l,
			Remote: r,
			Fields: diffs,
		},
	}
}

// pickBase selects the record the merged identity is taken from. A
// timestamp gap beyond the concurrency window is decisive; inside the
// window the two edits count as concurrent and the more complete record
// wins, with remaining ties going to the newer, then the local side.
func (e *Engine) pickBase(l, r *domain.Phrase) *domain.Phrase {
	gap := l.UpdatedAt - r.UpdatedAt
	if gap > e.window {
		return l
	}
	if -gap > e.window {
		return r
	}

	ls, rs := Score(l), Score(r)
	switch {
	case ls > rs:
		return l
	case rs > ls:
		return r
	case r.UpdatedAt > l.UpdatedAt:
		return r
	default:
		return l
	}
}

// chooseValue picks between two divergent field values: strictly newer
// record wins, equal timestamps fall back to the longer string, and a
// length tie keeps the local value.
func chooseValue(l, r *domain.Phrase, lv, rv string) string {
	switch {
	case l.UpdatedAt > r.UpdatedAt:
		return lv
	case r.UpdatedAt > l.UpdatedAt:
		return rv
	case len(rv) > len(lv):
		return rv
	default:
		return lv
	}
}

// other returns whichever of a, b is not base.
func other(base, a, b *domain.Phrase) *domain.Phrase {
	if base == a {
		return b
	}
	return a
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

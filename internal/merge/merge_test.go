package merge

import (
	"reflect"
	"testing"

	"phrasebook-sync-server/internal/domain"
)

func TestMergeEmptyRemoteTakesLocalWholesale(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{
		{ID: "a", Text: "Labas", UpdatedAt: 100},
		{ID: "b", Text: "Ačiū", UpdatedAt: 200},
	}

	res := engine.Merge(local, nil)
	if len(res.Merged) != 2 {
		t.Fatalf("merged size = %d, want 2", len(res.Merged))
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("conflicts = %d, want 0", len(res.Conflicts))
	}

	ids := map[string]bool{}
	for _, p := range res.Merged {
		ids[p.ID] = true
	}
	if !ids["a"] || !ids["b"] {
		t.Errorf("merged ids = %v, want the local set", ids)
	}
	if res.Stats.CreatedFromLocal != 2 {
		t.Errorf("CreatedFromLocal = %d, want 2", res.Stats.CreatedFromLocal)
	}
}

func TestMergeEmptyLocalTakesRemoteWholesale(t *testing.T) {
	engine := NewEngine(0)

	remote := []*domain.Phrase{
		{ID: "x", Text: "Prašau", UpdatedAt: 50},
	}

	res := engine.Merge(nil, remote)
	if len(res.Merged) != 1 || res.Merged[0].ID != "x" {
		t.Fatalf("merged = %+v, want the remote record unchanged", res.Merged)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("conflicts = %d, want 0", len(res.Conflicts))
	}
	if res.Stats.CreatedFromRemote != 1 {
		t.Errorf("CreatedFromRemote = %d, want 1", res.Stats.CreatedFromRemote)
	}
}

func TestMergeSingleLocalCreationScenario(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{
		{ID: "a", Text: "Labas", UpdatedAt: 100},
	}

	res := engine.Merge(local, []*domain.Phrase{})
	if len(res.Merged) != 1 {
		t.Fatalf("merged size = %d, want 1", len(res.Merged))
	}
	got := res.Merged[0]
	if got.ID != "a" || got.Text != "Labas" || got.UpdatedAt != 100 || got.Deleted {
		t.Errorf("record changed in passthrough: %+v", got)
	}
	if got.ContentKey != "labas" {
		t.Errorf("ContentKey = %q, want %q", got.ContentKey, "labas")
	}
	if res.Stats.CreatedFromLocal != 1 {
		t.Errorf("CreatedFromLocal = %d, want 1", res.Stats.CreatedFromLocal)
	}
	if len(res.Conflicts) != 0 {
		t.Errorf("conflicts = %d, want 0", len(res.Conflicts))
	}
}

func TestMergeMatchesByID(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{{ID: "a", Text: "Labas", Notes: "informal", UpdatedAt: 100}}
	remote := []*domain.Phrase{{ID: "a", Text: "Labas", Translation: "hello", UpdatedAt: 100}}

	res := engine.Merge(local, remote)
	if len(res.Merged) != 1 {
		t.Fatalf("merged size = %d, want 1", len(res.Merged))
	}
	if res.Merged[0].Notes != "informal" || res.Merged[0].Translation != "hello" {
		t.Errorf("pair was not reconciled: %+v", res.Merged[0])
	}
	if res.Stats.MatchedByID != 1 || res.Stats.MatchedByKey != 0 {
		t.Errorf("stats = %+v, want one id match", res.Stats)
	}
}

func TestMergeMatchesByContentKey(t *testing.T) {
	engine := NewEngine(0)

	// Same phrase created independently on two devices: different IDs,
	// identical text up to case and diacritics.
	local := []*domain.Phrase{{ID: "local-1", Text: "Labas", UpdatedAt: 100}}
	remote := []*domain.Phrase{{ID: "remote-1", Text: "lãbas", Translation: "hello", UpdatedAt: 200}}

	res := engine.Merge(local, remote)
	if len(res.Merged) != 1 {
		t.Fatalf("merged size = %d, want 1 (duplicates recognized)", len(res.Merged))
	}
	if res.Stats.MatchedByKey != 1 {
		t.Errorf("MatchedByKey = %d, want 1", res.Stats.MatchedByKey)
	}
	if res.Merged[0].Translation != "hello" {
		t.Errorf("merged record lost remote data: %+v", res.Merged[0])
	}
}

func TestMergeContentKeyCollisionKeepsNewerRepresentative(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{{ID: "l1", Text: "Labas", UpdatedAt: 100}}
	remote := []*domain.Phrase{
		{ID: "r-old", Text: "labas", Translation: "hi", UpdatedAt: 50},
		{ID: "r-new", Text: "Labas", Translation: "hello", UpdatedAt: 500},
	}

	res := engine.Merge(local, remote)

	// The newer remote is the representative for key matching; the older
	// one passes through as a remote-only record.
	if res.Stats.MatchedByKey != 1 {
		t.Fatalf("MatchedByKey = %d, want 1", res.Stats.MatchedByKey)
	}
	if res.Stats.CreatedFromRemote != 1 {
		t.Errorf("CreatedFromRemote = %d, want 1", res.Stats.CreatedFromRemote)
	}

	var matched *domain.Phrase
	for _, p := range res.Merged {
		if p.Translation == "hello" {
			matched = p
		}
	}
	if matched == nil {
		t.Fatal("reconciled record should carry the newer representative's data")
	}
}

func TestMergeUnmatchedRecordsPassThroughBothSides(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{
		{ID: "shared", Text: "Labas", UpdatedAt: 100},
		{ID: "only-local", Text: "Ačiū", UpdatedAt: 100},
	}
	remote := []*domain.Phrase{
		{ID: "shared", Text: "Labas", UpdatedAt: 100},
		{ID: "only-remote", Text: "Prašau", UpdatedAt: 100},
	}

	res := engine.Merge(local, remote)
	if len(res.Merged) != 3 {
		t.Fatalf("merged size = %d, want 3", len(res.Merged))
	}
	if res.Stats.MatchedByID != 1 || res.Stats.CreatedFromLocal != 1 || res.Stats.CreatedFromRemote != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}
}

func TestMergeOrdersLiveBeforeTombstonesNewestFirst(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{
		{ID: "dead-new", Text: "a", Deleted: true, DeletedAt: tsPtr(900), UpdatedAt: 900},
		{ID: "live-old", Text: "b", UpdatedAt: 100},
		{ID: "live-new", Text: "c", UpdatedAt: 800},
		{ID: "dead-old", Text: "d", Deleted: true, DeletedAt: tsPtr(300), UpdatedAt: 300},
	}

	res := engine.Merge(local, nil)

	wantOrder := []string{"live-new", "live-old", "dead-new", "dead-old"}
	var gotOrder []string
	for _, p := range res.Merged {
		gotOrder = append(gotOrder, p.ID)
	}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("order = %v, want %v", gotOrder, wantOrder)
	}
	if res.Stats.Tombstones != 2 {
		t.Errorf("Tombstones = %d, want 2", res.Stats.Tombstones)
	}
}

func TestMergeCountsConflicts(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{{ID: "a", Text: "Labas", Category: "Travel", UpdatedAt: 10}}
	remote := []*domain.Phrase{{ID: "a", Text: "Labas", Category: "Food", UpdatedAt: 20}}

	res := engine.Merge(local, remote)
	if len(res.Conflicts) != 1 {
		t.Fatalf("conflicts = %d, want 1", len(res.Conflicts))
	}
	if res.Stats.Conflicts != 1 {
		t.Errorf("Stats.Conflicts = %d, want 1", res.Stats.Conflicts)
	}
}

func TestMergeIsDeterministic(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{
		{ID: "a", Text: "Labas", Category: "Travel", UpdatedAt: 10},
		{ID: "b", Text: "Ačiū", UpdatedAt: 400},
	}
	remote := []*domain.Phrase{
		{ID: "a", Text: "Labas", Category: "Food", UpdatedAt: 20},
		{ID: "c", Text: "Prašau", UpdatedAt: 300},
	}

	first := engine.Merge(local, remote)
	second := engine.Merge(local, remote)

	if !reflect.DeepEqual(first.Merged, second.Merged) {
		t.Error("merging the same inputs twice produced different collections")
	}
	if !reflect.DeepEqual(first.Stats, second.Stats) {
		t.Error("merging the same inputs twice produced different stats")
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	engine := NewEngine(0)

	local := []*domain.Phrase{{ID: "a", Text: "Labas", Deleted: true, UpdatedAt: 100}}
	remote := []*domain.Phrase{{ID: "a", Text: "Labas", UpdatedAt: 50}}

	engine.Merge(local, remote)

	if local[0].DeletedAt != nil || local[0].ContentKey != "" {
		t.Error("local input was mutated")
	}
	if remote[0].ContentKey != "" {
		t.Error("remote input was mutated")
	}
}

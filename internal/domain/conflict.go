package domain

type ConflictKind string

const (
	ConflictDeleteVsEdit ConflictKind = "delete_vs_edit"
	ConflictField        ConflictKind = "field_conflict"
)

// Sides a resolution can pick. PickAuto keeps the engine's automatic choice.
const (
	PickLocal  = "local"
	PickRemote = "remote"
	PickAuto   = "auto"
)

// FieldDiff records one field both sides edited. Chosen is the value the
// engine wrote into the merged phrase; a reviewer can override it later.
type FieldDiff struct {
	Field  string `json:"field"`
	Local  string `json:"local"`
	Remote string `json:"remote"`
	Chosen string `json:"chosen"`
}

// Conflict is a deferred decision produced by reconciliation. It lives only
// for the duration of a sync session and is never persisted with the
// collection. Key correlates the conflict back to a merged phrase.
type Conflict struct {
	Kind   ConflictKind `json:"kind"`
	Key    string       `json:"key"`
	Local  *Phrase      `json:"local"`
	Remote *Phrase      `json:"remote"`

	// Fields is set for ConflictField.
	Fields []FieldDiff `json:"fields,omitempty"`

	// Reason is set for ConflictDeleteVsEdit and explains which side's
	// signal was weaker.
	Reason string `json:"reason,omitempty"`
}

// Resolution is a reviewer's explicit choice for one conflict, keyed by the
// conflict's Key. Pick answers a delete-vs-edit conflict wholesale; Fields
// answers a field conflict per field with local, remote, or auto.
type Resolution struct {
	Pick   string            `json:"pick,omitempty" validate:"omitempty,oneof=local remote"`
	Fields map[string]string `json:"fields,omitempty"`
}

// MergeStats summarizes one merge run for diagnostics.
type MergeStats struct {
	LocalCount        int `json:"local_count"`
	RemoteCount       int `json:"remote_count"`
	MatchedByID       int `json:"matched_by_id"`
	MatchedByKey      int `json:"matched_by_key"`
	CreatedFromLocal  int `json:"created_from_local"`
	CreatedFromRemote int `json:"created_from_remote"`
	Tombstones        int `json:"tombstones"`
	Conflicts         int `json:"conflicts"`
}

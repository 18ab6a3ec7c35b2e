package domain

// Phrase is the unit of synchronized data. A phrase is never physically
// removed: deletion sets the tombstone pair (Deleted + DeletedAt) so the
// deletion itself can be synchronized to other devices.
type Phrase struct {
	ID string `json:"id"`

	Text          string `json:"text,omitempty"`
	Translation   string `json:"translation,omitempty"`
	Pronunciation string `json:"pronunciation,omitempty"`
	Category      string `json:"category,omitempty"`
	Usage         string `json:"usage,omitempty"`
	Notes         string `json:"notes,omitempty"`
	Status        string `json:"status,omitempty"`
	Group         string `json:"group,omitempty"`

	// UpdatedAt is a millisecond timestamp set by the replica that last
	// edited the phrase.
	UpdatedAt int64  `json:"updated_at"`
	Deleted   bool   `json:"deleted"`
	DeletedAt *int64 `json:"deleted_at,omitempty"`

	// ContentKey is a cached identity key derived from Text and Group.
	// It is not authoritative and can always be re-derived.
	ContentKey string `json:"content_key,omitempty"`
}

// Review status values. The status field is a tri-state marker; the sync
// engine treats it as an opaque string.
const (
	StatusNew      = "new"
	StatusLearning = "learning"
	StatusKnown    = "known"
)

const (
	FieldText          = "text"
	FieldTranslation   = "translation"
	FieldPronunciation = "pronunciation"
	FieldCategory      = "category"
	FieldUsage         = "usage"
	FieldNotes         = "notes"
	FieldStatus        = "status"
	FieldGroup         = "group"
)

// ContentFields lists the mergeable text attributes in the fixed order the
// sync engine walks them.
var ContentFields = []string{
	FieldText,
	FieldTranslation,
	FieldPronunciation,
	FieldCategory,
	FieldUsage,
	FieldNotes,
	FieldStatus,
	FieldGroup,
}

// Field returns the named content field, or "" for an unknown name.
func (p *Phrase) Field(name string) string {
	switch name {
	case FieldText:
		return p.Text
	case FieldTranslation:
		return p.Translation
	case FieldPronunciation:
		return p.Pronunciation
	case FieldCategory:
		return p.Category
	case FieldUsage:
		return p.Usage
	case FieldNotes:
		return p.Notes
	case FieldStatus:
		return p.Status
	case FieldGroup:
		return p.Group
	}
	return ""
}

// SetField assigns the named content field. Unknown names are ignored.
func (p *Phrase) SetField(name, value string) {
	switch name {
	case FieldText:
		p.Text = value
	case FieldTranslation:
		p.Translation = value
	case FieldPronunciation:
		p.Pronunciation = value
	case FieldCategory:
		p.Category = value
	case FieldUsage:
		p.Usage = value
	case FieldNotes:
		p.Notes = value
	case FieldStatus:
		p.Status = value
	case FieldGroup:
		p.Group = value
	}
}

// Clone returns a deep copy. The sync engine never mutates a phrase it was
// handed; every transformation works on copies.
func (p *Phrase) Clone() *Phrase {
	c := *p
	if p.DeletedAt != nil {
		ts := *p.DeletedAt
		c.DeletedAt = &ts
	}
	return &c
}

type CreatePhraseRequest struct {
	Text          string `json:"text" validate:"required"`
	Translation   string `json:"translation"`
	Pronunciation string `json:"pronunciation"`
	Category      string `json:"category"`
	Usage         string `json:"usage"`
	Notes         string `json:"notes"`
	Status        string `json:"status" validate:"omitempty,oneof=new learning known"`
	Group         string `json:"group"`
}

type UpdatePhraseRequest struct {
	Text          *string `json:"text"`
	Translation   *string `json:"translation"`
	Pronunciation *string `json:"pronunciation"`
	Category      *string `json:"category"`
	Usage         *string `json:"usage"`
	Notes         *string `json:"notes"`
	Status        *string `json:"status" validate:"omitempty,oneof=new learning known"`
	Group         *string `json:"group"`
}

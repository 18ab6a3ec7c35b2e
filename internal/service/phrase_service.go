package service

import (
	"fmt"
	"time"

	"phrasebook-sync-server/internal/domain"
	"phrasebook-sync-server/internal/merge"
	"phrasebook-sync-server/internal/repository"

	"github.com/google/uuid"
)

type PhraseService struct {
	phraseRepo repository.PhraseRepository
}

func NewPhraseService(phraseRepo repository.PhraseRepository) *PhraseService {
	return &PhraseService{
		phraseRepo: phraseRepo,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (s *PhraseService) Create(userID string, req *domain.CreatePhraseRequest) (*domain.Phrase, error) {
	phrase := &domain.Phrase{
		ID:            uuid.New().String(),
		Text:          req.Text,
		Translation:   req.Translation,
		Pronunciation: req.Pronunciation,
		Category:      req.Category,
		Usage:         req.Usage,
		Notes:         req.Notes,
		Status:        req.Status,
		Group:         req.Group,
		UpdatedAt:     nowMillis(),
	}
	phrase.ContentKey = merge.ContentKey(phrase)

	if err := s.phraseRepo.Create(userID, phrase); err != nil {
		return nil, fmt.Errorf("failed to create phrase: %w", err)
	}

	return phrase, nil
}

// List returns the user's live phrases; tombstones stay internal to sync.
func (s *PhraseService) List(userID string) ([]*domain.Phrase, error) {
	all, err := s.phraseRepo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phrases: %w", err)
	}

	var live []*domain.Phrase
	for _, p := range all {
		if !p.Deleted {
			live = append(live, p)
		}
	}
	return live, nil
}

func (s *PhraseService) GetByID(userID, phraseID string) (*domain.Phrase, error) {
	phrase, err := s.phraseRepo.FindByID(userID, phraseID)
	if err != nil {
		return nil, ErrNotFound
	}
	if phrase.Deleted {
		return nil, ErrNotFound
	}
	return phrase, nil
}

func (s *PhraseService) Update(userID, phraseID string, req *domain.UpdatePhraseRequest) (*domain.Phrase, error) {
	phrase, err := s.phraseRepo.FindByID(userID, phraseID)
	if err != nil {
		return nil, ErrNotFound
	}
	if phrase.Deleted {
		return nil, ErrNotFound
	}

	if req.Text != nil {
		phrase.Text = *req.Text
	}
	if req.Translation != nil {
		phrase.Translation = *req.Translation
	}
	if req.Pronunciation != nil {
		phrase.Pronunciation = *req.Pronunciation
	}
	if req.Category != nil {
		phrase.Category = *req.Category
	}
	if req.Usage != nil {
		phrase.Usage = *req.Usage
	}
	if req.Notes != nil {
		phrase.Notes = *req.Notes
	}
	if req.Status != nil {
		phrase.Status = *req.Status
	}
	if req.Group != nil {
		phrase.Group = *req.Group
	}

	phrase.UpdatedAt = nowMillis()
	phrase.ContentKey = merge.ContentKey(phrase)

	if err := s.phraseRepo.Update(userID, phrase); err != nil {
		return nil, fmt.Errorf("failed to update phrase: %w", err)
	}

	return phrase, nil
}

// Delete writes a tombstone. The phrase is kept so the deletion itself can
// be synchronized; without it a stale device copy would resurrect the
// phrase on the next sync.
func (s *PhraseService) Delete(userID, phraseID string) error {
	phrase, err := s.phraseRepo.FindByID(userID, phraseID)
	if err != nil {
		return ErrNotFound
	}
	if phrase.Deleted {
		return nil
	}

	now := nowMillis()
	phrase.Deleted = true
	phrase.DeletedAt = &now
	phrase.UpdatedAt = now

	if err := s.phraseRepo.Update(userID, phrase); err != nil {
		return fmt.Errorf("failed to delete phrase: %w", err)
	}

	return nil
}

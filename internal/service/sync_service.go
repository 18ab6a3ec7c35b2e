package service

import (
	"fmt"
	"log"
	"sync"
	"time"

	"phrasebook-sync-server/internal/domain"
	"phrasebook-sync-server/internal/merge"
	"phrasebook-sync-server/internal/repository"
	"phrasebook-sync-server/internal/websocket"

	"github.com/google/uuid"
)

// syncSession parks a merge result that still has unresolved conflicts.
// Sessions live in memory only; a restart discards them and the device
// simply syncs again.
type syncSession struct {
	ID        string
	UserID    string
	DeviceID  string
	Merged    []*domain.Phrase
	Conflicts []*domain.Conflict
	Stats     domain.MergeStats
	CreatedAt time.Time
}

type SyncService struct {
	phraseRepo   repository.PhraseRepository
	metadataRepo repository.SyncMetadataRepository
	engine       *merge.Engine
	wsManager    *websocket.Manager

	mu        sync.Mutex
	userLocks map[string]*sync.Mutex

	sessionsMu sync.RWMutex
	sessions   map[string]*syncSession
}

func NewSyncService(
	phraseRepo repository.PhraseRepository,
	metadataRepo repository.SyncMetadataRepository,
	engine *merge.Engine,
	wsManager *websocket.Manager,
) *SyncService {
	return &SyncService{
		phraseRepo:   phraseRepo,
		metadataRepo: metadataRepo,
		engine:       engine,
		wsManager:    wsManager,
		userLocks:    make(map[string]*sync.Mutex),
		sessions:     make(map[string]*syncSession),
	}
}

// userLock serializes merge-and-apply cycles per user so two devices
// syncing at once cannot race to write the merged result back.
func (s *SyncService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.userLocks[userID] = lock
	}
	return lock
}

// Sync reconciles a device's full local collection against the server
// copy. A conflict-free merge is persisted immediately; otherwise the
// result is parked in a session and returned for review, leaving the
// stored collection untouched until the device resolves.
func (s *SyncService) Sync(userID string, req *domain.SyncRequest) (*domain.SyncResponse, error) {
	lock := s.userLock(userID)
	if !lock.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer lock.Unlock()

	remote, err := s.phraseRepo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load server collection: %w", err)
	}

	result := s.engine.Merge(req.Phrases, remote)

	if len(result.Conflicts) == 0 {
		if err := s.persist(userID, req.DeviceID, result.Merged); err != nil {
			return nil, err
		}
		return &domain.SyncResponse{
			Merged:   result.Merged,
			Stats:    result.Stats,
			Applied:  true,
			SyncTime: time.Now(),
		}, nil
	}

	session := &syncSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		DeviceID:  req.DeviceID,
		Merged:    result.Merged,
		Conflicts: result.Conflicts,
		Stats:     result.Stats,
		CreatedAt: time.Now(),
	}

	s.sessionsMu.Lock()
	s.sessions[session.ID] = session
	s.sessionsMu.Unlock()

	return &domain.SyncResponse{
		SessionID: session.ID,
		Merged:    result.Merged,
		Conflicts: result.Conflicts,
		Stats:     result.Stats,
		Applied:   false,
		SyncTime:  time.Now(),
	}, nil
}

// Resolve applies a reviewer's conflict choices to a parked session and
// persists the final collection. Resolutions the session's conflicts do
// not cover are ignored; conflicts without a resolution keep the engine's
// automatic choice.
func (s *SyncService) Resolve(userID string, req *domain.ResolveRequest) (*domain.SyncResponse, error) {
	lock := s.userLock(userID)
	if !lock.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer lock.Unlock()

	s.sessionsMu.RLock()
	session, ok := s.sessions[req.SessionID]
	s.sessionsMu.RUnlock()
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}

	final := merge.ApplyResolutions(session.Merged, session.Conflicts, req.Resolutions)

	if err := s.persist(userID, req.DeviceID, final); err != nil {
		return nil, err
	}

	s.sessionsMu.Lock()
	delete(s.sessions, req.SessionID)
	s.sessionsMu.Unlock()

	return &domain.SyncResponse{
		Merged:   final,
		Stats:    session.Stats,
		Applied:  true,
		SyncTime: time.Now(),
	}, nil
}

// Session returns a parked session's conflicts for a review surface.
func (s *SyncService) Session(userID, sessionID string) ([]*domain.Conflict, error) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session.Conflicts, nil
}

func (s *SyncService) LastSync(userID, deviceID string) (*domain.SyncMetadata, error) {
	return s.metadataRepo.Get(userID, deviceID)
}

func (s *SyncService) persist(userID, deviceID string, phrases []*domain.Phrase) error {
	if err := s.phraseRepo.SaveAll(userID, phrases); err != nil {
		return fmt.Errorf("failed to persist merged collection: %w", err)
	}

	if err := s.metadataRepo.UpdateLastSync(userID, deviceID, time.Now()); err != nil {
		log.Printf("failed to update sync metadata for user %s: %v", userID, err)
	}

	s.notifyOtherDevices(userID, deviceID, len(phrases))
	return nil
}

func (s *SyncService) notifyOtherDevices(userID, deviceID string, count int) {
	if s.wsManager == nil {
		return
	}

	msg, err := websocket.NewMessage(websocket.TypeSyncCompleted, &websocket.SyncCompletedPayload{
		DeviceID:    deviceID,
		PhraseCount: count,
	})
	if err != nil {
		log.Printf("failed to build sync notification: %v", err)
		return
	}

	if err := s.wsManager.BroadcastToUser(userID, msg, deviceID); err != nil {
		log.Printf("failed to notify devices for user %s: %v", userID, err)
	}
}

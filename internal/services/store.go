package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"smartgrader-composer/internal/composer"
	"smartgrader-composer/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDraftNotFound = errors.New("draft not found")

// DraftStore keeps autosaved draft snapshots.
type DraftStore interface {
	Save(ctx context.Context, id string, snap composer.Snapshot) error
	Load(ctx context.Context, id string) (composer.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type GormDraftStore struct {
	db *gorm.DB
}

func NewGormDraftStore(db *gorm.DB) *GormDraftStore {
	return &GormDraftStore{db: db}
}

func (s *GormDraftStore) Save(ctx context.Context, id string, snap composer.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	draft := models.Draft{
		ID:       id,
		Title:    snap.Title,
		Snapshot: datatypes.JSON(data),
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "snapshot", "updated_at"}),
	}).Create(&draft).Error
}

func (s *GormDraftStore) Load(ctx context.Context, id string) (composer.Snapshot, error) {
	var draft models.Draft
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&draft).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return composer.Snapshot{}, ErrDraftNotFound
		}
		return composer.Snapshot{}, err
	}

	var snap composer.Snapshot
	if err := json.Unmarshal(draft.Snapshot, &snap); err != nil {
		return composer.Snapshot{}, fmt.Errorf("corrupt snapshot for draft %s: %w", id, err)
	}
	return snap, nil
}

func (s *GormDraftStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Draft{}).Error
}

// MemoryDraftStore is used when autosave is disabled, and in tests.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{drafts: make(map[string][]byte)}
}

func (s *MemoryDraftStore) Save(_ context.Context, id string, snap composer.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[id] = data
	return nil
}

func (s *MemoryDraftStore) Load(_ context.Context, id string) (composer.Snapshot, error) {
	s.mu.Lock()
	data, ok := s.drafts[id]
	s.mu.Unlock()
	if !ok {
		return composer.Snapshot{}, ErrDraftNotFound
	}

	var snap composer.Snapshot
	err := json.Unmarshal(data, &snap)
	return snap, err
}

func (s *MemoryDraftStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, id)
	return nil
}

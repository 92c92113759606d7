package filestore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/talkincode/zcast/internal/domain"
)

// FailedStore keeps delivery-failure records for operator-driven retries.
type FailedStore struct {
	path string
	mu   sync.Mutex
}

func NewFailedStore(path string) *FailedStore {
	return &FailedStore{path: path}
}

func (s *FailedStore) All() []domain.FailedSendRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FailedStore) load() []domain.FailedSendRecord {
	records := make([]domain.FailedSendRecord, 0)
	readList(s.path, &records)
	return records
}

func (s *FailedStore) Add(chatID, chatName, templateID, templateName string) (domain.FailedSendRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := domain.FailedSendRecord{
		ID:           uuid.NewString(),
		ChatID:       chatID,
		ChatName:     chatName,
		TemplateID:   templateID,
		TemplateName: templateName,
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	records := append(s.load(), rec)
	if err := writeList(s.path, records); err != nil {
		return domain.FailedSendRecord{}, err
	}
	return rec, nil
}

// Remove deletes a record by id and reports whether it existed.
func (s *FailedStore) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.load()
	for i, r := range records {
		if r.ID != id {
			continue
		}
		records = append(records[:i], records[i+1:]...)
		if err := writeList(s.path, records); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

package filestore

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/talkincode/zcast/internal/domain"
)

// TemplateStore is the message-template collection backed by one JSON file.
type TemplateStore struct {
	path string
	mu   sync.Mutex
}

func NewTemplateStore(path string) *TemplateStore {
	return &TemplateStore{path: path}
}

func (s *TemplateStore) All() []domain.MessageTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *TemplateStore) load() []domain.MessageTemplate {
	templates := make([]domain.MessageTemplate, 0)
	readList(s.path, &templates)
	return templates
}

// Get returns the template with the given id, or ErrTemplateNotFound.
func (s *TemplateStore) Get(id string) (domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.load() {
		if t.ID == id {
			return t, nil
		}
	}
	return domain.MessageTemplate{}, domain.ErrTemplateNotFound
}

func (s *TemplateStore) Create(displayName, content string, attachments []domain.AttachmentRef) (domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attachments == nil {
		attachments = []domain.AttachmentRef{}
	}
	tpl := domain.MessageTemplate{
		ID:          uuid.NewString(),
		DisplayName: displayName,
		Content:     content,
		Attachments: attachments,
		CreatedAt:   time.Now().Format(time.RFC3339),
	}
	templates := append(s.load(), tpl)
	if err := writeList(s.path, templates); err != nil {
		return domain.MessageTemplate{}, err
	}
	return tpl, nil
}

func (s *TemplateStore) Update(id, displayName, content string, attachments []domain.AttachmentRef) (domain.MessageTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attachments == nil {
		attachments = []domain.AttachmentRef{}
	}
	templates := s.load()
	for i, t := range templates {
		if t.ID != id {
			continue
		}
		templates[i] = domain.MessageTemplate{
			ID:          id,
			DisplayName: displayName,
			Content:     content,
			Attachments: attachments,
			CreatedAt:   t.CreatedAt,
			UpdatedAt:   time.Now().Format(time.RFC3339),
		}
		if err := writeList(s.path, templates); err != nil {
			return domain.MessageTemplate{}, err
		}
		return templates[i], nil
	}
	return domain.MessageTemplate{}, domain.ErrTemplateNotFound
}

func (s *TemplateStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	templates := s.load()
	for i, t := range templates {
		if t.ID != id {
			continue
		}
		templates = append(templates[:i], templates[i+1:]...)
		return writeList(s.path, templates)
	}
	return domain.ErrTemplateNotFound
}

// Package session holds the login/session state machine and the broadcast
// engine. All shared mutable state lives in Store; nothing in this package is
// a process-wide singleton, instances are constructed and injected.
package session

import (
	"strings"
	"sync"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/platform"
)

// Store is the process-wide session record: login status, the authenticated
// client handle, the current login-attempt epoch and the recipient roster.
//
// The epoch is a monotonically increasing token minted per login attempt.
// Background callbacks compare their captured epoch against the current one
// and drop themselves when superseded.
type Store struct {
	mu     sync.RWMutex
	status string
	client platform.Client
	epoch  int64
	roster []domain.ChatEntity
}

func NewStore() *Store {
	return &Store{status: domain.StatusWaiting}
}

func (s *Store) Status() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Store) SetStatus(status string) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Handle returns the live client handle, or nil when logged out.
func (s *Store) Handle() platform.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.client
}

// Authenticated reports whether a live handle exists and the status is
// success. status==success implies a non-nil handle by construction.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status == domain.StatusSuccess && s.client != nil
}

func (s *Store) Epoch() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// MatchEpoch reports whether e is still the current login attempt.
func (s *Store) MatchEpoch(e int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch == e
}

// BeginAttempt starts a new login attempt: mints the next epoch, clears the
// handle and roster, resets the status to waiting and returns the new epoch
// plus the superseded handle so the caller can stop its listener.
func (s *Store) BeginAttempt() (int64, platform.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.client
	s.client = nil
	s.roster = nil
	s.status = domain.StatusWaiting
	s.epoch++
	return s.epoch, old
}

// Bind installs the authenticated handle and marks the session successful,
// but only if epoch still identifies the current attempt. Returns false for a
// superseded attempt, leaving the store untouched.
func (s *Store) Bind(cli platform.Client, epoch int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.client = cli
	s.status = domain.StatusSuccess
	return true
}

// BindCookie installs a handle recovered via cookie login. Cookie logins do
// not belong to a QR attempt, so no epoch check applies.
func (s *Store) BindCookie(cli platform.Client) {
	s.mu.Lock()
	s.client = cli
	s.status = domain.StatusSuccess
	s.mu.Unlock()
}

// Teardown releases the handle and roster and sets the given status in one
// atomic step (the logout transaction). The epoch advances so any in-flight
// callbacks from the torn-down session become stale. Returns the released
// handle.
func (s *Store) Teardown(status string) platform.Client {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.client
	s.client = nil
	s.roster = nil
	s.status = status
	s.epoch++
	return old
}

// Roster returns the current recipient list. The slice is replaced wholesale
// on every sync and never patched in place, so readers may hold it.
func (s *Store) Roster() []domain.ChatEntity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roster
}

func (s *Store) ReplaceRoster(list []domain.ChatEntity) {
	s.mu.Lock()
	s.roster = list
	s.mu.Unlock()
}

// FindRecipient resolves one roster entry by id.
func (s *Store) FindRecipient(id string) (domain.ChatEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.roster {
		if c.ID == id {
			return c, true
		}
	}
	return domain.ChatEntity{}, false
}

// SearchRoster filters the roster by case-insensitive display-name substring.
// An empty term returns the whole roster.
func (s *Store) SearchRoster(term string) []domain.ChatEntity {
	term = strings.ToLower(strings.TrimSpace(term))
	roster := s.Roster()
	if term == "" {
		return roster
	}
	out := make([]domain.ChatEntity, 0, len(roster))
	for _, c := range roster {
		if strings.Contains(strings.ToLower(c.Name), term) {
			out = append(out, c)
		}
	}
	return out
}

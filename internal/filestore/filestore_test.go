package filestore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/zcast/internal/domain"
)

func TestTemplateStoreCRUD(t *testing.T) {
	store := NewTemplateStore(filepath.Join(t.TempDir(), "templates.json"))

	assert.Empty(t, store.All())

	tpl, err := store.Create("Greeting", "Hello there", nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, "Greeting", tpl.DisplayName)
	assert.NotNil(t, tpl.Attachments)
	assert.NotEmpty(t, tpl.CreatedAt)

	got, err := store.Get(tpl.ID)
	assert.NoError(t, err)
	assert.Equal(t, tpl.ID, got.ID)

	updated, err := store.Update(tpl.ID, "Greeting v2", "Hi again", nil)
	assert.NoError(t, err)
	assert.Equal(t, "Greeting v2", updated.DisplayName)
	assert.Equal(t, tpl.CreatedAt, updated.CreatedAt)
	assert.NotEmpty(t, updated.UpdatedAt)

	assert.NoError(t, store.Delete(tpl.ID))
	_, err = store.Get(tpl.ID)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestTemplateStoreNotFound(t *testing.T) {
	store := NewTemplateStore(filepath.Join(t.TempDir(), "templates.json"))

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	_, err = store.Update("missing", "x", "y", nil)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)

	assert.ErrorIs(t, store.Delete("missing"), domain.ErrTemplateNotFound)
}

func TestTemplateStoreSurvivesMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	store := NewTemplateStore(path)
	assert.Empty(t, store.All())

	// the next write repairs the file
	_, err := store.Create("Fresh", "content", nil)
	assert.NoError(t, err)
	assert.Len(t, store.All(), 1)
}

func TestFailedStoreAddRemove(t *testing.T) {
	store := NewFailedStore(filepath.Join(t.TempDir(), "failed.json"))

	rec, err := store.Add("chat-1", "Alice", "tpl-1", "Greeting")
	assert.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Len(t, store.All(), 1)

	removed, err := store.Remove(rec.ID)
	assert.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, store.All())

	removed, err = store.Remove(rec.ID)
	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestCredentialFileRoundTrip(t *testing.T) {
	file := NewCredentialFile(filepath.Join(t.TempDir(), "auth.json"))

	_, err := file.Load()
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	cred := domain.Credential{
		LoginTime: time.Now().Format(time.RFC3339),
		Status:    domain.StatusSuccess,
		Timestamp: time.Now().UnixMilli(),
		Cookie:    "cookie-blob",
		Imei:      "imei-1",
		Agent:     "agent-1",
	}
	assert.NoError(t, file.Save(cred))

	got, err := file.Load()
	assert.NoError(t, err)
	assert.Equal(t, cred, got)

	file.Clear()
	_, err = file.Load()
	assert.ErrorIs(t, err, domain.ErrNoCredential)

	// clearing an already-missing file is fine
	file.Clear()
}

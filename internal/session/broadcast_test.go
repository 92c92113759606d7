package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/filestore"
)

type engineFixture struct {
	store     *Store
	templates *filestore.TemplateStore
	failed    *filestore.FailedStore
	engine    *Engine
	client    *fakeClient
	template  domain.MessageTemplate
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	dir := t.TempDir()
	f := &engineFixture{
		store:     NewStore(),
		templates: filestore.NewTemplateStore(filepath.Join(dir, "templates.json")),
		failed:    filestore.NewFailedStore(filepath.Join(dir, "failed.json")),
		client:    newFakeClient(),
	}
	f.engine = NewEngine(f.store, f.templates, f.failed, dir)

	tpl, err := f.templates.Create("Greeting", "Hello", nil)
	assert.NoError(t, err)
	f.template = tpl

	f.store.BindCookie(f.client)
	f.store.ReplaceRoster([]domain.ChatEntity{
		{ID: "a", Name: "Alice", Type: domain.ChatKindUser},
		{ID: "b", Name: "Bob", Type: domain.ChatKindUser},
		{ID: "c", Name: "Team", Type: domain.ChatKindGroup},
	})
	return f
}

func TestBroadcastAllSucceed(t *testing.T) {
	f := newEngineFixture(t)

	res, err := f.engine.Broadcast(context.Background(), []string{"a", "b", "c"}, f.template.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, res.Sent)
	assert.Equal(t, 0, res.FailedCount)
	assert.Len(t, res.Results, 3)
	assert.Equal(t, []string{"a", "b", "c"}, f.client.sent)
	assert.Empty(t, f.failed.All())
}

func TestBroadcastPartialFailure(t *testing.T) {
	f := newEngineFixture(t)
	f.client.sendErr["b"] = assert.AnError

	res, err := f.engine.Broadcast(context.Background(), []string{"a", "b", "c"}, f.template.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, res.Sent)
	assert.Equal(t, 1, res.FailedCount)
	assert.Len(t, res.Results, 3)
	assert.True(t, res.Results[0].Success)
	assert.False(t, res.Results[1].Success)
	assert.True(t, res.Results[2].Success)

	// exactly one failure record, for the failed recipient only
	records := f.failed.All()
	assert.Len(t, records, 1)
	assert.Equal(t, "b", records[0].ChatID)
	assert.Equal(t, "Bob", records[0].ChatName)
	assert.Equal(t, f.template.ID, records[0].TemplateID)
	assert.Equal(t, "Greeting", records[0].TemplateName)
}

func TestBroadcastUnknownRecipientNoFailureRecord(t *testing.T) {
	f := newEngineFixture(t)

	res, err := f.engine.Broadcast(context.Background(), []string{"a", "ghost"}, f.template.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, 1, res.FailedCount)
	assert.Equal(t, domain.ErrRecipientNotFound.Error(), res.Results[1].Message)

	// unknown ids are reported inline but never persisted for retry
	assert.Empty(t, f.failed.All())
}

func TestBroadcastUnknownTemplateNoSideEffects(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.engine.Broadcast(context.Background(), []string{"a"}, "missing")
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	assert.Empty(t, f.client.sent)
	assert.Empty(t, f.failed.All())
}

func TestBroadcastRequiresAuthentication(t *testing.T) {
	f := newEngineFixture(t)
	f.store.Teardown(domain.StatusWaiting)

	_, err := f.engine.Broadcast(context.Background(), []string{"a"}, f.template.ID)
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	assert.Empty(t, f.client.sent)
}

func TestBroadcastGroupUsesGroupThread(t *testing.T) {
	f := newEngineFixture(t)

	res, err := f.engine.Broadcast(context.Background(), []string{"c"}, f.template.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
	assert.Equal(t, []string{"c"}, f.client.sent)
}

package session

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/filestore"
	"github.com/talkincode/zcast/internal/platform"
	"go.uber.org/zap"
)

// SendOutcome is the per-recipient result of one broadcast.
type SendOutcome struct {
	ChatID  string `json:"chatId"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// BroadcastResult aggregates one broadcast call.
type BroadcastResult struct {
	Sent        int           `json:"sent"`
	FailedCount int           `json:"failedCount"`
	Results     []SendOutcome `json:"results"`
}

// Engine sends one template to a set of recipients, strictly sequentially.
// Per-recipient failures are collected and persisted for retry; they never
// abort the loop.
type Engine struct {
	store     *Store
	templates *filestore.TemplateStore
	failed    *filestore.FailedStore
	workdir   string
}

func NewEngine(store *Store, templates *filestore.TemplateStore, failed *filestore.FailedStore, workdir string) *Engine {
	return &Engine{store: store, templates: templates, failed: failed, workdir: workdir}
}

// Broadcast sends the template to every chat id in order. It aborts with
// ErrNotAuthenticated when no live session exists and with
// ErrTemplateNotFound before any send when the template is unknown; both
// leave zero side effects.
func (e *Engine) Broadcast(ctx context.Context, chatIDs []string, templateID string) (BroadcastResult, error) {
	if !e.store.Authenticated() {
		return BroadcastResult{}, domain.ErrNotAuthenticated
	}
	cli := e.store.Handle()

	tpl, err := e.templates.Get(templateID)
	if err != nil {
		return BroadcastResult{}, err
	}

	msg := platform.Message{
		Msg:         tpl.Content,
		Attachments: e.resolveAttachments(tpl.Attachments),
	}

	result := BroadcastResult{Results: make([]SendOutcome, 0, len(chatIDs))}
	for _, chatID := range chatIDs {
		chat, found := e.store.FindRecipient(chatID)
		if !found {
			result.Results = append(result.Results, SendOutcome{
				ChatID:  chatID,
				Message: domain.ErrRecipientNotFound.Error(),
			})
			continue
		}

		if err := e.send(ctx, cli, msg, chat); err != nil {
			zap.L().Error("broadcast: send failed", zap.String("chat_id", chatID), zap.Error(err))
			result.Results = append(result.Results, SendOutcome{ChatID: chatID, Message: err.Error()})
			// best-effort failure bookkeeping; a persistence error must not
			// stop the remaining recipients
			if _, serr := e.failed.Add(chatID, chat.Name, tpl.ID, tpl.DisplayName); serr != nil {
				zap.L().Error("broadcast: persist failed-send record", zap.String("chat_id", chatID), zap.Error(serr))
			}
			continue
		}
		result.Results = append(result.Results, SendOutcome{ChatID: chatID, Success: true})
		result.Sent++
	}

	result.FailedCount = len(result.Results) - result.Sent
	return result, nil
}

func (e *Engine) send(ctx context.Context, cli platform.Client, msg platform.Message, chat domain.ChatEntity) error {
	threadType := platform.ThreadUser
	if chat.Type == domain.ChatKindGroup {
		threadType = platform.ThreadGroup
	}
	return cli.SendMessage(ctx, msg, chat.ID, threadType)
}

// resolveAttachments maps stored relative paths ("/uploads/<file>") to
// absolute paths under the workdir.
func (e *Engine) resolveAttachments(refs []domain.AttachmentRef) []string {
	if len(refs) == 0 {
		return nil
	}
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, filepath.Join(e.workdir, strings.TrimPrefix(ref.Path, "/")))
	}
	return out
}

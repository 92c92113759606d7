// Package platform abstracts the external chat-platform client. The console
// core only depends on these interfaces; the production implementation is the
// HTTP bridge in this package, tests inject fakes.
package platform

import (
	"context"

	"github.com/talkincode/zcast/internal/domain"
)

// ThreadType distinguishes direct chats from group chats on the wire.
type ThreadType int

const (
	ThreadUser  ThreadType = 0
	ThreadGroup ThreadType = 1
)

// Friend is a raw friend record as returned by the platform.
type Friend struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	ZaloName    string `json:"zaloName"`
	Avatar      string `json:"avatar"`
	Timestamp   int64  `json:"timestamp"`
}

// GroupInfo is raw per-group metadata, resolved separately from the group id
// listing.
type GroupInfo struct {
	GroupID     string `json:"groupId"`
	Name        string `json:"name"`
	Avatar      string `json:"avt"`
	FullAvatar  string `json:"fullAvt"`
	TotalMember int    `json:"totalMember"`
	Timestamp   int64  `json:"timestamp"`
}

// Message is the payload of one send: text plus absolute attachment paths.
type Message struct {
	Msg         string   `json:"msg"`
	Attachments []string `json:"attachments,omitempty"`
}

// Listener is the platform's long-lived event stream for one authenticated
// session. Callbacks must be registered before Start; Stop is idempotent.
type Listener interface {
	Start()
	Stop()
	OnConnected(fn func())
	OnError(fn func(err error))
}

// Client is one authenticated platform session.
type Client interface {
	// Context returns the persistable login credential for this session.
	Context(ctx context.Context) (domain.Credential, error)
	GetAllFriends(ctx context.Context) ([]Friend, error)
	// GetAllGroups returns the ids of all joined groups.
	GetAllGroups(ctx context.Context) ([]string, error)
	GetGroupInfo(ctx context.Context, groupIDs []string) ([]GroupInfo, error)
	SendMessage(ctx context.Context, msg Message, threadID string, threadType ThreadType) error
	Listener() Listener
}

// Dialer opens platform sessions. LoginQR blocks until the operator scans the
// QR or ctx expires; the QR artifact is written to qrFile as soon as the
// platform hands out the code, before the call resolves.
type Dialer interface {
	LoginQR(ctx context.Context, qrFile string) (Client, error)
	LoginCookie(ctx context.Context, cred domain.Credential) (Client, error)
}

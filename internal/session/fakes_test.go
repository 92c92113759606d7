package session

import (
	"context"
	"sync"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/platform"
)

// fakeListener records lifecycle calls and lets tests fire callbacks.
type fakeListener struct {
	mu          sync.Mutex
	started     int
	stopped     int
	onConnected func()
	onError     func(err error)
}

func (l *fakeListener) Start() {
	l.mu.Lock()
	l.started++
	l.mu.Unlock()
}

func (l *fakeListener) Stop() {
	l.mu.Lock()
	l.stopped++
	l.mu.Unlock()
}

func (l *fakeListener) OnConnected(fn func()) {
	l.mu.Lock()
	l.onConnected = fn
	l.mu.Unlock()
}

func (l *fakeListener) OnError(fn func(err error)) {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
}

func (l *fakeListener) fireConnected() {
	l.mu.Lock()
	fn := l.onConnected
	l.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (l *fakeListener) stopCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}

// fakeClient is a scriptable platform client.
type fakeClient struct {
	cred     domain.Credential
	credErr  error
	friends  []platform.Friend
	groups   []string
	infos    map[string]platform.GroupInfo
	infoErr  error
	sendErr  map[string]error
	sent     []string
	listener *fakeListener
	mu       sync.Mutex
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		cred: domain.Credential{
			Status: domain.StatusSuccess,
			Cookie: "cookie", Imei: "imei", Agent: "agent",
		},
		infos:    map[string]platform.GroupInfo{},
		sendErr:  map[string]error{},
		listener: &fakeListener{},
	}
}

func (c *fakeClient) Context(ctx context.Context) (domain.Credential, error) {
	return c.cred, c.credErr
}

func (c *fakeClient) GetAllFriends(ctx context.Context) ([]platform.Friend, error) {
	return c.friends, nil
}

func (c *fakeClient) GetAllGroups(ctx context.Context) ([]string, error) {
	return c.groups, nil
}

func (c *fakeClient) GetGroupInfo(ctx context.Context, groupIDs []string) ([]platform.GroupInfo, error) {
	if c.infoErr != nil {
		return nil, c.infoErr
	}
	out := make([]platform.GroupInfo, 0, len(groupIDs))
	for _, id := range groupIDs {
		if info, ok := c.infos[id]; ok {
			out = append(out, info)
		}
	}
	return out, nil
}

func (c *fakeClient) SendMessage(ctx context.Context, msg platform.Message, threadID string, threadType platform.ThreadType) error {
	if err := c.sendErr[threadID]; err != nil {
		return err
	}
	c.mu.Lock()
	c.sent = append(c.sent, threadID)
	c.mu.Unlock()
	return nil
}

func (c *fakeClient) Listener() platform.Listener { return c.listener }

// fakeDialer hands out pre-built clients, optionally blocking QR login until
// released so tests can interleave a refresh.
type fakeDialer struct {
	mu           sync.Mutex
	qrClient     *fakeClient
	qrErr        error
	qrGate       chan struct{}
	cookieClient *fakeClient
	cookieErr    error
	cookieCalls  int
}

func (d *fakeDialer) LoginQR(ctx context.Context, qrFile string) (platform.Client, error) {
	if d.qrGate != nil {
		select {
		case <-d.qrGate:
		case <-ctx.Done():
			return nil, domain.ErrLoginTimeout
		}
	}
	if d.qrErr != nil {
		return nil, d.qrErr
	}
	return d.qrClient, nil
}

func (d *fakeDialer) LoginCookie(ctx context.Context, cred domain.Credential) (platform.Client, error) {
	d.mu.Lock()
	d.cookieCalls++
	d.mu.Unlock()
	if d.cookieErr != nil {
		return nil, d.cookieErr
	}
	return d.cookieClient, nil
}

// recordingPublisher captures published status events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.StatusEvent
}

func (p *recordingPublisher) Publish(evt domain.StatusEvent) {
	p.mu.Lock()
	p.events = append(p.events, evt)
	p.mu.Unlock()
}

func (p *recordingPublisher) statuses() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Status)
	}
	return out
}

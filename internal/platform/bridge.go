package platform

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/guonaihong/gout"
	"github.com/pkg/errors"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/talkincode/zcast/internal/domain"
	"go.uber.org/zap"
)

// Bridge talks to the zca sidecar over HTTP. The sidecar owns the actual
// platform protocol; this side only moves JSON.
type Bridge struct {
	baseURL string
}

func NewBridge(baseURL string) *Bridge {
	return &Bridge{baseURL: baseURL}
}

type qrStartResp struct {
	Session string `json:"session"`
	QRCode  string `json:"qrCode"`
}

type loginResp struct {
	Session string `json:"session"`
	Cookie  string `json:"cookie"`
	Imei    string `json:"imei"`
	Agent   string `json:"userAgent"`
}

// LoginQR starts a QR login on the sidecar, renders the QR payload to qrFile
// and then blocks until the sidecar reports the scan or ctx expires.
func (b *Bridge) LoginQR(ctx context.Context, qrFile string) (Client, error) {
	var start qrStartResp
	var code int
	err := gout.POST(b.baseURL + "/api/login/qr").
		WithContext(ctx).
		BindJSON(&start).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "bridge: start qr login")
	}
	if code != 200 {
		return nil, errors.Errorf("bridge: start qr login: http %d", code)
	}

	if err := qrcode.WriteFile(start.QRCode, qrcode.Medium, 256, qrFile); err != nil {
		return nil, errors.Wrap(err, "bridge: write qr image")
	}

	var login loginResp
	err = gout.GET(b.baseURL+"/api/login/qr/wait").
		WithContext(ctx).
		SetQuery(gout.H{"session": start.Session}).
		BindJSON(&login).
		Code(&code).
		Do()
	if err != nil {
		if ctx.Err() != nil {
			return nil, domain.ErrLoginTimeout
		}
		return nil, errors.Wrap(err, "bridge: wait qr login")
	}
	if code != 200 {
		return nil, errors.Errorf("bridge: wait qr login: http %d", code)
	}
	return b.newSession(login), nil
}

// LoginCookie re-establishes a session from a persisted credential.
func (b *Bridge) LoginCookie(ctx context.Context, cred domain.Credential) (Client, error) {
	var login loginResp
	var code int
	err := gout.POST(b.baseURL + "/api/login/cookie").
		WithContext(ctx).
		SetJSON(gout.H{
			"cookie":    cred.Cookie,
			"imei":      cred.Imei,
			"userAgent": cred.Agent,
		}).
		BindJSON(&login).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "bridge: cookie login")
	}
	if code != 200 {
		return nil, errors.Errorf("bridge: cookie login: http %d", code)
	}
	return b.newSession(login), nil
}

func (b *Bridge) newSession(login loginResp) *bridgeSession {
	s := &bridgeSession{
		baseURL: b.baseURL,
		session: login.Session,
		cred: domain.Credential{
			LoginTime: time.Now().Format(time.RFC3339),
			Status:    domain.StatusSuccess,
			Timestamp: time.Now().UnixMilli(),
			Cookie:    login.Cookie,
			Imei:      login.Imei,
			Agent:     login.Agent,
		},
	}
	s.listener = newBridgeListener(b.baseURL, login.Session)
	return s
}

// bridgeSession is one authenticated sidecar session.
type bridgeSession struct {
	baseURL  string
	session  string
	cred     domain.Credential
	listener *bridgeListener
}

func (s *bridgeSession) Context(ctx context.Context) (domain.Credential, error) {
	return s.cred, nil
}

func (s *bridgeSession) get(ctx context.Context, path string, query gout.H, out interface{}) error {
	if query == nil {
		query = gout.H{}
	}
	query["session"] = s.session
	var code int
	err := gout.GET(s.baseURL + path).
		WithContext(ctx).
		SetQuery(query).
		BindJSON(out).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrapf(err, "bridge: GET %s", path)
	}
	if code != 200 {
		return errors.Errorf("bridge: GET %s: http %d", path, code)
	}
	return nil
}

func (s *bridgeSession) GetAllFriends(ctx context.Context) ([]Friend, error) {
	var resp struct {
		Friends []Friend `json:"friends"`
	}
	if err := s.get(ctx, "/api/friends", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Friends, nil
}

func (s *bridgeSession) GetAllGroups(ctx context.Context) ([]string, error) {
	var resp struct {
		GroupIDs []string `json:"groupIds"`
	}
	if err := s.get(ctx, "/api/groups", nil, &resp); err != nil {
		return nil, err
	}
	return resp.GroupIDs, nil
}

func (s *bridgeSession) GetGroupInfo(ctx context.Context, groupIDs []string) ([]GroupInfo, error) {
	var resp struct {
		Groups []GroupInfo `json:"groups"`
	}
	var code int
	err := gout.POST(s.baseURL + "/api/groups/info").
		WithContext(ctx).
		SetQuery(gout.H{"session": s.session}).
		SetJSON(gout.H{"groupIds": groupIDs}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "bridge: group info")
	}
	if code != 200 {
		return nil, errors.Errorf("bridge: group info: http %d", code)
	}
	return resp.Groups, nil
}

func (s *bridgeSession) SendMessage(ctx context.Context, msg Message, threadID string, threadType ThreadType) error {
	var resp struct {
		OK      bool   `json:"ok"`
		Message string `json:"message"`
	}
	var code int
	err := gout.POST(s.baseURL + "/api/message").
		WithContext(ctx).
		SetQuery(gout.H{"session": s.session}).
		SetJSON(gout.H{
			"msg":         msg.Msg,
			"attachments": msg.Attachments,
			"threadId":    threadID,
			"threadType":  int(threadType),
		}).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return errors.Wrapf(err, "bridge: send to %s", threadID)
	}
	if code != 200 || !resp.OK {
		return errors.Errorf("bridge: send to %s failed: %s", threadID, resp.Message)
	}
	return nil
}

func (s *bridgeSession) Listener() Listener {
	return s.listener
}

// bridgeListener long-polls the sidecar event endpoint and dispatches
// connected/error callbacks. One listener per session.
type bridgeListener struct {
	baseURL string
	session string

	mu          sync.Mutex
	onConnected func()
	onError     func(error)
	cancel      context.CancelFunc
	running     bool
}

func newBridgeListener(baseURL, session string) *bridgeListener {
	return &bridgeListener{baseURL: baseURL, session: session}
}

func (l *bridgeListener) OnConnected(fn func()) {
	l.mu.Lock()
	l.onConnected = fn
	l.mu.Unlock()
}

func (l *bridgeListener) OnError(fn func(err error)) {
	l.mu.Lock()
	l.onError = fn
	l.mu.Unlock()
}

func (l *bridgeListener) Start() {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	l.running = true
	l.mu.Unlock()

	go l.poll(ctx)
}

func (l *bridgeListener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.running = false
}

type bridgeEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (l *bridgeListener) poll(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var resp struct {
			Events []bridgeEvent `json:"events"`
		}
		var code int
		err := gout.GET(l.baseURL+"/api/events").
			WithContext(ctx).
			SetQuery(gout.H{"session": l.session}).
			BindJSON(&resp).
			Code(&code).
			Do()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			zap.L().Warn("bridge: event poll failed", zap.Error(err))
			time.Sleep(2 * time.Second)
			continue
		}
		if code != 200 {
			time.Sleep(2 * time.Second)
			continue
		}

		for _, evt := range resp.Events {
			l.dispatch(evt)
		}
	}
}

func (l *bridgeListener) dispatch(evt bridgeEvent) {
	l.mu.Lock()
	onConnected, onError := l.onConnected, l.onError
	l.mu.Unlock()

	switch evt.Type {
	case "connected":
		if onConnected != nil {
			onConnected()
		}
	case "error":
		if onError != nil {
			onError(fmt.Errorf("%s", evt.Message))
		}
	default:
		zap.L().Debug("bridge: unhandled event", zap.String("type", evt.Type))
	}
}

package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/filestore"
	"github.com/talkincode/zcast/internal/platform"
	"go.uber.org/zap"
)

// Publisher pushes status events to connected browser clients.
type Publisher interface {
	Publish(evt domain.StatusEvent)
}

// QRResult is the JSON body answered to the QR create/refresh endpoint.
type QRResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	QRUrl       string `json:"qrUrl,omitempty"`
	QRSessionID int64  `json:"qrSessionId,omitempty"`
}

// LoginFlow orchestrates the QR login state machine:
// waiting → generating_qr → {success | error}, with logout returning to
// waiting and refresh re-entering generating_qr after tearing down the
// previous attempt.
type LoginFlow struct {
	store  *Store
	creds  *filestore.CredentialFile
	dialer platform.Dialer
	syncer *Syncer
	events Publisher

	qrFile       string
	loginTimeout time.Duration
	settleDelay  time.Duration

	// serializes concurrent begin/logout requests; the epoch guard alone only
	// discards stale callbacks, it does not order attempt setup
	mu sync.Mutex
}

func NewLoginFlow(store *Store, creds *filestore.CredentialFile, dialer platform.Dialer,
	syncer *Syncer, events Publisher, qrFile string, loginTimeout, settleDelay time.Duration) *LoginFlow {
	return &LoginFlow{
		store:        store,
		creds:        creds,
		dialer:       dialer,
		syncer:       syncer,
		events:       events,
		qrFile:       qrFile,
		loginTimeout: loginTimeout,
		settleDelay:  settleDelay,
	}
}

// Begin starts a fresh QR login attempt. It tears down any previous attempt,
// launches the login race in the background and answers after a short settle
// delay without waiting for the race to resolve: the operator sees the QR and
// the scan lands asynchronously.
func (f *LoginFlow) Begin() QRResult {
	f.mu.Lock()
	defer f.mu.Unlock()

	epoch, old := f.store.BeginAttempt()
	if old != nil {
		old.Listener().Stop()
		zap.L().Info("loginflow: stopped listener of superseded attempt")
	}
	f.clearQR()
	f.events.Publish(domain.StatusEvent{Status: domain.StatusGeneratingQR, Message: "Generating QR code..."})

	go f.runLogin(epoch)

	// the QR image appears on disk within the settle window; the race keeps
	// running after we answer
	time.Sleep(f.settleDelay)

	qrURL := fmt.Sprintf("/qr.png?t=%d", time.Now().UnixMilli())
	f.events.Publish(domain.StatusEvent{
		Status:  domain.StatusWaiting,
		Message: "Scan the QR code to log in",
		QRUrl:   qrURL,
	})
	return QRResult{
		Success:     true,
		Message:     "QR code generated",
		QRUrl:       qrURL,
		QRSessionID: epoch,
	}
}

// runLogin races the platform QR login against the configured timeout. A
// timeout or failure is not fatal: the session stays in waiting and the
// operator may refresh.
func (f *LoginFlow) runLogin(epoch int64) {
	ctx, cancel := context.WithTimeout(context.Background(), f.loginTimeout)
	defer cancel()

	cli, err := f.dialer.LoginQR(ctx, f.qrFile)
	if err != nil {
		zap.L().Warn("loginflow: qr login did not resolve", zap.Int64("epoch", epoch), zap.Error(err))
		return
	}
	f.completeLogin(cli, epoch)
}

// completeLogin is the background success path. The epoch check guards
// against a QR refresh that superseded this attempt while the login call was
// in flight.
func (f *LoginFlow) completeLogin(cli platform.Client, epoch int64) {
	if !f.store.Bind(cli, epoch) {
		zap.L().Warn("loginflow: login resolved for superseded attempt, discarding", zap.Int64("epoch", epoch))
		return
	}
	f.persistCredential(cli)
	f.events.Publish(domain.StatusEvent{
		Status:   domain.StatusSuccess,
		Message:  "Login successful, redirecting...",
		Redirect: "/chats",
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if _, err := f.syncer.Sync(ctx, cli); err != nil {
		zap.L().Error("loginflow: initial roster sync failed", zap.Error(err))
		f.store.ReplaceRoster([]domain.ChatEntity{})
		f.events.Publish(domain.StatusEvent{Status: domain.StatusError, Message: "Failed to load chat list"})
	}

	f.attachListener(cli, epoch)
}

// attachListener binds the long-lived platform listener scoped to epoch.
// Callbacks re-check the epoch before touching shared state: the listener may
// fire long after a newer QR cycle started.
func (f *LoginFlow) attachListener(cli platform.Client, epoch int64) {
	l := cli.Listener()
	l.OnConnected(func() {
		if !f.store.MatchEpoch(epoch) {
			zap.L().Warn("loginflow: onConnected for stale epoch, ignoring", zap.Int64("epoch", epoch))
			return
		}
		f.store.SetStatus(domain.StatusSuccess)
		f.persistCredential(cli)
		f.events.Publish(domain.StatusEvent{
			Status:   domain.StatusSuccess,
			Message:  "Login successful, redirecting...",
			Redirect: "/chats",
		})
	})
	l.OnError(func(err error) {
		if !f.store.MatchEpoch(epoch) {
			zap.L().Warn("loginflow: listener error for stale epoch, ignoring", zap.Error(err))
			return
		}
		zap.L().Error("loginflow: listener error", zap.Error(err))
		f.store.SetStatus(domain.StatusError)
		f.events.Publish(domain.StatusEvent{Status: domain.StatusError, Message: fmt.Sprintf("Login error: %v", err)})
	})
	l.Start()
}

func (f *LoginFlow) persistCredential(cli platform.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	cred, err := cli.Context(ctx)
	if err != nil {
		zap.L().Warn("loginflow: fetch login context failed", zap.Error(err))
		return
	}
	if err := f.creds.Save(cred); err != nil {
		zap.L().Warn("loginflow: persist credential failed", zap.Error(err))
	}
}

// Logout tears the session down: listener stopped, handle released, roster
// cleared, credential and QR artifact removed.
func (f *LoginFlow) Logout() {
	f.mu.Lock()
	defer f.mu.Unlock()

	old := f.store.Teardown(domain.StatusWaiting)
	if old != nil {
		old.Listener().Stop()
	}
	f.creds.Clear()
	f.clearQR()
	f.events.Publish(domain.StatusEvent{Status: domain.StatusLoggedOut, Message: "Logged out"})
	zap.L().Info("loginflow: session torn down")
}

func (f *LoginFlow) clearQR() {
	if err := os.Remove(f.qrFile); err != nil && !os.IsNotExist(err) {
		zap.L().Warn("loginflow: remove qr artifact failed", zap.Error(err))
	}
}

package session

import (
	"context"
	"errors"
	"time"

	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/internal/filestore"
	"github.com/talkincode/zcast/internal/platform"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AuthGate decides on every protected request whether a usable session
// exists, re-establishing one from the persisted credential when possible.
type AuthGate struct {
	store  *Store
	creds  *filestore.CredentialFile
	dialer platform.Dialer
	flight singleflight.Group
}

func NewAuthGate(store *Store, creds *filestore.CredentialFile, dialer platform.Dialer) *AuthGate {
	return &AuthGate{store: store, creds: creds, dialer: dialer}
}

// EnsureSession validates the persisted credential and, if the store has no
// live handle yet, performs a cookie login. Invalid, expired or incomplete
// credentials are cleared. Concurrent callers share a single login attempt.
//
// A fresh, valid credential that takes the fast path is never rewritten.
func (g *AuthGate) EnsureSession(ctx context.Context) bool {
	cred, err := g.creds.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			zap.L().Warn("authgate: credential unreadable", zap.Error(err))
			g.creds.Clear()
		}
		return false
	}
	if !cred.Valid(time.Now()) {
		zap.L().Info("authgate: credential expired or incomplete, clearing")
		g.creds.Clear()
		return false
	}

	if g.store.Handle() != nil {
		return true
	}

	v, _, _ := g.flight.Do("cookie-login", func() (interface{}, error) {
		// another request may have completed the login while we queued
		if g.store.Handle() != nil {
			return true, nil
		}
		cli, err := g.dialer.LoginCookie(ctx, cred)
		if err != nil {
			zap.L().Warn("authgate: cookie login failed, clearing credential", zap.Error(err))
			g.creds.Clear()
			return false, nil
		}
		g.store.BindCookie(cli)
		zap.L().Info("authgate: session restored from stored credential")
		return true, nil
	})
	ok, _ := v.(bool)
	return ok
}

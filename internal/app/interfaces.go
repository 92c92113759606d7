package app

import (
	"github.com/robfig/cron/v3"
	"github.com/talkincode/zcast/config"
	"github.com/talkincode/zcast/internal/filestore"
	"github.com/talkincode/zcast/internal/session"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SessionProvider provides the login/session machinery
type SessionProvider interface {
	SessionStore() *session.Store
	AuthGate() *session.AuthGate
	LoginFlow() *session.LoginFlow
	RosterSyncer() *session.Syncer
	Broadcaster() *session.Engine
}

// StoreProvider provides the flat-file stores
type StoreProvider interface {
	Templates() *filestore.TemplateStore
	FailedMessages() *filestore.FailedStore
	Credentials() *filestore.CredentialFile
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext combines all provider interfaces for full application context.
// Handlers should depend on specific providers or this combined interface.
type AppContext interface {
	ConfigProvider
	SessionProvider
	StoreProvider
	SchedulerProvider

	// NextFileID mints a unique id for stored upload filenames
	NextFileID() string
}

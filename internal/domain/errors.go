package domain

import "errors"

// Sentinel errors checked across package boundaries with errors.Is.
var (
	// ErrNotAuthenticated means no usable session exists; recoverable by re-login.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNoCredential means the persisted credential file is missing.
	ErrNoCredential = errors.New("no stored credential")
	// ErrCredentialExpired means the credential is older than CredentialMaxAge
	// or incomplete.
	ErrCredentialExpired = errors.New("stored credential expired or incomplete")
	// ErrLoginTimeout means the QR login race hit its deadline; recoverable by
	// refreshing the QR.
	ErrLoginTimeout = errors.New("login timed out")
	// ErrTemplateNotFound aborts a broadcast before any send is attempted.
	ErrTemplateNotFound = errors.New("template not found")
	// ErrRecipientNotFound is a per-recipient broadcast outcome, never fatal to
	// the broadcast itself.
	ErrRecipientNotFound = errors.New("recipient not found in roster")
)

package domain

import "time"

// CredentialMaxAge is how long a persisted login credential stays usable.
const CredentialMaxAge = 24 * time.Hour

// Credential is the persisted cookie-login record written after a successful
// QR login and consumed by the auth gate on protected requests.
type Credential struct {
	LoginTime string `json:"loginTime"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
	Cookie    string `json:"cookie"`
	Imei      string `json:"imei"`
	Agent     string `json:"agent"`
}

// Valid reports whether the credential is complete, marked successful and
// younger than CredentialMaxAge as of now.
func (c Credential) Valid(now time.Time) bool {
	if c.Status != StatusSuccess {
		return false
	}
	if c.Cookie == "" || c.Imei == "" || c.Agent == "" {
		return false
	}
	age := now.Sub(time.UnixMilli(c.Timestamp))
	return age < CredentialMaxAge
}

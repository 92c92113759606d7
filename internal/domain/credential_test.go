package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCredentialValid(t *testing.T) {
	now := time.Now()
	base := Credential{
		Status:    StatusSuccess,
		Timestamp: now.UnixMilli(),
		Cookie:    "cookie", Imei: "imei", Agent: "agent",
	}
	assert.True(t, base.Valid(now))

	expired := base
	expired.Timestamp = now.Add(-CredentialMaxAge - time.Minute).UnixMilli()
	assert.False(t, expired.Valid(now))

	justUnder := base
	justUnder.Timestamp = now.Add(-CredentialMaxAge + time.Minute).UnixMilli()
	assert.True(t, justUnder.Valid(now))

	wrongStatus := base
	wrongStatus.Status = StatusError
	assert.False(t, wrongStatus.Valid(now))

	for _, mutate := range []func(*Credential){
		func(c *Credential) { c.Cookie = "" },
		func(c *Credential) { c.Imei = "" },
		func(c *Credential) { c.Agent = "" },
	} {
		cred := base
		mutate(&cred)
		assert.False(t, cred.Valid(now))
	}
}

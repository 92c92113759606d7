package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Equal(t, DefaultAppConfig.Web.Port, cfg.Web.Port)
	assert.Equal(t, DefaultAppConfig.Platform.LoginTimeout, cfg.Platform.LoginTimeout)
}

func TestLoadConfigFromFile(t *testing.T) {
	cfile := filepath.Join(t.TempDir(), "zcast.yml")
	body := `
system:
  workdir: /tmp/zcast-test
web:
  port: 9001
platform:
  bridge_url: http://127.0.0.1:4000
  group_batch: true
`
	assert.NoError(t, os.WriteFile(cfile, []byte(body), 0o644))

	cfg := LoadConfig(cfile)
	assert.Equal(t, "/tmp/zcast-test", cfg.System.Workdir)
	assert.Equal(t, 9001, cfg.Web.Port)
	assert.Equal(t, "http://127.0.0.1:4000", cfg.Platform.BridgeURL)
	assert.True(t, cfg.Platform.GroupBatch)
	// durations come from defaults or env, yaml scalars stay numeric
	assert.Equal(t, DefaultAppConfig.Platform.LoginTimeout, cfg.Platform.LoginTimeout)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ZCAST_WEB_PORT", "8801")
	t.Setenv("ZCAST_SYSTEM_WORKDIR", "/tmp/zcast-env")
	t.Setenv("ZCAST_PLATFORM_SETTLE_DELAY", "200ms")

	cfg := LoadConfig("")
	assert.Equal(t, 8801, cfg.Web.Port)
	assert.Equal(t, "/tmp/zcast-env", cfg.System.Workdir)
	assert.Equal(t, 200*time.Millisecond, cfg.Platform.SettleDelay)
}

func TestWorkdirPathHelpers(t *testing.T) {
	cfg := &AppConfig{System: SysConfig{Workdir: "/srv/zcast"}}
	assert.Equal(t, "/srv/zcast/auth.json", cfg.AuthFile())
	assert.Equal(t, "/srv/zcast/qr.png", cfg.QRFile())
	assert.Equal(t, "/srv/zcast/templates.json", cfg.TemplateFile())
	assert.Equal(t, "/srv/zcast/failed.json", cfg.FailedMessagesFile())
	assert.Equal(t, "/srv/zcast/uploads", cfg.UploadsDir())
}

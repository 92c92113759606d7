package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	PublicDir string `yaml:"public_dir" json:"public_dir"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// PlatformConfig drives the chat-platform bridge and the login flow timing.
type PlatformConfig struct {
	BridgeURL string `yaml:"bridge_url" json:"bridge_url"`
	// LoginTimeout bounds the QR login race.
	LoginTimeout time.Duration `yaml:"login_timeout" json:"login_timeout"`
	// SettleDelay is how long the QR endpoint waits before answering the HTTP
	// caller; the login race keeps running in the background.
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`
	// GroupBatch selects the group metadata policy: one batched call
	// (all-or-nothing) instead of per-group calls (skip on error).
	GroupBatch bool `yaml:"group_batch" json:"group_batch"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
	Platform PlatformConfig `yaml:"platform" json:"platform"`
}

// File locations under the workdir.
func (c *AppConfig) AuthFile() string {
	return filepath.Join(c.System.Workdir, "auth.json")
}

func (c *AppConfig) QRFile() string {
	return filepath.Join(c.System.Workdir, "qr.png")
}

func (c *AppConfig) TemplateFile() string {
	return filepath.Join(c.System.Workdir, "templates.json")
}

func (c *AppConfig) FailedMessagesFile() string {
	return filepath.Join(c.System.Workdir, "failed.json")
}

func (c *AppConfig) UploadsDir() string {
	return filepath.Join(c.System.Workdir, "uploads")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "zcast",
		Location: "Asia/Ho_Chi_Minh",
		Workdir:  "/var/zcast",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      3001,
		PublicDir: "public",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/zcast/zcast.log",
	},
	Platform: PlatformConfig{
		BridgeURL:    "http://127.0.0.1:3002",
		LoginTimeout: 30 * time.Second,
		SettleDelay:  500 * time.Millisecond,
		GroupBatch:   false,
	},
}

func setEnvValue(name string, val *string) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToBool(evalue)
	}
}

func setEnvIntValue(name string, val *int) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToInt(evalue)
	}
}

func setEnvDurationValue(name string, val *time.Duration) {
	if evalue, ok := os.LookupEnv(name); ok {
		*val = cast.ToDuration(evalue)
	}
}

// LoadConfig reads the YAML config file and applies ZCAST_* environment
// overrides. A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig

	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("ZCAST_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvValue("ZCAST_SYSTEM_LOCATION", &cfg.System.Location)
	setEnvBoolValue("ZCAST_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("ZCAST_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("ZCAST_WEB_PORT", &cfg.Web.Port)
	setEnvValue("ZCAST_WEB_PUBLIC_DIR", &cfg.Web.PublicDir)
	setEnvValue("ZCAST_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("ZCAST_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("ZCAST_LOGGER_FILENAME", &cfg.Logger.Filename)
	setEnvValue("ZCAST_PLATFORM_BRIDGE_URL", &cfg.Platform.BridgeURL)
	setEnvDurationValue("ZCAST_PLATFORM_LOGIN_TIMEOUT", &cfg.Platform.LoginTimeout)
	setEnvDurationValue("ZCAST_PLATFORM_SETTLE_DELAY", &cfg.Platform.SettleDelay)
	setEnvBoolValue("ZCAST_PLATFORM_GROUP_BATCH", &cfg.Platform.GroupBatch)

	return cfg
}

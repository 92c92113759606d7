package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/zcast/config"
	"github.com/talkincode/zcast/internal/filestore"
	"github.com/talkincode/zcast/internal/platform"
	"github.com/talkincode/zcast/internal/session"
	"github.com/talkincode/zcast/pkg/metrics"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Application struct {
	appConfig *config.AppConfig
	sched     *cron.Cron
	snode     *snowflake.Node

	sessionStore *session.Store
	authGate     *session.AuthGate
	loginFlow    *session.LoginFlow
	syncer       *session.Syncer
	engine       *session.Engine

	templates *filestore.TemplateStore
	failed    *filestore.FailedStore
	creds     *filestore.CredentialFile
	dialer    platform.Dialer
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ SessionProvider   = (*Application)(nil)
	_ StoreProvider     = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

// Init wires logging, metrics, stores and the session machinery. events is
// the push channel the login flow publishes status transitions to.
func (a *Application) Init(events session.Publisher) {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger()

	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	for _, dir := range []string{cfg.System.Workdir, cfg.UploadsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zap.S().Errorf("workdir init failed: %v", err)
		}
	}

	a.snode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	a.templates = filestore.NewTemplateStore(cfg.TemplateFile())
	a.failed = filestore.NewFailedStore(cfg.FailedMessagesFile())
	a.creds = filestore.NewCredentialFile(cfg.AuthFile())
	a.dialer = platform.NewBridge(cfg.Platform.BridgeURL)

	a.sessionStore = session.NewStore()
	a.syncer = session.NewSyncer(a.sessionStore, cfg.Platform.GroupBatch)
	a.authGate = session.NewAuthGate(a.sessionStore, a.creds, a.dialer)
	a.engine = session.NewEngine(a.sessionStore, a.templates, a.failed, cfg.System.Workdir)
	a.loginFlow = session.NewLoginFlow(a.sessionStore, a.creds, a.dialer, a.syncer,
		events, cfg.QRFile(), cfg.Platform.LoginTimeout, cfg.Platform.SettleDelay)

	a.initJob()
	zap.L().Info("application initialized", zap.String("workdir", cfg.System.Workdir))
}

func (a *Application) initLogger() {
	cfg := a.appConfig
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

func (a *Application) SessionStore() *session.Store {
	return a.sessionStore
}

func (a *Application) AuthGate() *session.AuthGate {
	return a.authGate
}

func (a *Application) LoginFlow() *session.LoginFlow {
	return a.loginFlow
}

func (a *Application) RosterSyncer() *session.Syncer {
	return a.syncer
}

func (a *Application) Broadcaster() *session.Engine {
	return a.engine
}

func (a *Application) Templates() *filestore.TemplateStore {
	return a.templates
}

func (a *Application) FailedMessages() *filestore.FailedStore {
	return a.failed
}

func (a *Application) Credentials() *filestore.CredentialFile {
	return a.creds
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// NextFileID mints a unique id for stored upload filenames.
func (a *Application) NextFileID() string {
	return a.snode.Generate().String()
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}

package app

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/talkincode/zcast/internal/domain"
	"github.com/talkincode/zcast/pkg/metrics"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@every 30s", func() {
		go a.SchedSystemMonitorTask()
	})
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@hourly", a.SchedCredentialSweepTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", a.SchedOrphanAttachmentReportTask)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedSystemMonitorTask system monitor
func (a *Application) SchedSystemMonitorTask() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	_cpuuse, err := cpu.Percent(0, false)
	if err == nil && len(_cpuuse) > 0 {
		metrics.SetGauge("system_cpuuse", int64(_cpuuse[0]*100))
	}

	_meminfo, err := mem.VirtualMemory()
	if err == nil {
		metrics.SetGauge("system_memuse", int64(_meminfo.UsedPercent*100))
	}

	metrics.SetGauge("roster_size", int64(len(a.sessionStore.Roster())))
}

// SchedCredentialSweepTask clears an expired or incomplete credential file so
// the next protected request fails fast instead of attempting a doomed
// cookie login.
func (a *Application) SchedCredentialSweepTask() {
	cred, err := a.creds.Load()
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			zap.L().Warn("credential sweep: unreadable credential", zap.Error(err))
		}
		return
	}
	if !cred.Valid(time.Now()) {
		zap.L().Info("credential sweep: clearing expired credential")
		a.creds.Clear()
	}
}

// SchedOrphanAttachmentReportTask logs uploaded files no template references.
// Report only: attachments are never garbage-collected, deleting them here
// would break failed-send retries that still point at the template.
func (a *Application) SchedOrphanAttachmentReportTask() {
	referenced := make(map[string]bool)
	for _, tpl := range a.templates.All() {
		for _, att := range tpl.Attachments {
			referenced[att.Filename] = true
		}
	}

	entries, err := os.ReadDir(a.appConfig.UploadsDir())
	if err != nil {
		zap.L().Warn("orphan report: read uploads dir", zap.Error(err))
		return
	}

	var orphans []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !referenced[e.Name()] {
			orphans = append(orphans, filepath.Join(a.appConfig.UploadsDir(), e.Name()))
		}
	}
	if len(orphans) > 0 {
		zap.L().Warn("orphan report: unreferenced uploads on disk",
			zap.Int("count", len(orphans)), zap.Strings("files", orphans))
	}
}

package cron

import (
	"Mastosync/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const DefaultRefreshSpec = "@every 5m"

type Manager struct {
	engine      *cron.Cron
	refreshSpec string
	refreshJob  *job.ConversationRefreshJob
}

func NewCronManager(refreshSpec string, refreshJob *job.ConversationRefreshJob) *Manager {
	if refreshSpec == "" {
		refreshSpec = DefaultRefreshSpec
	}
	return &Manager{
		engine: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		refreshSpec: refreshSpec,
		refreshJob:  refreshJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.refreshSpec, s.refreshJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动", "refresh_spec", s.refreshSpec)
	s.engine.Start()
}

// Stop 等待正在执行的任务结束
func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}

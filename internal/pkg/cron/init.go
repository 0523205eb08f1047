package cron

import log "log/slog"

// InitCron 注册并启动定时刷新，调度表达式非法时返回错误
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		log.Error("Cron 调度表达式无效", "refresh_spec", mgr.refreshSpec, "err", err)
		return err
	}
	mgr.Start()
	return nil
}

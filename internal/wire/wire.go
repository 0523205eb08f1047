package wire

import (
	"Mastosync/internal/api"
	"Mastosync/internal/api/config"
	"Mastosync/internal/api/handler"
	"Mastosync/internal/job"
	"Mastosync/internal/pkg/cron"
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/pkg/network"
	"Mastosync/internal/pkg/redis"
	"Mastosync/internal/pkg/stream"
	"Mastosync/internal/repository"
	"Mastosync/internal/service"
	"context"
	"errors"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
	Watcher *stream.Watcher // 未开启流式同步时为 nil
	Conn    *network.ConnectionManager
}

func BuildApplication(db *gorm.DB, cfg *config.Config) (*ApplicationContainer, error) {
	accountRepo := repository.NewAccountRepo(db)
	conversationRepo := repository.NewConversationRepo(db)

	// 设置始终落库；Redis 可选，只承载分页状态与加载锁，未配置时保存在进程内
	settings := repository.NewPreferenceRepo(db)
	var (
		states service.SyncStateStore
		locker service.LoadLocker
	)
	if redis.Enabled() {
		states = service.NewRedisSyncStateStore()
		locker = service.NewRedisLoadLocker(cfg.Sync.LockTTL)
	} else {
		states = service.NewMemorySyncStateStore()
		locker = service.NewMemoryLoadLocker()
	}

	tokens := service.NewTokenSource(accountRepo)
	conn := network.NewConnectionManager(settings, tokens, network.Options{
		DefaultDomain:      cfg.Mastodon.Domain,
		ReadTimeout:        cfg.Mastodon.ReadTimeout,
		WriteTimeout:       cfg.Mastodon.WriteTimeout,
		UploadReadTimeout:  cfg.Mastodon.UploadReadTimeout,
		UploadWriteTimeout: cfg.Mastodon.UploadWriteTimeout,
		CacheDir:           cfg.Mastodon.CacheDir,
		CacheSize:          cfg.Mastodon.CacheSize,
		DefaultProxy: network.ProxySettings{
			Enabled: cfg.Proxy.Enabled,
			Server:  cfg.Proxy.Server,
			Port:    cfg.Proxy.Port,
		},
		Debug: cfg.Mastodon.Debug,
	})

	accountService := service.NewAccountService(conn, accountRepo)
	settingsService := service.NewSettingsService(conn)
	conversationService := service.NewConversationService(conn, accountRepo, conversationRepo)
	pager := service.NewConversationPager(conn, accountRepo, conversationRepo, states, locker, cfg.Mastodon.PageSize)
	mediaService := service.NewMediaService(conn)

	handlers := &api.HandlersGroup{
		AccountHandler:      handler.NewAccountHandler(accountService),
		SettingsHandler:     handler.NewSettingsHandler(settingsService),
		ConversationHandler: handler.NewConversationHandler(conversationService, pager),
		MediaHandler:        handler.NewMediaHandler(mediaService),
	}
	router := api.SetupRouter(handlers, cfg.Server.AllowOrigins...)

	cronMgr := cron.NewCronManager(cfg.Sync.Cron, job.NewConversationRefreshJob(pager))

	var watcher *stream.Watcher
	if cfg.Sync.Streaming {
		watcher = stream.NewWatcher(conn, tokens, func(ctx context.Context, _ *mastodon.StreamEvent) {
			if _, err := pager.Refresh(ctx); err != nil && !errors.Is(err, service.ErrLoadInProgress) {
				log.WarnContext(ctx, "refresh on stream event failed", "err", err)
			}
		}, stream.Options{ReconnectWait: cfg.Sync.ReconnectWait})
	}

	return &ApplicationContainer{
		Router:  router,
		DB:      db,
		CronMgr: cronMgr,
		Watcher: watcher,
		Conn:    conn,
	}, nil
}

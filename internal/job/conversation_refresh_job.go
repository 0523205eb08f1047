package job

import (
	"Mastosync/internal/pkg/logger"
	"Mastosync/internal/service"
	"context"
	"errors"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// ConversationRefreshJob 定时刷新当前账号的会话首页
type ConversationRefreshJob struct {
	pager   service.ConversationPager
	timeout time.Duration
}

func NewConversationRefreshJob(pager service.ConversationPager) *ConversationRefreshJob {
	return &ConversationRefreshJob{
		pager:   pager,
		timeout: 2 * time.Minute,
	}
}

func (s *ConversationRefreshJob) Run() {
	ctx := logger.WithTraceID(context.Background(), "job-refresh-"+uuid.NewString())
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.pager.Refresh(ctx)
	switch {
	case errors.Is(err, service.ErrNoActiveAccount):
		log.DebugContext(ctx, "ConversationRefreshJob skipped, no active account")
	case errors.Is(err, service.ErrLoadInProgress):
		log.InfoContext(ctx, "ConversationRefreshJob skipped, load in progress")
	case err != nil:
		log.ErrorContext(ctx, "ConversationRefreshJob failed", "err", err)
	default:
		log.InfoContext(ctx, "ConversationRefreshJob done",
			"inserted", res.Inserted, "end_of_pagination", res.EndOfPaginationReached)
	}
}

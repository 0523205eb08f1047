package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/model"
	"Mastosync/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"gorm.io/gorm"
)

const DefaultPageSize = 20

// ConversationPager 驱动 ConversationsMediator，为当前活跃账号逐页同步
type ConversationPager interface {
	Refresh(ctx context.Context) (*dto.SyncResultDTO, error)
	LoadMore(ctx context.Context) (*dto.SyncResultDTO, error)
}

type conversationPagerImpl struct {
	api         APIProvider
	accountRepo repository.AccountRepo
	convRepo    repository.ConversationRepo
	states      SyncStateStore
	locker      LoadLocker
	pageSize    int
}

func NewConversationPager(api APIProvider, accountRepo repository.AccountRepo, convRepo repository.ConversationRepo,
	states SyncStateStore, locker LoadLocker, pageSize int) ConversationPager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &conversationPagerImpl{
		api:         api,
		accountRepo: accountRepo,
		convRepo:    convRepo,
		states:      states,
		locker:      locker,
		pageSize:    pageSize,
	}
}

func (s *conversationPagerImpl) Refresh(ctx context.Context) (*dto.SyncResultDTO, error) {
	return s.load(ctx, LoadRefresh)
}

// LoadMore 追加下一页；尚未刷新过时先刷新，已到末尾时不发请求
func (s *conversationPagerImpl) LoadMore(ctx context.Context) (*dto.SyncResultDTO, error) {
	return s.load(ctx, LoadAppend)
}

func (s *conversationPagerImpl) load(ctx context.Context, loadType LoadType) (*dto.SyncResultDTO, error) {
	account, err := activeAccount(ctx, s.accountRepo)
	if err != nil {
		return nil, err
	}

	unlock, ok, err := s.locker.TryLock(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLoadInProgress
	}
	defer unlock()

	state, err := s.states.Get(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	if loadType == LoadAppend {
		if !state.Loaded {
			loadType = LoadRefresh
		} else if state.EndReached {
			return toSyncResult(state, 0), nil
		}
	}

	mediator := NewConversationsMediator(s.api, s.convRepo, account)
	res, err := mediator.Load(ctx, loadType, state.SyncState, s.pageSize)
	if err != nil {
		return nil, err
	}

	state = PagingState{
		SyncState:  res.State,
		EndReached: res.EndOfPaginationReached,
		Loaded:     true,
	}
	if err = s.states.Save(ctx, account.ID, state); err != nil {
		log.ErrorContext(ctx, "save sync state failed", "account_id", account.ID, "err", err)
		return nil, err
	}
	return toSyncResult(state, res.Inserted), nil
}

func toSyncResult(state PagingState, inserted int) *dto.SyncResultDTO {
	return &dto.SyncResultDTO{
		Inserted:               inserted,
		NextCursor:             state.Cursor,
		NextOrder:              state.NextOrder,
		EndOfPaginationReached: state.EndReached,
	}
}

// activeAccount 没有活跃账号时返回 ErrNoActiveAccount
func activeAccount(ctx context.Context, repo repository.AccountRepo) (*model.Account, error) {
	account, err := repo.GetActive(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoActiveAccount
	}
	if err != nil {
		return nil, err
	}
	return account, nil
}

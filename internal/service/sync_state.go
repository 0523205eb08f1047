package service

import (
	"Mastosync/internal/pkg/consts"
	"Mastosync/internal/pkg/redis"
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// PagingState 某个账号的分页会话状态
type PagingState struct {
	SyncState
	EndReached bool `json:"end_reached"`
	Loaded     bool `json:"loaded"` // 至少成功刷新过一次
}

type SyncStateStore interface {
	Get(ctx context.Context, accountID uint64) (PagingState, error)
	Save(ctx context.Context, accountID uint64, state PagingState) error
}

// LoadLocker 保证同一账号同一时刻只有一个加载在进行
type LoadLocker interface {
	// TryLock 拿不到锁时 ok 为 false，不等待
	TryLock(ctx context.Context, accountID uint64) (unlock func(), ok bool, err error)
}

type memorySyncStateStore struct {
	mu     sync.Mutex
	states map[uint64]PagingState
}

func NewMemorySyncStateStore() SyncStateStore {
	return &memorySyncStateStore{states: make(map[uint64]PagingState)}
}

func (s *memorySyncStateStore) Get(_ context.Context, accountID uint64) (PagingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[accountID], nil
}

func (s *memorySyncStateStore) Save(_ context.Context, accountID uint64, state PagingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[accountID] = state
	return nil
}

type memoryLoadLocker struct {
	mu      sync.Mutex
	holding map[uint64]struct{}
}

func NewMemoryLoadLocker() LoadLocker {
	return &memoryLoadLocker{holding: make(map[uint64]struct{})}
}

func (l *memoryLoadLocker) TryLock(_ context.Context, accountID uint64) (func(), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.holding[accountID]; ok {
		return nil, false, nil
	}
	l.holding[accountID] = struct{}{}
	return func() {
		l.mu.Lock()
		delete(l.holding, accountID)
		l.mu.Unlock()
	}, true, nil
}

// redisSyncStateStore 以 JSON 保存在 mastosync:conversation:sync:{accountID}
type redisSyncStateStore struct{}

func NewRedisSyncStateStore() SyncStateStore {
	return &redisSyncStateStore{}
}

func (s *redisSyncStateStore) Get(ctx context.Context, accountID uint64) (PagingState, error) {
	var state PagingState
	value, ok, err := redis.GetValue(ctx, syncStateKey(accountID))
	if err != nil || !ok {
		return state, err
	}
	if err = json.Unmarshal([]byte(value), &state); err != nil {
		return PagingState{}, err
	}
	return state, nil
}

func (s *redisSyncStateStore) Save(ctx context.Context, accountID uint64, state PagingState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, syncStateKey(accountID), data, 0)
}

// redisLoadLocker 使用 SET NX 加锁，ttl 兜底防止进程崩溃后锁不释放
type redisLoadLocker struct {
	ttl time.Duration
}

func NewRedisLoadLocker(ttl time.Duration) LoadLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &redisLoadLocker{ttl: ttl}
}

func (l *redisLoadLocker) TryLock(ctx context.Context, accountID uint64) (func(), bool, error) {
	key := consts.ConversationLockKey + strconv.FormatUint(accountID, 10)
	token := uuid.NewString()
	ok, err := redis.TryLock(ctx, key, token, l.ttl, 0)
	if err != nil || !ok {
		return nil, false, err
	}
	return func() {
		redis.UnLock(context.WithoutCancel(ctx), key, token)
	}, true, nil
}

func syncStateKey(accountID uint64) string {
	return consts.ConversationSyncKey + strconv.FormatUint(accountID, 10)
}

package service

import (
	"Mastosync/internal/model"
	pkgredis "Mastosync/internal/pkg/redis"
	"Mastosync/internal/repository"
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pagedHandler 三页数据：无 max_id -> 第一页，max_id=p2 -> 第二页（最后一页）
func pagedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Query().Get("max_id") {
	case "":
		w.Header().Set("Link", `<https://example.social/api/v1/conversations?max_id=p2>; rel="next"`)
		_, _ = io.WriteString(w, conversationsJSON("a", "b"))
	case "p2":
		_, _ = io.WriteString(w, conversationsJSON("c"))
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"unexpected cursor"}`)
	}
}

func conversationsJSON(ids ...string) string {
	body := "["
	for i, id := range ids {
		if i > 0 {
			body += ","
		}
		body += fmt.Sprintf(`{"id":%q,"unread":true,"accounts":[],"last_status":{"id":"s-%s","content":"<p>%s</p>","account":{"id":"1"}}}`, id, id, id)
	}
	return body + "]"
}

type pagerFixture struct {
	pager    ConversationPager
	srv      *fakeServer
	convRepo repository.ConversationRepo
	account  *model.Account
	locker   LoadLocker
}

func newPagerFixture(t *testing.T, states SyncStateStore, locker LoadLocker) *pagerFixture {
	t.Helper()
	db := newTestDB(t)
	account := createActiveAccount(t, db, &model.Account{})
	srv := newFakeServer(t, pagedHandler)
	convRepo := repository.NewConversationRepo(db)
	return &pagerFixture{
		pager:    NewConversationPager(staticAPI{baseURL: srv.URL}, repository.NewAccountRepo(db), convRepo, states, locker, 2),
		srv:      srv,
		convRepo: convRepo,
		account:  account,
		locker:   locker,
	}
}

func runPagerFlow(t *testing.T, f *pagerFixture) {
	ctx := context.Background()

	// 未加载过时 LoadMore 等同于刷新
	res, err := f.pager.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, "p2", res.NextCursor)
	assert.False(t, res.EndOfPaginationReached)
	assert.False(t, f.srv.last().URL.Query().Has("max_id"))

	res, err = f.pager.LoadMore(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)
	assert.Equal(t, 3, res.NextOrder)
	assert.True(t, res.EndOfPaginationReached)
	assert.Equal(t, "p2", f.srv.last().URL.Query().Get("max_id"))

	// 到达末尾后不再请求
	hits := f.srv.hits()
	res, err = f.pager.LoadMore(ctx)
	require.NoError(t, err)
	assert.True(t, res.EndOfPaginationReached)
	assert.Zero(t, res.Inserted)
	assert.Equal(t, hits, f.srv.hits())

	list, err := f.convRepo.ListByAccount(ctx, f.account.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, id := range []string{"a", "b", "c"} {
		assert.Equal(t, id, list[i].ID)
		assert.Equal(t, i, list[i].Order)
	}

	// 刷新从头开始并重排
	res, err = f.pager.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Inserted)
	assert.Equal(t, 2, res.NextOrder)
	count, err := f.convRepo.CountByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 同一账号已有加载在进行
	unlock, ok, err := f.locker.TryLock(ctx, f.account.ID)
	require.NoError(t, err)
	require.True(t, ok)
	_, err = f.pager.Refresh(ctx)
	assert.ErrorIs(t, err, ErrLoadInProgress)
	unlock()

	_, err = f.pager.Refresh(ctx)
	assert.NoError(t, err)
}

func TestConversationPagerMemory(t *testing.T) {
	f := newPagerFixture(t, NewMemorySyncStateStore(), NewMemoryLoadLocker())
	runPagerFlow(t, f)
}

func TestConversationPagerRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	pkgredis.Rdb = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = pkgredis.Close() })

	f := newPagerFixture(t, NewRedisSyncStateStore(), NewRedisLoadLocker(time.Minute))
	runPagerFlow(t, f)

	state, err := NewRedisSyncStateStore().Get(context.Background(), f.account.ID)
	require.NoError(t, err)
	assert.True(t, state.Loaded)
	assert.Equal(t, "p2", state.Cursor)
	assert.Equal(t, 2, state.NextOrder)
}

func TestConversationPagerFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	states := NewMemorySyncStateStore()
	f := newPagerFixture(t, states, NewMemoryLoadLocker())

	_, err := f.pager.Refresh(ctx)
	require.NoError(t, err)
	before, err := states.Get(ctx, f.account.ID)
	require.NoError(t, err)

	// 服务端不认识的游标返回 400
	require.NoError(t, states.Save(ctx, f.account.ID, PagingState{
		SyncState: SyncState{Cursor: "bogus", NextOrder: before.NextOrder},
		Loaded:    true,
	}))
	_, err = f.pager.LoadMore(ctx)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, http.StatusBadRequest, loadErr.StatusCode)

	after, err := states.Get(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, "bogus", after.Cursor)

	// 锁已释放
	_, err = f.pager.Refresh(ctx)
	assert.NoError(t, err)
}

func TestConversationPagerNoActiveAccount(t *testing.T) {
	db := newTestDB(t)
	pager := NewConversationPager(staticAPI{}, repository.NewAccountRepo(db), repository.NewConversationRepo(db),
		NewMemorySyncStateStore(), NewMemoryLoadLocker(), 0)

	_, err := pager.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveAccount)
}

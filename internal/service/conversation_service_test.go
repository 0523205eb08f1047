package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/model"
	"Mastosync/internal/repository"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type conversationFixture struct {
	svc      ConversationService
	srv      *fakeServer
	convRepo repository.ConversationRepo
	account  *model.Account
}

func newConversationFixture(t *testing.T, h http.HandlerFunc) *conversationFixture {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	account := createActiveAccount(t, db, &model.Account{})
	convRepo := repository.NewConversationRepo(db)
	require.NoError(t, convRepo.Insert(ctx, []*model.ConversationEntity{
		{
			AccountID: account.ID, ID: "c1", Order: 0, Unread: true,
			Participants: []model.ConversationParticipant{{ID: "2", Acct: "bob@remote"}},
			LastStatus: model.ConversationStatus{
				ID:      "s1",
				Content: `<p>Hi <span class="h-card"><a href="https://remote/@bob">@<span>bob</span></a></span></p><p>second</p>`,
				Author:  model.ConversationParticipant{ID: "2", Acct: "bob@remote"},
			},
			ContentCollapsed: true,
		},
		{
			AccountID: account.ID, ID: "c2", Order: 1,
			LastStatus: model.ConversationStatus{ID: "s2", Content: "<p>hidden</p>", SpoilerText: "cw: food", Sensitive: true},
		},
		{AccountID: account.ID + 1, ID: "c3", Order: 0},
	}))

	srv := newFakeServer(t, h)
	return &conversationFixture{
		svc:      NewConversationService(staticAPI{baseURL: srv.URL}, repository.NewAccountRepo(db), convRepo),
		srv:      srv,
		convRepo: convRepo,
		account:  account,
	}
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"id":"c1","unread":false}`)
}

func TestConversationServiceList(t *testing.T) {
	f := newConversationFixture(t, okHandler)

	res, err := f.svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	require.Len(t, res.List, 2)

	first := res.List[0]
	assert.Equal(t, "c1", first.ID)
	assert.Equal(t, "Hi @bob\n\nsecond", first.Preview)
	assert.Equal(t, "bob@remote", first.Participants[0].Acct)
	assert.Equal(t, "bob@remote", first.LastStatus.Author.Acct)
	assert.True(t, first.ContentCollapsed)

	assert.Equal(t, "cw: food", res.List[1].Preview)

	res, err = f.svc.List(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, res.List, 1)
	assert.Equal(t, "c2", res.List[0].ID)

	_, err = f.svc.List(context.Background(), -1, 10)
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestConversationServiceMarkRead(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t, okHandler)

	res, err := f.svc.MarkRead(ctx, "c1")
	require.NoError(t, err)
	assert.False(t, res.Unread)
	req := f.srv.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/v1/conversations/c1/read", req.URL.Path)

	stored, err := f.convRepo.Get(ctx, f.account.ID, "c1")
	require.NoError(t, err)
	assert.False(t, stored.Unread)

	_, err = f.svc.MarkRead(ctx, "c3")
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestConversationServiceDelete(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t, okHandler)

	require.NoError(t, f.svc.Delete(ctx, "c2"))
	assert.Equal(t, "/api/v1/conversations/c2", f.srv.last().URL.Path)
	assert.Equal(t, http.MethodDelete, f.srv.last().Method)

	count, err := f.convRepo.CountByAccount(ctx, f.account.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestConversationServiceDeleteRemoteFailure(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t, jsonHandler(http.StatusServiceUnavailable, "", `{"error":"down"}`))

	assert.Error(t, f.svc.Delete(ctx, "c1"))
	_, err := f.convRepo.Get(ctx, f.account.ID, "c1")
	assert.NoError(t, err)
}

func TestConversationServiceUpdateFlags(t *testing.T) {
	ctx := context.Background()
	f := newConversationFixture(t, okHandler)
	yes, no := true, false

	res, err := f.svc.UpdateFlags(ctx, "c1", &dto.ConversationFlagsReq{Expanded: &yes, ContentCollapsed: &no})
	require.NoError(t, err)
	assert.True(t, res.Expanded)
	assert.False(t, res.ContentCollapsed)
	assert.Zero(t, f.srv.hits())

	stored, err := f.convRepo.Get(ctx, f.account.ID, "c1")
	require.NoError(t, err)
	assert.True(t, stored.Expanded)
	assert.False(t, stored.ContentCollapsed)
	assert.False(t, stored.ContentShowing)

	_, err = f.svc.UpdateFlags(ctx, "c1", &dto.ConversationFlagsReq{})
	assert.ErrorIs(t, err, ErrParamInvalid)
	_, err = f.svc.UpdateFlags(ctx, "missing", &dto.ConversationFlagsReq{Expanded: &yes})
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

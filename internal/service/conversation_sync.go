package service

import (
	"Mastosync/internal/model"
	"Mastosync/internal/pkg/linkheader"
	"Mastosync/internal/pkg/mastodon"
	"Mastosync/internal/repository"
	"context"
	log "log/slog"
)

type LoadType int

const (
	LoadRefresh LoadType = iota
	LoadAppend
	LoadPrepend
)

func (t LoadType) String() string {
	switch t {
	case LoadRefresh:
		return "refresh"
	case LoadAppend:
		return "append"
	case LoadPrepend:
		return "prepend"
	default:
		return "unknown"
	}
}

// SyncState 两次加载之间需要保留的分页位置
type SyncState struct {
	Cursor    string `json:"cursor"`     // 下一页的 max_id，空表示从头开始
	NextOrder int    `json:"next_order"` // 下一条记录的排序号
}

type LoadResult struct {
	State                  SyncState
	Inserted               int
	EndOfPaginationReached bool
}

// APIProvider 按当前设置构造 REST 客户端
type APIProvider interface {
	API(ctx context.Context) (*mastodon.Client, error)
}

// ConversationsMediator 把远端会话分页同步到本地库，每个账号一个实例
type ConversationsMediator struct {
	api     APIProvider
	repo    repository.ConversationRepo
	account *model.Account
}

func NewConversationsMediator(api APIProvider, repo repository.ConversationRepo, account *model.Account) *ConversationsMediator {
	return &ConversationsMediator{
		api:     api,
		repo:    repo,
		account: account,
	}
}

// Load 拉取一页会话并写入本地库
//
// 失败时返回 *LoadError 与原样的 state，本地数据不变。
func (m *ConversationsMediator) Load(ctx context.Context, loadType LoadType, state SyncState, pageSize int) (LoadResult, error) {
	if loadType == LoadPrepend {
		return LoadResult{State: state, EndOfPaginationReached: true}, nil
	}

	cursor, order := state.Cursor, state.NextOrder
	if loadType == LoadRefresh {
		cursor, order = "", 0
	}

	client, err := m.api.API(ctx)
	if err != nil {
		return LoadResult{State: state}, newLoadError(err)
	}
	page, err := client.GetConversations(ctx, cursor, pageSize)
	if err != nil {
		le := newLoadError(err)
		log.WarnContext(ctx, "fetch conversations failed",
			"account_id", m.account.ID, "load_type", loadType.String(), "status", le.StatusCode, "err", err)
		return LoadResult{State: state}, le
	}

	next := SyncState{Cursor: linkheader.NextCursor(page.Link), NextOrder: order}
	entities := make([]*model.ConversationEntity, 0, len(page.Conversations))
	for i := range page.Conversations {
		c := &page.Conversations[i]
		if c.LastStatus == nil {
			continue
		}
		entities = append(entities, toConversationEntity(m.account, c, next.NextOrder))
		next.NextOrder++
	}

	err = m.repo.WithTx(ctx, func(repo repository.ConversationRepo) error {
		if loadType == LoadRefresh {
			if err := repo.DeleteForAccount(ctx, m.account.ID); err != nil {
				return err
			}
		}
		return repo.Insert(ctx, entities)
	})
	if err != nil {
		log.ErrorContext(ctx, "persist conversations failed", "account_id", m.account.ID, "err", err)
		return LoadResult{State: state}, newLoadError(err)
	}

	log.DebugContext(ctx, "conversations loaded",
		"account_id", m.account.ID, "load_type", loadType.String(), "inserted", len(entities), "next_cursor", next.Cursor)
	return LoadResult{
		State:                  next,
		Inserted:               len(entities),
		EndOfPaginationReached: next.Cursor == "",
	}, nil
}

func toConversationEntity(account *model.Account, c *mastodon.Conversation, order int) *model.ConversationEntity {
	participants := make([]model.ConversationParticipant, 0, len(c.Accounts))
	for _, a := range c.Accounts {
		participants = append(participants, toParticipant(a))
	}
	return &model.ConversationEntity{
		AccountID:        account.ID,
		ID:               c.ID,
		Order:            order,
		Unread:           c.Unread,
		Participants:     participants,
		LastStatus:       toConversationStatus(c.LastStatus),
		Expanded:         account.AlwaysOpenSpoiler,
		ContentShowing:   account.AlwaysShowSensitiveMedia || !c.LastStatus.Sensitive,
		ContentCollapsed: true,
	}
}

func toParticipant(a mastodon.TimelineAccount) model.ConversationParticipant {
	return model.ConversationParticipant{
		ID:          a.ID,
		Username:    a.Username,
		Acct:        a.Acct,
		DisplayName: a.DisplayName,
		AvatarURL:   a.Avatar,
		Bot:         a.Bot,
	}
}

func toConversationStatus(s *mastodon.Status) model.ConversationStatus {
	attachments := make([]model.ConversationAttachment, 0, len(s.MediaAttachments))
	for _, a := range s.MediaAttachments {
		attachments = append(attachments, model.ConversationAttachment{
			ID:          a.ID,
			Type:        a.Type,
			URL:         a.URL,
			PreviewURL:  a.PreviewURL,
			Description: deref(a.Description),
		})
	}
	mentions := make([]string, 0, len(s.Mentions))
	for _, m := range s.Mentions {
		mentions = append(mentions, m.Acct)
	}
	tags := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		tags = append(tags, t.Name)
	}

	return model.ConversationStatus{
		ID:                 s.ID,
		URL:                deref(s.URL),
		InReplyToID:        deref(s.InReplyToID),
		InReplyToAccountID: deref(s.InReplyToAccountID),
		Author:             toParticipant(s.Account),
		Content:            s.Content,
		SpoilerText:        s.SpoilerText,
		Sensitive:          s.Sensitive,
		Language:           deref(s.Language),
		CreatedAt:          s.CreatedAt,
		EditedAt:           s.EditedAt,
		RepliesCount:       s.RepliesCount,
		FavouritesCount:    s.FavouritesCount,
		Favourited:         s.Favourited,
		Bookmarked:         s.Bookmarked,
		Muted:              s.Muted,
		Attachments:        attachments,
		Mentions:           mentions,
		Tags:               tags,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/model"
	"Mastosync/internal/pkg/util"
	"Mastosync/internal/repository"
	"context"
	"errors"
	log "log/slog"

	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

const (
	MaxListLimit     = 100
	PreviewMaxRunes  = 140
	defaultListLimit = 20
)

type ConversationService interface {
	List(ctx context.Context, offset, limit int) (*dto.ConversationListDTO, error)
	Delete(ctx context.Context, id string) error
	MarkRead(ctx context.Context, id string) (*dto.ConversationDTO, error)
	UpdateFlags(ctx context.Context, id string, req *dto.ConversationFlagsReq) (*dto.ConversationDTO, error)
}

type conversationServiceImpl struct {
	api         APIProvider
	accountRepo repository.AccountRepo
	convRepo    repository.ConversationRepo
}

func NewConversationService(api APIProvider, accountRepo repository.AccountRepo, convRepo repository.ConversationRepo) ConversationService {
	return &conversationServiceImpl{
		api:         api,
		accountRepo: accountRepo,
		convRepo:    convRepo,
	}
}

// List 按同步顺序读取当前账号的本地会话
func (s *conversationServiceImpl) List(ctx context.Context, offset, limit int) (*dto.ConversationListDTO, error) {
	if offset < 0 || limit < 0 {
		return nil, ErrParamInvalid
	}
	if limit == 0 {
		limit = defaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	account, err := activeAccount(ctx, s.accountRepo)
	if err != nil {
		return nil, err
	}
	total, err := s.convRepo.CountByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	list, err := s.convRepo.ListByAccount(ctx, account.ID, offset, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationDTO, 0, len(list))
	for _, entity := range list {
		res = append(res, toConversationDTO(entity))
	}
	return &dto.ConversationListDTO{Total: total, List: res}, nil
}

// Delete 先删除远端会话，成功后删除本地记录
func (s *conversationServiceImpl) Delete(ctx context.Context, id string) error {
	account, _, err := s.getOwned(ctx, id)
	if err != nil {
		return err
	}
	client, err := s.api.API(ctx)
	if err != nil {
		return err
	}
	if err = client.DeleteConversation(ctx, id); err != nil {
		return err
	}
	if err = s.convRepo.Delete(ctx, account.ID, id); err != nil {
		return err
	}
	log.InfoContext(ctx, "conversation deleted", "account_id", account.ID, "conversation_id", id)
	return nil
}

// MarkRead 远端标记已读后清除本地未读标记
func (s *conversationServiceImpl) MarkRead(ctx context.Context, id string) (*dto.ConversationDTO, error) {
	account, entity, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	client, err := s.api.API(ctx)
	if err != nil {
		return nil, err
	}
	if _, err = client.MarkConversationRead(ctx, id); err != nil {
		return nil, err
	}
	if err = s.convRepo.UpdateFlags(ctx, account.ID, id, map[string]interface{}{"unread": false}); err != nil {
		return nil, err
	}
	entity.Unread = false
	return toConversationDTO(entity), nil
}

// UpdateFlags 只修改本地展示状态，不请求远端
func (s *conversationServiceImpl) UpdateFlags(ctx context.Context, id string, req *dto.ConversationFlagsReq) (*dto.ConversationDTO, error) {
	flags := make(map[string]interface{}, 3)
	if req.Expanded != nil {
		flags["expanded"] = *req.Expanded
	}
	if req.ContentShowing != nil {
		flags["content_showing"] = *req.ContentShowing
	}
	if req.ContentCollapsed != nil {
		flags["content_collapsed"] = *req.ContentCollapsed
	}
	if len(flags) == 0 {
		return nil, ErrParamInvalid
	}

	account, entity, err := s.getOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = s.convRepo.UpdateFlags(ctx, account.ID, id, flags); err != nil {
		return nil, err
	}

	if req.Expanded != nil {
		entity.Expanded = *req.Expanded
	}
	if req.ContentShowing != nil {
		entity.ContentShowing = *req.ContentShowing
	}
	if req.ContentCollapsed != nil {
		entity.ContentCollapsed = *req.ContentCollapsed
	}
	return toConversationDTO(entity), nil
}

func (s *conversationServiceImpl) getOwned(ctx context.Context, id string) (*model.Account, *model.ConversationEntity, error) {
	if id == "" {
		return nil, nil, ErrParamInvalid
	}
	account, err := activeAccount(ctx, s.accountRepo)
	if err != nil {
		return nil, nil, err
	}
	entity, err := s.convRepo.Get(ctx, account.ID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return account, entity, nil
}

func toConversationDTO(entity *model.ConversationEntity) *dto.ConversationDTO {
	d := &dto.ConversationDTO{}
	_ = copier.Copy(d, entity)

	d.Participants = make([]dto.ParticipantDTO, 0, len(entity.Participants))
	for _, p := range entity.Participants {
		d.Participants = append(d.Participants, toParticipantDTO(p))
	}

	status := dto.ConversationStatusDTO{}
	_ = copier.Copy(&status, &entity.LastStatus)
	status.Author = toParticipantDTO(entity.LastStatus.Author)
	status.Attachments = make([]dto.AttachmentDTO, 0, len(entity.LastStatus.Attachments))
	for _, a := range entity.LastStatus.Attachments {
		att := dto.AttachmentDTO{}
		_ = copier.Copy(&att, &a)
		status.Attachments = append(status.Attachments, att)
	}
	d.LastStatus = status

	// 有内容警告时预览只展示警告文字
	if entity.LastStatus.SpoilerText != "" {
		d.Preview = entity.LastStatus.SpoilerText
	} else {
		d.Preview = util.HTMLToText(entity.LastStatus.Content, PreviewMaxRunes)
	}
	return d
}

func toParticipantDTO(p model.ConversationParticipant) dto.ParticipantDTO {
	d := dto.ParticipantDTO{}
	_ = copier.Copy(&d, &p)
	return d
}

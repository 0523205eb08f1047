package repository

import (
	"Mastosync/internal/model"
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ConversationRepo interface {
	// WithTx 在一个事务中执行 fn，fn 返回错误时整体回滚
	WithTx(ctx context.Context, fn func(repo ConversationRepo) error) error

	DeleteForAccount(ctx context.Context, accountID uint64) error
	Insert(ctx context.Context, list []*model.ConversationEntity) error

	Get(ctx context.Context, accountID uint64, id string) (*model.ConversationEntity, error)
	ListByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.ConversationEntity, error)
	CountByAccount(ctx context.Context, accountID uint64) (int64, error)
	Delete(ctx context.Context, accountID uint64, id string) error
	UpdateFlags(ctx context.Context, accountID uint64, id string, flags map[string]interface{}) error
}

type conversationRepoImpl struct {
	db *gorm.DB
}

func NewConversationRepo(db *gorm.DB) ConversationRepo {
	return &conversationRepoImpl{db: db}
}

func (s *conversationRepoImpl) WithTx(ctx context.Context, fn func(repo ConversationRepo) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&conversationRepoImpl{db: tx})
	})
}

// DeleteForAccount 清空某个账号的全部会话
func (s *conversationRepoImpl) DeleteForAccount(ctx context.Context, accountID uint64) error {
	return s.db.WithContext(ctx).Where("account_id = ?", accountID).
		Delete(&model.ConversationEntity{}).Error
}

// Insert 批量写入，主键冲突时覆盖
func (s *conversationRepoImpl) Insert(ctx context.Context, list []*model.ConversationEntity) error {
	if len(list) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&list).Error
}

func (s *conversationRepoImpl) Get(ctx context.Context, accountID uint64, id string) (*model.ConversationEntity, error) {
	var entity model.ConversationEntity
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		First(&entity).Error
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// ListByAccount 按服务端顺序分页读取
func (s *conversationRepoImpl) ListByAccount(ctx context.Context, accountID uint64, offset, limit int) ([]*model.ConversationEntity, error) {
	var list []*model.ConversationEntity
	err := s.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("sort_order ASC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (s *conversationRepoImpl) CountByAccount(ctx context.Context, accountID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ConversationEntity{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}

func (s *conversationRepoImpl) Delete(ctx context.Context, accountID uint64, id string) error {
	return s.db.WithContext(ctx).
		Where("account_id = ? AND id = ?", accountID, id).
		Delete(&model.ConversationEntity{}).Error
}

// UpdateFlags 更新展示相关字段，调用方需先确认记录存在
func (s *conversationRepoImpl) UpdateFlags(ctx context.Context, accountID uint64, id string, flags map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&model.ConversationEntity{}).
		Where("account_id = ? AND id = ?", accountID, id).
		Updates(flags).Error
}

package repository

import (
	"Mastosync/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type AccountRepo interface {
	GetActive(ctx context.Context) (*model.Account, error)
	GetByID(ctx context.Context, id uint64) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
	Upsert(ctx context.Context, acc *model.Account) error
	SetActive(ctx context.Context, id uint64) error
	UpdatePreferences(ctx context.Context, id uint64, showSensitive, openSpoiler bool) error
}

type accountRepoImpl struct {
	db *gorm.DB
}

func NewAccountRepo(db *gorm.DB) AccountRepo {
	return &accountRepoImpl{db: db}
}

// GetActive 获取当前活跃账号，没有时返回 gorm.ErrRecordNotFound
func (s *accountRepoImpl) GetActive(ctx context.Context) (*model.Account, error) {
	var acc model.Account
	err := s.db.WithContext(ctx).Where("is_active = ?", true).First(&acc).Error
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *accountRepoImpl) GetByID(ctx context.Context, id uint64) (*model.Account, error) {
	var acc model.Account
	if err := s.db.WithContext(ctx).First(&acc, id).Error; err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *accountRepoImpl) List(ctx context.Context) ([]*model.Account, error) {
	var list []*model.Account
	err := s.db.WithContext(ctx).Order("id ASC").Find(&list).Error
	return list, err
}

// Upsert 按 (domain, account_id) 查找，存在则刷新令牌与资料，否则新建；acc.ID 会被回填
func (s *accountRepoImpl) Upsert(ctx context.Context, acc *model.Account) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Account
		err := tx.Where("domain = ? AND account_id = ?", acc.Domain, acc.AccountID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(acc).Error
		}
		if err != nil {
			return err
		}

		acc.ID = existing.ID
		acc.AlwaysShowSensitiveMedia = existing.AlwaysShowSensitiveMedia
		acc.AlwaysOpenSpoiler = existing.AlwaysOpenSpoiler
		acc.IsActive = existing.IsActive
		return tx.Model(&existing).Updates(map[string]interface{}{
			"access_token": acc.AccessToken,
			"username":     acc.Username,
			"display_name": acc.DisplayName,
			"avatar_url":   acc.AvatarURL,
		}).Error
	})
}

// SetActive 切换活跃账号，保证同一时刻只有一个
func (s *accountRepoImpl) SetActive(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Account{}).Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Account{}).Where("id = ?", id).Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdatePreferences 更新账号级展示偏好
func (s *accountRepoImpl) UpdatePreferences(ctx context.Context, id uint64, showSensitive, openSpoiler bool) error {
	res := s.db.WithContext(ctx).Model(&model.Account{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"always_show_sensitive_media": showSensitive,
			"always_open_spoiler":         openSpoiler,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

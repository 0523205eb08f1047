package repository

import (
	"Mastosync/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepo 基于数据库的设置存储，实现 network.SettingsStore
type PreferenceRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type preferenceRepoImpl struct {
	db *gorm.DB
}

func NewPreferenceRepo(db *gorm.DB) PreferenceRepo {
	return &preferenceRepoImpl{db: db}
}

func (s *preferenceRepoImpl) Get(ctx context.Context, key string) (string, bool, error) {
	var pref model.Preference
	err := s.db.WithContext(ctx).Where(&model.Preference{Key: key}).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return pref.Value, true, nil
}

func (s *preferenceRepoImpl) Set(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model.Preference{Key: key, Value: value}).Error
}

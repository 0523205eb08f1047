package service

import (
	"Mastosync/internal/api/dto"
	"Mastosync/internal/pkg/network"
	"context"
	"io"
	log "log/slog"
	"path/filepath"
)

// MaxUploadSize Mastodon 默认的视频上限
const MaxUploadSize = 99 * 1024 * 1024

type MediaService interface {
	Upload(ctx context.Context, filename string, file io.Reader, description string) (*dto.AttachmentDTO, error)
}

type mediaServiceImpl struct {
	conn *network.ConnectionManager
}

func NewMediaService(conn *network.ConnectionManager) MediaService {
	return &mediaServiceImpl{conn: conn}
}

// Upload 使用长超时客户端上传附件
func (s *mediaServiceImpl) Upload(ctx context.Context, filename string, file io.Reader, description string) (*dto.AttachmentDTO, error) {
	if file == nil {
		return nil, ErrFileNotExist
	}
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return nil, ErrParamInvalid
	}

	client, err := s.conn.MediaAPI(ctx)
	if err != nil {
		return nil, err
	}
	attachment, err := client.UploadMedia(ctx, filename, file, description)
	if err != nil {
		log.WarnContext(ctx, "upload media failed", "filename", filename, "err", err)
		return nil, err
	}

	return &dto.AttachmentDTO{
		ID:          attachment.ID,
		Type:        attachment.Type,
		URL:         attachment.URL,
		PreviewURL:  attachment.PreviewURL,
		Description: deref(attachment.Description),
	}, nil
}

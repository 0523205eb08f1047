package handler

import (
	"Mastosync/internal/pkg/response"
	"Mastosync/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService service.MediaService
}

func NewMediaHandler(mediaService service.MediaService) *MediaHandler {
	return &MediaHandler{mediaService: mediaService}
}

// Upload 转发附件到当前实例
func (s *MediaHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, service.ErrFileNotExist)
		return
	}
	if file.Size > service.MaxUploadSize {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	reader, err := file.Open()
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	defer func() { _ = reader.Close() }()

	attachment, err := s.mediaService.Upload(c.Request.Context(), file.Filename, reader, c.PostForm("description"))
	if err != nil {
		response.Error(c, err)
		return
	}
	log.InfoContext(c.Request.Context(), "media uploaded", "id", attachment.ID, "type", attachment.Type)
	response.Success(c, attachment)
}

package dto

// AttachmentDTO 上传后的媒体附件
type AttachmentDTO struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	URL         string `json:"url"`
	PreviewURL  string `json:"preview_url"`
	Description string `json:"description"`
}

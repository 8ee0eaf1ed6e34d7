package httpdto

type PresignImageRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	SizeBytes   int64  `json:"size_bytes" binding:"gte=0"`
}

type PresignImageResponse struct {
	UploadURL string            `json:"upload_url"`
	Key       string            `json:"key"`
	FileURL   string            `json:"file_url,omitempty"`
	Headers   map[string]string `json:"headers"`
}

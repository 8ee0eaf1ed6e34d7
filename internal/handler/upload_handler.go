package handler

import (
	"net/http"

	"assistant-chat/internal/services"
	"assistant-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service *services.UploadS3Service
}

func NewUploadHandler(service *services.UploadS3Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// PresignImage returns a presigned PUT for one image; the file_url goes into a later send_message.
func (h *UploadHandler) PresignImage(c *gin.Context) {
	var req httpdto.PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	res, err := h.service.CreatePresignedImageUpload(c.Request.Context(), services.PresignInput{
		FileName:    req.FileName,
		ContentType: req.ContentType,
		FileSize:    req.SizeBytes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.PresignImageResponse{
		UploadURL: res.UploadURL,
		Key:       res.UploadKey,
		FileURL:   res.FileURL,
		Headers:   res.Headers,
	})
}

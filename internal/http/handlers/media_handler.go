package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/quickfix/internal/http/handlers/common"
	"github.com/ignatzorin/quickfix/internal/repository"
	"github.com/ignatzorin/quickfix/internal/service"
)

// Максимальный размер аватара.
const maxPictureSize = 5 << 20

// Разрешённые типы файлов для загрузки
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// MediaHandler управляет аватарами пользователей.
type MediaHandler struct {
	market *service.Marketplace
}

// NewMediaHandler создаёт новый хэндлер.
func NewMediaHandler(market *service.Marketplace) *MediaHandler {
	return &MediaHandler{market: market}
}

// GetPicture обрабатывает GET /profilePicture/:id. Токен не нужен.
func (h *MediaHandler) GetPicture(c *gin.Context) {
	url := h.market.Picture(c.Request.Context(), common.IDParam(c, "id"))
	c.JSON(http.StatusOK, gin.H{"profilePic": url})
}

// UploadPicture обрабатывает PUT /profilePicture (multipart, поле "file").
func (h *MediaHandler) UploadPicture(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondMessage(c, http.StatusUnauthorized, "Invalid token")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "No file part in the request")
		return
	}
	if file.Size == 0 || file.Size > maxPictureSize {
		common.RespondMessage(c, http.StatusBadRequest, "Invalid file size")
		return
	}

	src, err := file.Open()
	if err != nil {
		common.Fail(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxPictureSize))
	if err != nil {
		common.RespondMessage(c, http.StatusBadRequest, "Could not read file")
		return
	}

	// Проверяем магические байты (реальный тип файла)
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown || !allowedMimeTypes[kind.MIME.Value] {
		common.RespondMessage(c, http.StatusBadRequest, "File is not a supported image")
		return
	}

	name := uuid.NewString() + "." + kind.Extension
	url, err := h.market.SetPicture(c.Request.Context(), userID, name, repository.Media{
		ContentType: kind.MIME.Value,
		Data:        data,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile picture updated", "url": url})
}

// Serve обрабатывает GET /media/:name.
func (h *MediaHandler) Serve(c *gin.Context) {
	media, err := h.market.Store().GetMedia(c.Param("name"))
	if err != nil {
		common.RespondMessage(c, http.StatusNotFound, "File not found")
		return
	}
	c.Data(http.StatusOK, media.ContentType, media.Data)
}

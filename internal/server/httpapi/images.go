package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/server/models"
	"github.com/dmitrijs2005/gophgallery/internal/shared"
	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file size for headers and
// boundaries.
const multipartOverhead = 64 << 10

type imageDTO struct {
	FileName         string `json:"fileName"`
	OriginalFileName string `json:"originalFileName"`
	OriginalFileSize int64  `json:"originalFileSize"`
	FileSize         int64  `json:"fileSize"`
	UploadDate       string `json:"uploadDate"`
	ThumbnailStatus  string `json:"thumbnailStatus"`
}

func toDTO(img models.Image) imageDTO {
	return imageDTO{
		FileName:         img.FileName,
		OriginalFileName: img.OriginalFileName,
		OriginalFileSize: img.OriginalFileSize,
		FileSize:         img.FileSize,
		UploadDate:       img.UploadDate.UTC().Format(time.RFC3339),
		ThumbnailStatus:  string(img.ThumbnailStatus),
	}
}

type listResponse struct {
	Files      []imageDTO `json:"files"`
	ImageCount int        `json:"imageCount"`
}

type downloadRequest struct {
	FileName   string `json:"fileName" binding:"required"`
	FolderName string `json:"folderName"`
}

func (h *handlers) list(c *gin.Context) {
	list, err := h.images.List(c.Request.Context(), c.GetString(ownerKey))
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := listResponse{Files: make([]imageDTO, 0, len(list)), ImageCount: len(list)}
	for _, img := range list {
		resp.Files = append(resp.Files, toDTO(img))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) upload(c *gin.Context) {
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)
	}

	file, header, err := c.Request.FormFile(common.UploadFieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(c, shared.ErrorFileTooLarge)
			return
		}
		writeError(c, http.StatusBadRequest, fmt.Sprintf("multipart field %q is required", common.UploadFieldName))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, http.StatusBadRequest, "could not read upload")
		return
	}

	img, err := h.images.Upload(c.Request.Context(), c.GetString(ownerKey), header.Filename, data)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, toDTO(*img))
}

func (h *handlers) download(c *gin.Context) {
	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "fileName is required")
		return
	}

	img, blob, err := h.images.Download(c.Request.Context(), c.GetString(ownerKey), req.FileName, req.FolderName)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%s`, strconv.Quote(img.OriginalFileName)))
	c.Data(http.StatusOK, blob.ContentType, blob.Data)
}

func (h *handlers) delete(c *gin.Context) {
	if err := h.images.Delete(c.Request.Context(), c.GetString(ownerKey), c.Param("fileName")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

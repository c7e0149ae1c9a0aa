package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/gophgallery/internal/client/models"
	"github.com/dmitrijs2005/gophgallery/internal/common"
	"github.com/dmitrijs2005/gophgallery/internal/netx"
)

const (
	listPath     = "/images/list"
	uploadPath   = "/images/upload"
	downloadPath = "/images/download"
	deletePath   = "/images/delete/"
)

func (c *HTTPClient) ListImages(ctx context.Context, sess models.Session) (*models.ImageListSnapshot, error) {
	raw, err := c.Request(ctx, http.MethodGet, listPath, nil, sess.Token)
	if err != nil {
		return nil, err
	}

	snap := &models.ImageListSnapshot{}
	if err := decodeInto(raw, snap, "image list"); err != nil {
		return nil, err
	}
	if snap.Files == nil {
		snap.Files = []models.ImageRecord{}
	}
	return snap, nil
}

func (c *HTTPClient) UploadImage(ctx context.Context, sess models.Session, file models.FileCandidate, onProgress netx.ProgressFunc) error {
	if file.Open == nil {
		return fmt.Errorf("upload %s: no content", file.Name)
	}
	content, err := file.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer content.Close()

	body, contentType, length, err := netx.NewMultipartBody(netx.MultipartFile{
		FieldName:   common.UploadFieldName,
		FileName:    file.Name,
		ContentType: file.MediaType,
		Size:        file.Size,
		Body:        content,
	})
	if err != nil {
		return err
	}

	raw := RawBody{
		ContentType: contentType,
		Length:      length,
		Reader:      netx.NewProgressReader(body, length, onProgress),
	}

	resp, err := c.send(ctx, http.MethodPost, uploadPath, raw, sess.Token, true)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(resp, "upload")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *HTTPClient) DownloadImage(ctx context.Context, sess models.Session, req models.DownloadRequest) (io.ReadCloser, error) {
	if req.FolderName == "" {
		req.FolderName = models.FolderOriginal
	}

	resp, err := c.send(ctx, http.MethodPost, downloadPath, req, sess.Token, true)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, failure(resp, "download")
	}
	return resp.Body, nil
}

// DeleteImage succeeds only on 204 No Content.
func (c *HTTPClient) DeleteImage(ctx context.Context, sess models.Session, fileName string) error {
	resp, err := c.send(ctx, http.MethodDelete, deletePath+url.PathEscape(fileName), nil, sess.Token, false)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return failure(resp, "delete")
	}
	return nil
}

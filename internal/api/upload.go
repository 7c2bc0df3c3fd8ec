package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/0x0BSoD/am5tv/internal/model"
)

type UploadResult struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Upload submits a video or image news report. The request is validated
// before anything is sent.
func (c *Client) Upload(ctx context.Context, req model.UploadRequest) (UploadResult, error) {
	if err := req.Validate(); err != nil {
		return UploadResult{}, err
	}

	endpoint, path, fileField := "upload_video", "/api/videos/upload", "videoFile"
	if req.Kind == model.KindImageNews {
		endpoint, path, fileField = "upload_image_news", "/api/image-news/upload", "imageFiles"
	}

	categories, err := json.Marshal([]string{req.Category})
	if err != nil {
		return UploadResult{}, err
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		pw.CloseWithError(writeUploadForm(mw, req, fileField, string(categories)))
	}()

	var out UploadResult
	err = c.do(ctx, call{
		endpoint:    endpoint,
		method:      http.MethodPost,
		path:        path,
		auth:        authUser,
		body:        pr,
		contentType: mw.FormDataContentType(),
	}, &out)
	// unblocks the writer when the request failed before draining the body
	_ = pr.Close()
	if err != nil {
		return UploadResult{}, err
	}

	return out, nil
}

func writeUploadForm(mw *multipart.Writer, req model.UploadRequest, fileField, categories string) error {
	fields := [][2]string{
		{"title", req.Title},
		{"description", req.Description},
		{"location", req.Location()},
		{"tags", req.Tags},
		{"categories", categories},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return err
		}
	}

	for _, f := range req.Files {
		if err := writeFile(mw, fileField, f); err != nil {
			return err
		}
	}
	if req.Thumbnail != nil && req.Kind == model.KindVideo {
		if err := writeFile(mw, "thumbnail", *req.Thumbnail); err != nil {
			return err
		}
	}

	return mw.Close()
}

func writeFile(mw *multipart.Writer, field string, f model.MediaFile) error {
	part, err := mw.CreateFormFile(field, f.Name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, f.Reader); err != nil {
		return fmt.Errorf("copy %s: %w", f.Name, err)
	}
	return nil
}

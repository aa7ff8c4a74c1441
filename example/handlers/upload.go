package handlers

import (
	"errors"
	"net/http"

	"github.com/anvilhq/anvil"
	"github.com/anvilhq/anvil/pkg/storage"
)

// UploadHandler serves the photo upload form and stores submitted
// files. Uploads fail with 503 when no storage is configured.
type UploadHandler struct{}

func NewUpload() *UploadHandler {
	return &UploadHandler{}
}

func (h *UploadHandler) Routes(r anvil.Router) {
	r.GET("/person/photo", h.showForm)
	r.POST("/person/photo", h.upload)
}

func (h *UploadHandler) showForm(c anvil.Context) error {
	return c.Render(http.StatusOK, "Upload",
		anvil.WithViewValue("Title", "Upload"),
	)
}

func (h *UploadHandler) upload(c anvil.Context) error {
	file, header, err := c.FormFile("file")
	if err != nil {
		verrs := anvil.ValidationErrors{}
		verrs.Add("file", "Choose a file to upload")
		return c.Render(http.StatusOK, "Upload",
			anvil.WithViewValue("Title", "Upload"),
			anvil.WithViewErrors(verrs),
		)
	}
	defer file.Close()

	info, err := c.Upload(file, header.Size,
		storage.WithPrefix("uploads"),
		storage.WithContentType(storage.DetectMIME(header)),
	)
	if err != nil {
		if errors.Is(err, anvil.ErrStorageNotConfigured) {
			return anvil.ErrServiceUnavailable("file storage is not configured")
		}
		return err
	}

	url, err := c.FileURL(info.Key)
	if err != nil {
		return err
	}

	c.LogInfo("file uploaded", "key", info.Key, "size", info.Size)
	return c.Render(http.StatusOK, "Upload",
		anvil.WithViewValue("Title", "Upload"),
		anvil.WithViewValue("UploadedURL", url),
	)
}

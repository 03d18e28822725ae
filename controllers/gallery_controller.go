package controllers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/corvan/pixwall/config"
	"github.com/corvan/pixwall/gallery"
	"github.com/corvan/pixwall/store"
	"github.com/corvan/pixwall/utils"
)

// GalleryController exposes the four gallery operations over HTTP.
type GalleryController struct {
	svc *gallery.Service
}

func NewGalleryController(svc *gallery.Service) *GalleryController {
	return &GalleryController{svc: svc}
}

// ListImages returns every record, newest first. An empty gallery is an
// empty array, never an error.
func (g *GalleryController) ListImages(ctx *gin.Context) {
	records, err := g.svc.List(ctx.Request.Context())
	if err != nil {
		utils.Sugar.Errorf("list images failed: %v", err)
		respondFailure(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// Upload ingests a multipart upload: one "file" field, one "title" field.
func (g *GalleryController) Upload(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, "missing file or title")
		return
	}
	defer file.Close()

	title := ctx.PostForm("title")
	if title == "" {
		utils.Error(ctx, http.StatusBadRequest, "missing file or title")
		return
	}

	maxBytes := int64(config.Get().MaxUploadMB) << 20
	if header.Size > maxBytes {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		return
	}

	// The declared size is not trusted; read through a limited reader so an
	// oversized body is rejected either way.
	data, err := io.ReadAll(&io.LimitedReader{R: file, N: maxBytes + 1})
	if err != nil {
		utils.Sugar.Errorf("upload read failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, "upload failed")
		return
	}
	if int64(len(data)) > maxBytes {
		utils.Error(ctx, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	rec, err := g.svc.Ingest(ctx.Request.Context(), data, mimeType, title)
	if err != nil {
		utils.Sugar.Errorf("upload of %q failed: %v", header.Filename, err)
		respondFailure(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Upload successful",
		"images": gin.H{
			"original":  filepath.Base(rec.Path),
			"modal":     filepath.Base(rec.ModalPath),
			"thumbnail": filepath.Base(rec.ThumbnailPath),
		},
		"title": rec.Title,
	})
}

type updateTitleRequest struct {
	Title string `json:"title"`
}

// UpdateTitle renames a record.
func (g *GalleryController) UpdateTitle(ctx *gin.Context) {
	id := ctx.Param("id")

	var req updateTitleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Title == "" {
		utils.Error(ctx, http.StatusBadRequest, "title is required")
		return
	}

	if err := g.svc.Rename(ctx.Request.Context(), id, req.Title); err != nil {
		utils.Sugar.Errorf("rename %s failed: %v", id, err)
		respondFailure(ctx, err)
		return
	}
	utils.Message(ctx, "Title updated successfully")
}

// DeleteImage removes a record and its binaries.
func (g *GalleryController) DeleteImage(ctx *gin.Context) {
	id := ctx.Param("id")

	if err := g.svc.Delete(ctx.Request.Context(), id); err != nil {
		utils.Sugar.Errorf("delete %s failed: %v", id, err)
		respondFailure(ctx, err)
		return
	}
	utils.Message(ctx, "Image deleted successfully")
}

// respondFailure maps the store failure taxonomy onto HTTP statuses.
func respondFailure(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, "image not found")
	case errors.Is(err, store.ErrInvalidInput):
		utils.Error(ctx, http.StatusBadRequest, "invalid request")
	case errors.Is(err, store.ErrPayloadTooLarge):
		utils.Error(ctx, http.StatusRequestEntityTooLarge, "file exceeds size limit")
	case errors.Is(err, store.ErrUnsupportedFormat):
		utils.Error(ctx, http.StatusUnsupportedMediaType, "unsupported image format")
	default:
		utils.Error(ctx, http.StatusInternalServerError, "request failed")
	}
}

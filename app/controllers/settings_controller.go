package controllers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/galeria/app/services"
	"github.com/shashiranjanraj/galeria/pkg/ctx"
)

const (
	maxSettingsBytes = 64 << 10
	maxUploadBytes   = 50 << 20
)

type SettingsController struct {
	settings *services.SettingsService
}

func NewSettingsController(settings *services.SettingsService) *SettingsController {
	return &SettingsController{settings: settings}
}

func (c *SettingsController) Show(x *ctx.Context) {
	doc, err := c.settings.Get(x.Context(), x.Param("key"))
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(doc)
}

// Update replaces the whole document; the body is decoded against the typed
// settings for the key.
func (c *SettingsController) Update(x *ctx.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(x.W, x.R.Body, maxSettingsBytes))
	if err != nil {
		x.Error(http.StatusRequestEntityTooLarge, "El documento es demasiado grande")
		return
	}
	doc, err := c.settings.Put(x.Context(), x.Param("key"), body)
	if err != nil {
		fail(x, err)
		return
	}
	x.Success(doc)
}

type UploadController struct {
	uploads *services.UploadService
}

func NewUploadController(uploads *services.UploadService) *UploadController {
	return &UploadController{uploads: uploads}
}

// Store takes a multipart form with "folder" and "file".
func (c *UploadController) Store(x *ctx.Context) {
	x.R.Body = http.MaxBytesReader(x.W, x.R.Body, maxUploadBytes)
	if err := x.R.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			x.Error(http.StatusRequestEntityTooLarge, "El archivo es demasiado grande")
			return
		}
		x.Error(http.StatusBadRequest, "Se esperaba un formulario multipart")
		return
	}

	file, header, err := x.R.FormFile("file")
	if err != nil {
		x.ValidationError(map[string]string{"file": "El archivo es obligatorio"})
		return
	}
	defer file.Close()

	up, err := c.uploads.Store(x.Context(),
		strings.TrimSpace(x.R.FormValue("folder")), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		fail(x, err)
		return
	}
	x.Created(up)
}

type removeUploadRequest struct {
	Path string `json:"path" validate:"required,max=1024"`
}

func (c *UploadController) Destroy(x *ctx.Context) {
	var in removeUploadRequest
	if !x.BindJSON(&in) {
		return
	}
	if err := c.uploads.Remove(x.Context(), in.Path); err != nil {
		fail(x, err)
		return
	}
	x.Message("Archivo eliminado")
}

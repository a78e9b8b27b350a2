package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragdocai/internal/app"
	"ragdocai/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	docService *app.DocumentService
}

func NewDocumentHandler(docService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{docService: docService}
}

// Upload accepts a multipart form with "file" and makes it the active
// document for QA and narration.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	result, err := h.docService.Upload(c.Request.Context(), file.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUnsupportedFileType):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedFile, err.Error())
		case errors.Is(err, app.ErrEmptyDocument):
			response.Error(c, http.StatusBadRequest, response.CodeEmptyDocument, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrEmbeddingService):
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamService, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "upload failed")
		}
		return
	}

	response.OK(c, result)
}

// Active reports the currently indexed document, if any.
func (h *DocumentHandler) Active(c *gin.Context) {
	active, ok := h.docService.Active()
	if !ok {
		response.Error(c, http.StatusNotFound, response.CodeNoDocument, "no document has been uploaded yet")
		return
	}
	response.OK(c, gin.H{
		"filename":  active.Filename,
		"extension": active.Extension,
	})
}

// List returns the durable registry of past uploads.
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.docService.ListUploads()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}

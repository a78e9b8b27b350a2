package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragdocai/internal/app"
	"ragdocai/internal/transport/http/response"
	"ragdocai/internal/tts"
)

type NarrationHandler struct {
	narrationService *app.NarrationService
}

type NarrateRequest struct {
	LangCode string `json:"lang_code"`
}

func NewNarrationHandler(narrationService *app.NarrationService) *NarrationHandler {
	return &NarrationHandler{narrationService: narrationService}
}

// Narrate renders the active document to MP3 and streams it back.
func (h *NarrationHandler) Narrate(c *gin.Context) {
	// An empty or absent body is fine; the default language applies.
	var req NarrateRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.narrationService.Narrate(c.Request.Context(), req.LangCode)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrLanguageUnsupported):
			response.Error(c, http.StatusBadRequest, response.CodeLangUnsupported, err.Error())
		case errors.Is(err, app.ErrNoDocumentIndexed):
			response.Error(c, http.StatusNotFound, response.CodeNoDocument, err.Error())
		case errors.Is(err, app.ErrEmptyDocument):
			response.Error(c, http.StatusBadRequest, response.CodeEmptyDocument, err.Error())
		case errors.Is(err, app.ErrSynthesisFailed):
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamService, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "narration failed")
		}
		return
	}

	c.Header("X-Narration-Lang", result.LangCode)
	c.FileAttachment(result.AudioPath, result.Filename)
}

// Langs lists the language codes the synthesis engine accepts.
func (h *NarrationHandler) Langs(c *gin.Context) {
	response.OK(c, gin.H{"langs": tts.Langs()})
}

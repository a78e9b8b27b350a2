package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ragdocai/internal/app"
	"ragdocai/internal/model"
	"ragdocai/internal/transport/http/response"
)

type QAHandler struct {
	ragService *app.RAGService
}

type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

func NewQAHandler(ragService *app.RAGService) *QAHandler {
	return &QAHandler{ragService: ragService}
}

func (h *QAHandler) Ask(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.ragService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrNoDocumentIndexed):
			response.Error(c, http.StatusNotFound, response.CodeNoDocument, err.Error())
		case errors.Is(err, app.ErrEmbeddingService), errors.Is(err, app.ErrGenerationService):
			response.Error(c, http.StatusBadGateway, response.CodeUpstreamService, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ask failed")
		}
		return
	}

	response.OK(c, result)
}

// History returns the QA ledger; "document" narrows it to one document.
func (h *QAHandler) History(c *gin.Context) {
	document := c.Query("document")
	pairs := h.ragService.History(c.Request.Context(), document)
	if pairs == nil {
		pairs = []model.QAPair{}
	}
	response.OK(c, gin.H{
		"document": document,
		"history":  pairs,
		"count":    len(pairs),
	})
}

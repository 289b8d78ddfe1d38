package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/services"
)

type SessionHandler struct {
	BaseHandler
	service      services.SessionService
	importExport services.ImportExportService
}

func NewSessionHandler(service services.SessionService, importExport services.ImportExportService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		importExport: importExport,
	}
}

func (h *SessionHandler) StartSession(c *gin.Context) {
	var cfg models.SessionConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.service.Start(c.Request.Context(), userID(c), cfg)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "session started", snap)
}

type answerRequest struct {
	QuestionID  uint `json:"question_id" binding:"required"`
	OptionIndex *int `json:"option_index" binding:"required"`
}

func (h *SessionHandler) RecordAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.service.RecordAnswer(c.Request.Context(), userID(c), req.QuestionID, *req.OptionIndex)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "answer recorded", snap)
}

type navigateRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func (h *SessionHandler) Navigate(c *gin.Context) {
	var req navigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.service.Navigate(c.Request.Context(), userID(c), req.Delta)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "navigated", snap)
}

func (h *SessionHandler) PauseSession(c *gin.Context) {
	snap, err := h.service.Pause(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session paused", snap)
}

func (h *SessionHandler) ResumeSession(c *gin.Context) {
	snap, err := h.service.Resume(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session resumed", snap)
}

func (h *SessionHandler) SubmitSession(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session submitted", resp)
}

func (h *SessionHandler) ResetSession(c *gin.Context) {
	if err := h.service.Reset(c.Request.Context(), userID(c)); err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session reset", nil)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	snap, err := h.service.Snapshot(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "session state", snap)
}

func (h *SessionHandler) GetReview(c *gin.Context) {
	review, err := h.service.Review(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "review", review)
}

func (h *SessionHandler) ListResults(c *gin.Context) {
	results, err := h.service.Results(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "results", results)
}

func (h *SessionHandler) ExportResults(c *gin.Context) {
	data, err := h.importExport.ExportResultsExcel(c.Request.Context(), userID(c))
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="quiz-results.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

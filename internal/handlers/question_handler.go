package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hr-training/quiz-service/internal/models"
	"github.com/hr-training/quiz-service/internal/repositories"
	"github.com/hr-training/quiz-service/internal/services"
)

type QuestionHandler struct {
	BaseHandler
	service      services.QuestionService
	importExport services.ImportExportService
}

func NewQuestionHandler(service services.QuestionService, importExport services.ImportExportService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		BaseHandler:  NewBaseHandler(logger),
		service:      service,
		importExport: importExport,
	}
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	question, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "question created", question)
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	filters := repositories.QuestionFilters{
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}
	if category := c.Query("category"); category != "" {
		cat := models.Category(category)
		if !cat.IsValid() {
			h.RespondWithError(c, http.StatusBadRequest, "unknown category", nil)
			return
		}
		filters.Category = &cat
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	resp, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "questions listed", resp)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	question, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question found", question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	question, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question updated", question)
}

func (h *QuestionHandler) DuplicateQuestion(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	question, err := h.service.Duplicate(c.Request.Context(), id)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "question duplicated", question)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id, ok := h.questionID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "question deleted", nil)
}

func (h *QuestionHandler) DeleteAllQuestions(c *gin.Context) {
	if err := h.service.DeleteAll(c.Request.Context()); err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "all questions deleted", nil)
}

func (h *QuestionHandler) SeedDemoData(c *gin.Context) {
	questions, err := h.service.SeedDemoData(c.Request.Context())
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "demo questions seeded", questions)
}

func (h *QuestionHandler) ImportQuestions(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "missing file upload", err)
		return
	}
	defer file.Close()

	result, err := h.importExport.ImportQuestions(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.RespondWithEngineError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "import completed", result)
}

func (h *QuestionHandler) ExportQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	switch format := c.DefaultQuery("format", "json"); format {
	case "json":
		data, err := h.importExport.ExportQuestionsJSON(ctx)
		if err != nil {
			h.RespondWithEngineError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quiz-questions.json"`)
		c.Data(http.StatusOK, "application/json", data)
	case "xlsx":
		data, err := h.importExport.ExportQuestionsExcel(ctx)
		if err != nil {
			h.RespondWithEngineError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="quiz-questions.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		h.RespondWithError(c, http.StatusBadRequest, "unsupported export format", nil)
	}
}

func (h *QuestionHandler) questionID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, "invalid question id", err)
		return 0, false
	}
	return uint(id), true
}

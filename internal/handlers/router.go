package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hr-training/quiz-service/internal/services"
)

type HandlerManager struct {
	questionHandler *QuestionHandler
	sessionHandler  *SessionHandler
}

func NewHandlerManager(
	questionService services.QuestionService,
	sessionService services.SessionService,
	importExport services.ImportExportService,
	logger *slog.Logger,
) *HandlerManager {
	return &HandlerManager{
		questionHandler: NewQuestionHandler(questionService, importExport, logger),
		sessionHandler:  NewSessionHandler(sessionService, importExport, logger),
	}
}

// SetupRoutes sets up all API routes.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", HealthCheck)

	v1 := router.Group("/api/v1")
	{
		questions := v1.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.POST("/:id/duplicate", hm.questionHandler.DuplicateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
			questions.DELETE("", hm.questionHandler.DeleteAllQuestions)
			questions.POST("/seed", hm.questionHandler.SeedDemoData)
			questions.POST("/import", hm.questionHandler.ImportQuestions)
			questions.GET("/export", hm.questionHandler.ExportQuestions)
		}

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.sessionHandler.StartSession)
			sessions.GET("/current", hm.sessionHandler.GetSession)
			sessions.POST("/current/answers", hm.sessionHandler.RecordAnswer)
			sessions.POST("/current/navigate", hm.sessionHandler.Navigate)
			sessions.POST("/current/pause", hm.sessionHandler.PauseSession)
			sessions.POST("/current/resume", hm.sessionHandler.ResumeSession)
			sessions.POST("/current/submit", hm.sessionHandler.SubmitSession)
			sessions.POST("/current/reset", hm.sessionHandler.ResetSession)
			sessions.GET("/current/review", hm.sessionHandler.GetReview)
			sessions.GET("/results", hm.sessionHandler.ListResults)
			sessions.GET("/results/export", hm.sessionHandler.ExportResults)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/store"
	quizsync "github.com/certsim/quiz-service/internal/sync"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/certsim/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

type HandlerManager struct {
	quizSetHandler  *QuizSetHandler
	progressHandler *ProgressHandler
	adminHandler    *AdminHandler
	adminToken      string
}

func NewHandlerManager(
	facade quizsync.Facade,
	questions *store.QuestionStore,
	progressStore progress.Store,
	v *validator.Validator,
	adminToken string,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		quizSetHandler:  NewQuizSetHandler(facade, logger),
		progressHandler: NewProgressHandler(facade, progressStore, logger),
		adminHandler:    NewAdminHandler(questions, v, logger),
		adminToken:      adminToken,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(UserIDMiddleware())

	v1 := router.Group("/api/v1")
	{
		// Quiz set routes
		quizSets := v1.Group("/quiz-sets")
		{
			quizSets.GET("", hm.quizSetHandler.ListQuizSets)
			quizSets.GET("/:id", hm.quizSetHandler.GetQuizSet)
			quizSets.GET("/:id/questions", hm.quizSetHandler.GetQuestions)
			quizSets.POST("/:id/submit", hm.quizSetHandler.SubmitQuiz)
		}

		// Progress routes
		progressRoutes := v1.Group("/progress")
		{
			progressRoutes.GET("/:quiz_set_id", hm.progressHandler.GetProgress)
			progressRoutes.PUT("/:quiz_set_id", hm.progressHandler.SaveProgress)
			progressRoutes.DELETE("/:quiz_set_id", hm.progressHandler.DeleteProgress)
		}

		// Authoring routes
		admin := v1.Group("/admin", AdminMiddleware(hm.adminToken))
		{
			admin.PUT("/quiz-sets/:id", hm.adminHandler.UpsertQuizSet)
			admin.DELETE("/quiz-sets/:id", hm.adminHandler.DeleteQuizSet)
			admin.POST("/quiz-sets/:id/questions", hm.adminHandler.UpsertQuestion)
			admin.DELETE("/quiz-sets/:id/questions/:question_id", hm.adminHandler.DeleteQuestion)

			admin.GET("/quiz-sets/:id/export", hm.adminHandler.ExportQuizSetXLSX)
			admin.POST("/quiz-sets/:id/import", hm.adminHandler.ImportQuizSetXLSX)
			admin.GET("/quiz-sets/:id/quality", hm.adminHandler.GetQualityReport)

			admin.GET("/export", hm.adminHandler.ExportSnapshot)
			admin.POST("/import", hm.adminHandler.ImportSnapshot)
			admin.GET("/stats", hm.adminHandler.GetStats)
			admin.POST("/reset", hm.adminHandler.ResetSnapshot)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-service",
		})
	})
}

// UserIDMiddleware resolves the acting user from the X-User-ID header so
// downstream handlers share one notion of identity
func UserIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := strings.TrimSpace(c.GetHeader("X-User-ID")); userID != "" {
			c.Set("user_id", userID)
		}
		c.Next()
	}
}

// AdminMiddleware guards authoring routes with a static bearer token. An
// empty configured token leaves the routes open, which is the local
// single-user mode.
func AdminMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		provided, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or missing admin token",
			})
			return
		}
		c.Next()
	}
}

package handlers

import (
	"net/http"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	quizsync "github.com/certsim/quiz-service/internal/sync"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	BaseHandler
	facade   quizsync.Facade
	progress progress.Store
}

func NewProgressHandler(facade quizsync.Facade, progressStore progress.Store, logger utils.Logger) *ProgressHandler {
	return &ProgressHandler{
		BaseHandler: NewBaseHandler(logger),
		facade:      facade,
		progress:    progressStore,
	}
}

// GetProgress returns the caller's saved progress for a quiz set
// @Summary Get progress
// @Tags progress
// @Produce json
// @Param quiz_set_id path string true "Quiz set ID"
// @Success 200 {object} SuccessResponse{data=models.ProgressRecord}
// @Failure 404 {object} ErrorResponse
// @Router /progress/{quiz_set_id} [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	quizSetID := ParseStringIDParam(c, "quiz_set_id")
	if quizSetID == "" {
		return
	}

	record, ok, err := h.facade.GetProgress(c.Request.Context(), CurrentUserID(c), quizSetID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No saved progress for this quiz set",
		})
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Progress retrieved",
		Data:    record,
	})
}

// SaveProgress stores the caller's progress for a quiz set
// @Summary Save progress
// @Tags progress
// @Accept json
// @Produce json
// @Param quiz_set_id path string true "Quiz set ID"
// @Param progress body models.ProgressRecord true "Progress record"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /progress/{quiz_set_id} [put]
func (h *ProgressHandler) SaveProgress(c *gin.Context) {
	quizSetID := ParseStringIDParam(c, "quiz_set_id")
	if quizSetID == "" {
		return
	}

	var record models.ProgressRecord
	if err := c.ShouldBindJSON(&record); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}
	// the URL and auth context win over whatever the body claims
	record.QuizSetID = quizSetID
	record.UserID = CurrentUserID(c)
	if record.Answers == nil {
		record.Answers = make(map[string]models.AnswerRecord)
	}

	if err := h.facade.SaveProgress(c.Request.Context(), &record); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Progress saved",
	})
}

// DeleteProgress discards the caller's saved progress for a quiz set
// @Summary Delete progress
// @Tags progress
// @Produce json
// @Param quiz_set_id path string true "Quiz set ID"
// @Success 200 {object} SuccessResponse
// @Router /progress/{quiz_set_id} [delete]
func (h *ProgressHandler) DeleteProgress(c *gin.Context) {
	quizSetID := ParseStringIDParam(c, "quiz_set_id")
	if quizSetID == "" {
		return
	}

	if err := h.progress.Delete(c.Request.Context(), CurrentUserID(c), quizSetID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Progress deleted",
	})
}

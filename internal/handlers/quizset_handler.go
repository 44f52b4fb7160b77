package handlers

import (
	"net/http"
	"strconv"

	"github.com/certsim/quiz-service/internal/models"
	quizsync "github.com/certsim/quiz-service/internal/sync"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/gin-gonic/gin"
)

type QuizSetHandler struct {
	BaseHandler
	facade quizsync.Facade
}

func NewQuizSetHandler(facade quizsync.Facade, logger utils.Logger) *QuizSetHandler {
	return &QuizSetHandler{
		BaseHandler: NewBaseHandler(logger),
		facade:      facade,
	}
}

// ListQuizSets returns summaries of all quiz sets
// @Summary List quiz sets
// @Tags quiz-sets
// @Produce json
// @Success 200 {object} SuccessResponse{data=[]models.QuizSummary}
// @Router /quiz-sets [get]
func (h *QuizSetHandler) ListQuizSets(c *gin.Context) {
	summaries, err := h.facade.GetQuizSets(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz sets retrieved",
		Data:    summaries,
	})
}

// GetQuizSet returns one quiz set with its questions
// @Summary Get quiz set
// @Tags quiz-sets
// @Produce json
// @Param id path string true "Quiz set ID"
// @Success 200 {object} SuccessResponse{data=models.QuizDetail}
// @Failure 404 {object} ErrorResponse
// @Router /quiz-sets/{id} [get]
func (h *QuizSetHandler) GetQuizSet(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	set, err := h.facade.GetQuizSet(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz set retrieved",
		Data:    set.Detail(),
	})
}

// GetQuestions returns a quiz set's questions, optionally shuffled, limited
// or filtered by difficulty
// @Summary Get questions
// @Tags quiz-sets
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param shuffle query bool false "Randomize question and option order"
// @Param limit query int false "Maximum number of questions"
// @Param difficulty query string false "Keep only questions of this difficulty"
// @Success 200 {object} SuccessResponse{data=[]models.Question}
// @Failure 404 {object} ErrorResponse
// @Router /quiz-sets/{id}/questions [get]
func (h *QuizSetHandler) GetQuestions(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	opts := quizsync.QuestionsOptions{
		Shuffle:    c.Query("shuffle") == "true",
		Difficulty: models.DifficultyLevel(c.Query("difficulty")),
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid limit",
				Details: "limit must be a non-negative integer",
			})
			return
		}
		opts.Limit = limit
	}

	questions, err := h.facade.GetQuestions(c.Request.Context(), id, opts)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Questions retrieved",
		Data:    questions,
	})
}

// SubmitQuizRequest optionally carries explicit answers to grade. Without
// them the caller's saved progress is graded.
type SubmitQuizRequest struct {
	Answers map[string]models.AnswerKey `json:"answers"`
}

// SubmitQuiz grades a quiz set for the caller
// @Summary Submit quiz
// @Tags quiz-sets
// @Accept json
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param request body SubmitQuizRequest false "Explicit answers"
// @Success 200 {object} SuccessResponse{data=models.QuizResults}
// @Failure 404 {object} ErrorResponse
// @Router /quiz-sets/{id}/submit [post]
func (h *QuizSetHandler) SubmitQuiz(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Submitting quiz", "quiz_set_id", id)

	var req SubmitQuizRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.LogError(c, err, "Invalid submission payload")
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid submission payload",
				Details: err.Error(),
			})
			return
		}
	}

	results, err := h.facade.SubmitQuiz(c.Request.Context(), CurrentUserID(c), id, req.Answers)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz submitted",
		Data:    results,
	})
}

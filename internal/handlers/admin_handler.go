package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/store"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/certsim/quiz-service/internal/validator"
	"github.com/gin-gonic/gin"
)

// maxImportBytes caps JSON and xlsx import payloads
const maxImportBytes = 10 << 20

// AdminHandler exposes the authoring surface: quiz set and question CRUD,
// snapshot export/import, and content quality reports.
type AdminHandler struct {
	BaseHandler
	questions *store.QuestionStore
	validator *validator.Validator
}

func NewAdminHandler(questions *store.QuestionStore, v *validator.Validator, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler(logger),
		questions:   questions,
		validator:   v,
	}
}

// UpsertQuizSet creates or replaces a quiz set
// @Summary Upsert quiz set
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param quiz_set body models.QuizSet true "Quiz set data"
// @Success 200 {object} SuccessResponse{data=models.QuizSet}
// @Failure 400 {object} ErrorResponse
// @Router /admin/quiz-sets/{id} [put]
func (h *AdminHandler) UpsertQuizSet(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Upserting quiz set", "quiz_set_id", id)

	var set models.QuizSet
	if err := c.ShouldBindJSON(&set); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	stored, err := h.questions.UpsertQuizSet(c.Request.Context(), id, &set)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz set saved",
		Data:    stored,
	})
}

// DeleteQuizSet removes a quiz set
// @Summary Delete quiz set
// @Tags admin
// @Produce json
// @Param id path string true "Quiz set ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/quiz-sets/{id} [delete]
func (h *AdminHandler) DeleteQuizSet(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Deleting quiz set", "quiz_set_id", id)

	if err := h.questions.DeleteQuizSet(c.Request.Context(), id); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quiz set deleted",
	})
}

// UpsertQuestion creates or replaces a question within a quiz set
// @Summary Upsert question
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param question body models.Question true "Question data"
// @Success 200 {object} SuccessResponse{data=models.Question}
// @Failure 400 {object} ErrorResponse
// @Router /admin/quiz-sets/{id}/questions [post]
func (h *AdminHandler) UpsertQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	stored, err := h.questions.UpsertQuestion(c.Request.Context(), id, &question)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question saved",
		Data:    stored,
	})
}

// DeleteQuestion removes a question from a quiz set
// @Summary Delete question
// @Tags admin
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /admin/quiz-sets/{id}/questions/{question_id} [delete]
func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	questionID := ParseStringIDParam(c, "question_id")
	if questionID == "" {
		return
	}

	if err := h.questions.DeleteQuestion(c.Request.Context(), id, questionID); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question deleted",
	})
}

// ExportSnapshot downloads the whole question snapshot as JSON
// @Summary Export snapshot
// @Tags admin
// @Produce json
// @Success 200 {string} string "Snapshot JSON"
// @Router /admin/export [get]
func (h *AdminHandler) ExportSnapshot(c *gin.Context) {
	data, err := h.questions.Export(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="quiz-sets.json"`)
	c.Data(http.StatusOK, "application/json", data)
}

// ImportSnapshot replaces the whole question snapshot from uploaded JSON
// @Summary Import snapshot
// @Tags admin
// @Accept json
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /admin/import [post]
func (h *AdminHandler) ImportSnapshot(c *gin.Context) {
	h.LogRequest(c, "Importing snapshot")

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Failed to read request body",
			Details: err.Error(),
		})
		return
	}

	if err := h.questions.Import(c.Request.Context(), data); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Snapshot imported",
	})
}

// ExportQuizSetXLSX downloads one quiz set as an xlsx workbook
// @Summary Export quiz set as xlsx
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Quiz set ID"
// @Success 200 {string} string "Workbook bytes"
// @Failure 404 {object} ErrorResponse
// @Router /admin/quiz-sets/{id}/export [get]
func (h *AdminHandler) ExportQuizSetXLSX(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	data, err := h.questions.ExportXLSX(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.xlsx"`, id))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// ImportQuizSetXLSX uploads questions into a quiz set from an xlsx workbook.
// Rows that fail to parse are reported but do not abort the import.
// @Summary Import questions from xlsx
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Quiz set ID"
// @Param file formData file true "Workbook file"
// @Success 200 {object} SuccessResponse{data=store.ImportSummary}
// @Failure 400 {object} ErrorResponse
// @Router /admin/quiz-sets/{id}/import [post]
func (h *AdminHandler) ImportQuizSetXLSX(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}
	h.LogRequest(c, "Importing xlsx", "quiz_set_id", id)

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Missing file upload",
			Details: err.Error(),
		})
		return
	}
	defer file.Close()

	summary, err := h.questions.ImportXLSX(c.Request.Context(), id, io.LimitReader(file, maxImportBytes))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Import finished",
		Data:    summary,
	})
}

// GetStats summarizes the stored content
// @Summary Content stats
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse{data=store.CacheStats}
// @Router /admin/stats [get]
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.questions.Stats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Stats retrieved",
		Data:    stats,
	})
}

// GetQualityReport runs the content quality checks over one quiz set
// @Summary Quiz set quality report
// @Tags admin
// @Produce json
// @Param id path string true "Quiz set ID"
// @Success 200 {object} SuccessResponse{data=validator.SetReport}
// @Failure 404 {object} ErrorResponse
// @Router /admin/quiz-sets/{id}/quality [get]
func (h *AdminHandler) GetQualityReport(c *gin.Context) {
	id := ParseStringIDParam(c, "id")
	if id == "" {
		return
	}

	set, err := h.questions.GetQuizSet(c.Request.Context(), id)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	report := h.validator.Question().ValidateSet(set)
	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Quality report generated",
		Data:    report,
	})
}

// ResetSnapshot discards all content and restores the built-in seed
// @Summary Reset to seed data
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Router /admin/reset [post]
func (h *AdminHandler) ResetSnapshot(c *gin.Context) {
	h.LogRequest(c, "Resetting question store to seed data")

	if err := h.questions.Reset(c.Request.Context()); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Question store reset",
	})
}

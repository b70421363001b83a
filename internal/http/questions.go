package http

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"quizbank/internal/domain"
)

type questionRequest struct {
	Text        string   `json:"text"`
	CategoryIDs []string `json:"categoryIds"`
}

type QuestionResponse struct {
	ID          string   `json:"id"`
	Text        string   `json:"text"`
	Categories  []string `json:"categories"`
	CategoryIDs []string `json:"category_ids"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func questionToResponse(question domain.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:          question.ID,
		Text:        question.Text,
		Categories:  question.CategoryNames,
		CategoryIDs: question.CategoryIDs,
		CreatedAt:   question.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   question.UpdatedAt.Format(time.RFC3339),
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}
	if resp.CategoryIDs == nil {
		resp.CategoryIDs = []string{}
	}
	return resp
}

func questionsToResponse(questions []domain.Question) []QuestionResponse {
	resp := make([]QuestionResponse, len(questions))
	for i := range questions {
		resp[i] = questionToResponse(questions[i])
	}
	return resp
}

func (h *Handler) createQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.questions.Create(c.Request.Context(), req.Text, req.CategoryIDs)
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusCreated, questionToResponse(*question))
}

func (h *Handler) listQuestions(c *gin.Context) {
	questions, err := h.questions.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questionsToResponse(questions))
}

func (h *Handler) getQuestion(c *gin.Context) {
	question, err := h.questions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questionToResponse(*question))
}

func (h *Handler) updateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	question, err := h.questions.Update(c.Request.Context(), c.Param("id"), req.Text, req.CategoryIDs)
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questionToResponse(*question))
}

func (h *Handler) deleteQuestion(c *gin.Context) {
	if err := h.questions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

func (h *Handler) listQuestionsByCategory(c *gin.Context) {
	questions, err := h.questions.ListByCategory(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusOK, questionsToResponse(questions))
}

func (h *Handler) bulkUploadQuestions(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	if ext := strings.ToLower(filepath.Ext(fileHeader.Filename)); ext != ".csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only CSV files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}
	defer file.Close()

	imported, err := h.questions.ImportCSV(c.Request.Context(), file)
	if err != nil {
		h.respondError(c, err, "Question not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Questions imported successfully",
		"imported": imported,
	})
}

package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"quizbank/internal/domain"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func categoryToResponse(category domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   category.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := h.categories.Create(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err, "Category not found")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully",
		"category": categoryToResponse(*category),
	})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err, "Category not found")
		return
	}

	resp := make([]CategoryResponse, len(categories))
	for i := range categories {
		resp[i] = categoryToResponse(categories[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, categoryToResponse(*category))
}

func (h *Handler) updateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := h.categories.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description)
	if err != nil {
		h.respondError(c, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Category updated successfully",
		"category": categoryToResponse(*category),
	})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	if err := h.categories.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err, "Category not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

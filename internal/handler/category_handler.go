package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// CategoryHandler handles category HTTP endpoints.
type CategoryHandler struct {
	categorySvc *service.CategoryService
}

// NewCategoryHandler constructs a CategoryHandler.
func NewCategoryHandler(categorySvc *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categorySvc: categorySvc}
}

// List handles GET /api/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categorySvc.List(c.Request.Context(), c.Query("type"))
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Categories retrieved", categories)
}

// Get handles GET /api/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
		return
	}
	category, err := h.categorySvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category retrieved", category)
}

// Create handles POST /api/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req service.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	category, err := h.categorySvc.Create(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Category created", category)
}

// Update handles PUT /api/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
		return
	}
	var req service.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	category, err := h.categorySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category updated", category)
}

// Delete handles DELETE /api/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid category id")
		return
	}
	if err := h.categorySvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Category deleted", nil)
}

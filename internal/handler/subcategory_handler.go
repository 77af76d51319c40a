package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/ordering"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// SubCategoryHandler handles sub-category HTTP endpoints.
type SubCategoryHandler struct {
	subCategorySvc *service.SubCategoryService
}

// NewSubCategoryHandler constructs a SubCategoryHandler.
func NewSubCategoryHandler(subCategorySvc *service.SubCategoryService) *SubCategoryHandler {
	return &SubCategoryHandler{subCategorySvc: subCategorySvc}
}

// List handles GET /api/subcategories
func (h *SubCategoryHandler) List(c *gin.Context) {
	var categoryID *uuid.UUID
	if ref := c.Query("category"); ref != "" {
		if id, err := uuid.Parse(ref); err == nil {
			categoryID = &id
		}
	}
	subs, err := h.subCategorySvc.List(c.Request.Context(), c.Query("type"), categoryID)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Sub-categories retrieved", subs)
}

// Get handles GET /api/subcategories/:id
func (h *SubCategoryHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sub-category id")
		return
	}
	sub, err := h.subCategorySvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Sub-category retrieved", sub)
}

// Create handles POST /api/subcategories
func (h *SubCategoryHandler) Create(c *gin.Context) {
	var req service.CreateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sub, err := h.subCategorySvc.Create(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Sub-category created", sub)
}

// Update handles PUT /api/subcategories/:id
func (h *SubCategoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sub-category id")
		return
	}
	var req service.UpdateSubCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	sub, err := h.subCategorySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Sub-category updated", sub)
}

// Move handles POST /api/subcategories/:id/move
func (h *SubCategoryHandler) Move(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sub-category id")
		return
	}
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.subCategorySvc.Move(c.Request.Context(), id, ordering.Direction(req.Direction))
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	if res.AtBoundary {
		utils.Success(c, http.StatusOK, "Sub-category already at boundary", res)
		return
	}
	utils.Success(c, http.StatusOK, "Sub-category moved", res)
}

// Delete handles DELETE /api/subcategories/:id
func (h *SubCategoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid sub-category id")
		return
	}
	if err := h.subCategorySvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Sub-category deleted", nil)
}

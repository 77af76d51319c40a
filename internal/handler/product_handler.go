package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/ordering"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// ProductHandler handles product HTTP endpoints. The public listing routes
// and the admin mutation routes share this handler; the router decides which
// are behind auth.
type ProductHandler struct {
	productSvc *service.ProductService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productSvc *service.ProductService) *ProductHandler {
	return &ProductHandler{productSvc: productSvc}
}

// List handles GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	q := &service.ProductListQuery{
		Category:    c.Query("category"),
		SubCategory: c.Query("subCategory"),
		Type:        c.Query("type"),
		Search:      c.Query("search"),
		PublicOnly:  c.GetString("admin_id") == "",
	}
	products, err := h.productSvc.List(c.Request.Context(), q)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products retrieved", products)
}

// Get handles GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}
	product, err := h.productSvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product retrieved", product)
}

// Create handles POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	product, err := h.productSvc.Create(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Product created", product)
}

// Update handles PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}
	var req service.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	product, err := h.productSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product updated", product)
}

// Move handles POST /api/products/:id/move
func (h *ProductHandler) Move(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}
	var req struct {
		Direction string `json:"direction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	res, err := h.productSvc.Move(c.Request.Context(), id, ordering.Direction(req.Direction))
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	if res.AtBoundary {
		utils.Success(c, http.StatusOK, "Product already at boundary", res)
		return
	}
	utils.Success(c, http.StatusOK, "Product moved", res)
}

// BatchUpdate handles PUT /api/products/batch
func (h *ProductHandler) BatchUpdate(c *gin.Context) {
	var req service.BatchUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	updated, err := h.productSvc.BatchUpdate(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Products updated", gin.H{"updated": updated})
}

// Delete handles DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid product id")
		return
	}
	if err := h.productSvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Product deleted", nil)
}

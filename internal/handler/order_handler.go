package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

// OrderHandler handles order HTTP endpoints. Create is the public checkout;
// everything else is admin-only.
type OrderHandler struct {
	orderSvc *service.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orderSvc *service.OrderService) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc}
}

// Create handles POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	order, err := h.orderSvc.Create(c.Request.Context(), &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusCreated, "Order created", order)
}

// List handles GET /api/orders
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.orderSvc.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Orders retrieved", orders)
}

// Get handles GET /api/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	order, err := h.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order retrieved", order)
}

// Update handles PUT /api/orders/:id
func (h *OrderHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	order, err := h.orderSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order updated", order)
}

// Delete handles DELETE /api/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid order id")
		return
	}
	if err := h.orderSvc.Delete(c.Request.Context(), id); err != nil {
		utils.RespondErr(c, err)
		return
	}
	utils.Success(c, http.StatusOK, "Order deleted", nil)
}

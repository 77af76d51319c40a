package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/notify"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/utils"
)

// OrderStore is the persistence surface the order service needs.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	GetAll(ctx context.Context, status string) ([]models.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus, notes string) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductReader resolves live products when freezing line item snapshots.
type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// OrderService builds immutable order snapshots and manages the admin order
// lifecycle.
type OrderService struct {
	orders   OrderStore
	products ProductReader
	email    notify.EmailNotifier
	whatsapp notify.WhatsAppNotifier
}

// NewOrderService constructs an OrderService.
func NewOrderService(orders OrderStore, products ProductReader, email notify.EmailNotifier, whatsapp notify.WhatsAppNotifier) *OrderService {
	return &OrderService{orders: orders, products: products, email: email, whatsapp: whatsapp}
}

// OrderItemInput is a checkout line item. Price and discount are pointers so
// a client-supplied value, including zero, is never overwritten by catalog
// backfill.
type OrderItemInput struct {
	Product                *uuid.UUID `json:"product"`
	ProductName            string     `json:"productName"`
	ProductDescription     string     `json:"productDescription"`
	CategoryName           string     `json:"categoryName"`
	SubCategoryName        string     `json:"subCategoryName"`
	SubCategoryDescription string     `json:"subCategoryDescription"`
	Quantity               int        `json:"quantity" binding:"required,min=1"`
	Price                  *float64   `json:"price"`
	Discount               *float64   `json:"discount"`
}

// CreateOrderRequest is the storefront checkout payload. The total is taken
// as submitted, not recomputed from line items.
type CreateOrderRequest struct {
	Customer    models.Customer  `json:"customer" binding:"required"`
	Items       []OrderItemInput `json:"items" binding:"required"`
	TotalAmount float64          `json:"totalAmount"`
	Notes       string           `json:"notes"`
}

// UpdateOrderRequest changes the mutable admin-facing fields of an order.
type UpdateOrderRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Notes  string             `json:"notes"`
}

// Create freezes the current catalog state into an order record and fires
// the notification side effects. Snapshot fields never change afterwards,
// whatever happens to the referenced products.
func (s *OrderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if req.Customer.FullName == "" || req.Customer.PhoneNumber == "" || req.Customer.City == "" {
		return nil, utils.Validation("customer fullName, phoneNumber and city are required")
	}
	if len(req.Items) == 0 {
		return nil, utils.Validation("order must contain at least one item")
	}

	items := make(models.OrderItems, 0, len(req.Items))
	for _, in := range req.Items {
		if in.Quantity < 1 {
			return nil, utils.Validation("item quantity must be at least 1")
		}
		items = append(items, s.snapshotItem(ctx, in))
	}

	o := &models.Order{
		Customer:    req.Customer,
		Items:       items,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderPending,
		Notes:       req.Notes,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, utils.Unknown(err, "Failed to create order")
	}

	s.dispatchNotifications(o)
	return o, nil
}

// snapshotItem backfills a line item from the live catalog. The lookup is
// best-effort: a missing or unreadable product leaves the client-supplied
// fields as they are.
func (s *OrderService) snapshotItem(ctx context.Context, in OrderItemInput) models.OrderItem {
	item := models.OrderItem{
		ProductID:              in.Product,
		ProductName:            in.ProductName,
		ProductDescription:     in.ProductDescription,
		CategoryName:           in.CategoryName,
		SubCategoryName:        in.SubCategoryName,
		SubCategoryDescription: in.SubCategoryDescription,
		Quantity:               in.Quantity,
	}
	if in.Price != nil {
		item.Price = *in.Price
	}
	if in.Discount != nil {
		item.Discount = *in.Discount
	}

	if in.Product == nil {
		return item
	}
	p, err := s.products.GetByID(ctx, *in.Product)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn().Err(err).Str("product", in.Product.String()).Msg("snapshot lookup failed")
		}
		return item
	}

	// Live catalog wins for the descriptive fields; name and price only
	// fill in what the client left out.
	if item.ProductName == "" {
		item.ProductName = p.Name
	}
	if p.Description != "" {
		item.ProductDescription = p.Description
	}
	if p.CategoryName != "" {
		item.CategoryName = p.CategoryName
	}
	if p.SubCategoryName != nil && *p.SubCategoryName != "" {
		item.SubCategoryName = *p.SubCategoryName
	}
	if p.SubCategoryDescription != nil && *p.SubCategoryDescription != "" {
		item.SubCategoryDescription = *p.SubCategoryDescription
	}
	if in.Price == nil && p.Price != nil {
		item.Price = *p.Price
	}
	return item
}

// dispatchNotifications fires the best-effort side effects. Failures are
// logged and never surfaced to the checkout caller.
func (s *OrderService) dispatchNotifications(o *models.Order) {
	go func() {
		if err := s.email.NotifyAdmin(o); err != nil {
			log.Error().Err(err).Str("order", o.OrderNumber).Msg("admin notification failed")
		}
		if err := s.email.ConfirmToCustomer(o); err != nil {
			log.Error().Err(err).Str("order", o.OrderNumber).Msg("customer confirmation failed")
		}
	}()
	go func() {
		if !s.whatsapp.IsReady() {
			return
		}
		if err := s.whatsapp.Send(o); err != nil {
			log.Error().Err(err).Str("order", o.OrderNumber).Msg("whatsapp notification failed")
		}
	}()
}

// List returns orders, newest first, optionally filtered by status.
func (s *OrderService) List(ctx context.Context, status string) ([]models.Order, error) {
	if status != "" && !models.OrderStatus(status).Valid() {
		return nil, utils.Validation("invalid status %q", status)
	}
	orders, err := s.orders.GetAll(ctx, status)
	if err != nil {
		return nil, utils.Unknown(err, "Failed to retrieve orders")
	}
	return orders, nil
}

// Get returns a single order.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, utils.Unknown(err, "Failed to retrieve order")
	}
	return o, nil
}

// Update changes an order's status and notes. Item snapshots are immutable.
func (s *OrderService) Update(ctx context.Context, id uuid.UUID, req *UpdateOrderRequest) (*models.Order, error) {
	if !req.Status.Valid() {
		return nil, utils.Validation("invalid status %q", req.Status)
	}
	o, err := s.orders.UpdateStatus(ctx, id, req.Status, req.Notes)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Order not found")
		}
		return nil, utils.Unknown(err, "Failed to update order")
	}
	return o, nil
}

// Delete removes an order permanently.
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Order not found")
		}
		return utils.Unknown(err, "Failed to delete order")
	}
	return nil
}

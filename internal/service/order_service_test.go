package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mystickies/store-api/internal/models"
	"github.com/mystickies/store-api/internal/notify"
	"github.com/mystickies/store-api/internal/repository"
	"github.com/mystickies/store-api/internal/service"
	"github.com/mystickies/store-api/internal/utils"
)

type fakeOrderStore struct {
	orders map[uuid.UUID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[uuid.UUID]*models.Order)}
}

func (s *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD-TEST"
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *fakeOrderStore) GetAll(context.Context, string) ([]models.Order, error) {
	out := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, *o)
	}
	return out, nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id uuid.UUID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) UpdateStatus(_ context.Context, id uuid.UUID, status models.OrderStatus, notes string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = status
	o.Notes = notes
	cp := *o
	return &cp, nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

type fakeProductReader struct {
	products map[uuid.UUID]*models.Product
}

func (r *fakeProductReader) GetByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func f64P(f float64) *float64 { return &f }

func liveProduct(name string) *models.Product {
	price := 120.0
	subName := "Holographic"
	subDesc := "shiny ones"
	return &models.Product{
		ID:                     uuid.New(),
		Name:                   name,
		Description:            "live description",
		Price:                  &price,
		Discount:               10,
		CategoryName:           "Stickers",
		SubCategoryName:        &subName,
		SubCategoryDescription: &subDesc,
	}
}

func newOrderService(products ...*models.Product) (*service.OrderService, *fakeOrderStore, *fakeProductReader) {
	store := newFakeOrderStore()
	reader := &fakeProductReader{products: make(map[uuid.UUID]*models.Product)}
	for _, p := range products {
		reader.products[p.ID] = p
	}
	svc := service.NewOrderService(store, reader, notify.NoopEmailNotifier{}, notify.NoopWhatsAppNotifier{})
	return svc, store, reader
}

func checkoutCustomer() models.Customer {
	return models.Customer{FullName: "Lina", PhoneNumber: "0999", City: "Damascus"}
}

func TestCreateOrderSnapshotBackfill(t *testing.T) {
	t.Parallel()

	p := liveProduct("Glossy Pack")
	svc, _, _ := newOrderService(p)

	order, err := svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
		Items: []service.OrderItemInput{
			{Product: &p.ID, Quantity: 2},
		},
		TotalAmount: 240,
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)

	item := order.Items[0]
	assert.Equal(t, "Glossy Pack", item.ProductName)
	assert.Equal(t, "live description", item.ProductDescription)
	assert.Equal(t, "Stickers", item.CategoryName)
	assert.Equal(t, "Holographic", item.SubCategoryName)
	assert.Equal(t, "shiny ones", item.SubCategoryDescription)
	assert.Equal(t, float64(120), item.Price)
	// An omitted item discount stays at zero; the live product's discount is
	// never copied into the snapshot.
	assert.Equal(t, float64(0), item.Discount)
	assert.Equal(t, float64(240), order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
}

func TestCreateOrderClientPriceWins(t *testing.T) {
	t.Parallel()

	p := liveProduct("Glossy Pack")
	svc, _, _ := newOrderService(p)

	order, err := svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
		Items: []service.OrderItemInput{
			{Product: &p.ID, Quantity: 1, Price: f64P(99), Discount: f64P(0)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(99), order.Items[0].Price)
	assert.Equal(t, float64(0), order.Items[0].Discount)
}

func TestCreateOrderMissingProductIsNonFatal(t *testing.T) {
	t.Parallel()

	svc, _, _ := newOrderService()
	missing := uuid.New()

	order, err := svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
		Items: []service.OrderItemInput{
			{Product: &missing, Quantity: 1, ProductName: "Gone", Price: f64P(5)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Gone", order.Items[0].ProductName)
	assert.Equal(t, float64(5), order.Items[0].Price)
	assert.Empty(t, order.Items[0].CategoryName)
}

// Later catalog edits never reach an existing order.
func TestOrderSnapshotImmutability(t *testing.T) {
	t.Parallel()

	p := liveProduct("Glossy Pack")
	svc, _, reader := newOrderService(p)

	order, err := svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
		Items:    []service.OrderItemInput{{Product: &p.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	reader.products[p.ID].Description = "rewritten"
	reader.products[p.ID].Name = "Renamed"

	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, "live description", got.Items[0].ProductDescription)
	assert.Equal(t, "Glossy Pack", got.Items[0].ProductName)

	// Status updates leave the snapshot alone too.
	updated, err := svc.Update(context.Background(), order.ID, &service.UpdateOrderRequest{
		Status: models.OrderConfirmed,
		Notes:  "paid",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderConfirmed, updated.Status)
	assert.Equal(t, "live description", updated.Items[0].ProductDescription)
}

func TestCreateOrderValidation(t *testing.T) {
	t.Parallel()

	svc, _, _ := newOrderService()

	_, err := svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: models.Customer{FullName: "Lina"},
		Items:    []service.OrderItemInput{{Quantity: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.Create(context.Background(), &service.CreateOrderRequest{
		Customer: checkoutCustomer(),
		Items:    []service.OrderItemInput{{Quantity: 0}},
	})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestUpdateOrderInvalidStatus(t *testing.T) {
	t.Parallel()

	svc, _, _ := newOrderService()
	_, err := svc.Update(context.Background(), uuid.New(), &service.UpdateOrderRequest{Status: "teleported"})
	require.Error(t, err)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestGetOrderNotFound(t *testing.T) {
	t.Parallel()

	svc, _, _ := newOrderService()
	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

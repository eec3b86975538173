package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brunux-hub/Cafe-eria.hub/internal/domain"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/events"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/realtime"
	"github.com/Brunux-hub/Cafe-eria.hub/internal/repository"
)

type stubProductRepo struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[int64]*domain.Product), nextID: 1}
}

func (r *stubProductRepo) Create(_ context.Context, product *domain.Product) error {
	product.ID = r.nextID
	r.nextID++
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, product *domain.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *stubProductRepo) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *product
	return &copied, nil
}

func (r *stubProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var out []domain.Product
	for _, product := range r.products {
		if filter.OnlyActive && !product.Active {
			continue
		}
		out = append(out, *product)
	}
	return out, nil
}

func (r *stubProductRepo) SetStock(_ context.Context, id int64, stock int) (*domain.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	product.Stock = stock
	copied := *product
	return &copied, nil
}

func (r *stubProductRepo) Deactivate(_ context.Context, id int64) error {
	product, ok := r.products[id]
	if !ok {
		return pgx.ErrNoRows
	}
	product.Active = false
	return nil
}

type productFixture struct {
	service       *ProductService
	repo          *stubProductRepo
	inventorySink *realtime.ChannelSink
}

func newProductFixture(t *testing.T) *productFixture {
	t.Helper()

	repo := newStubProductRepo()
	dispatcher := events.NewDispatcher()
	broadcaster := realtime.NewBroadcaster(zap.NewNop(), nil)
	NewRealtimeNotifier(dispatcher, broadcaster, zap.NewNop()).RegisterHandlers()

	inventorySink := realtime.NewChannelSink(8)
	broadcaster.Subscribe(realtime.TopicInventory, "test-conn", inventorySink)

	return &productFixture{
		service:       NewProductService(repo, dispatcher),
		repo:          repo,
		inventorySink: inventorySink,
	}
}

func TestCreateProductValidation(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	_, err := f.service.CreateProduct(ctx, ProductInput{Name: "  ", Price: 5})
	assert.Error(t, err)

	_, err = f.service.CreateProduct(ctx, ProductInput{Name: "Latte", Price: 0})
	assert.Error(t, err)

	_, err = f.service.CreateProduct(ctx, ProductInput{Name: "Latte", Price: 3.5, Stock: -1})
	assert.Error(t, err)

	product, err := f.service.CreateProduct(ctx, ProductInput{Name: " Latte ", Price: 3.5, Stock: 10})
	require.NoError(t, err)
	assert.Equal(t, "Latte", product.Name)
	assert.True(t, product.Active)
	assert.NotZero(t, product.ID)
}

func TestAdjustStockAnnouncesInventoryUpdate(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(ctx, ProductInput{Name: "Latte", Price: 3.5, Stock: 10})
	require.NoError(t, err)

	updated, err := f.service.AdjustStock(ctx, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Stock)

	select {
	case payload := <-f.inventorySink.C():
		var got realtime.InventoryNotification
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, realtime.TypeInventoryUpdate, got.Type)
		assert.Equal(t, product.ID, got.ProductID)
		assert.Equal(t, "Latte", got.ProductName)
		assert.Equal(t, 4, got.NewStock)
	default:
		t.Fatal("expected an inventory-topic notification")
	}

	select {
	case <-f.inventorySink.C():
		t.Fatal("a stock change must announce exactly once")
	default:
	}
}

func TestAdjustStockRejectsNegative(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(ctx, ProductInput{Name: "Latte", Price: 3.5, Stock: 10})
	require.NoError(t, err)

	_, err = f.service.AdjustStock(ctx, product.ID, -1)
	assert.Error(t, err)

	select {
	case <-f.inventorySink.C():
		t.Fatal("rejected adjustments must not announce")
	default:
	}
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	f := newProductFixture(t)

	_, err := f.service.AdjustStock(context.Background(), 99, 5)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestDeactivateProductHidesItFromActiveList(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture(t)

	product, err := f.service.CreateProduct(ctx, ProductInput{Name: "Latte", Price: 3.5, Stock: 10})
	require.NoError(t, err)
	require.NoError(t, f.service.DeactivateProduct(ctx, product.ID))

	active, err := f.service.ListProducts(ctx, repository.ProductFilter{OnlyActive: true})
	require.NoError(t, err)
	assert.Empty(t, active)
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bcod/campus-market/internal/domain"
	"github.com/bcod/campus-market/internal/dto"
)

// fakeProductCache is a map-backed ProductCache that counts traffic
type fakeProductCache struct {
	entries     map[int64]*domain.Product
	hits, sets  int
	invalidated []int64
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{entries: map[int64]*domain.Product{}}
}

func (f *fakeProductCache) Get(ctx context.Context, id int64) (*domain.Product, bool) {
	p, ok := f.entries[id]
	if ok {
		f.hits++
	}
	return p, ok
}

func (f *fakeProductCache) Set(ctx context.Context, p *domain.Product) error {
	f.entries[p.ID] = p
	f.sets++
	return nil
}

func (f *fakeProductCache) Invalidate(ctx context.Context, id int64) error {
	delete(f.entries, id)
	f.invalidated = append(f.invalidated, id)
	return nil
}

func productRequest(categoryID int64) *dto.ProductRequest {
	return &dto.ProductRequest{
		Name:        "Lab manual",
		Description: "Second-hand, good condition",
		Quantity:    3,
		Price:       45000,
		Discount:    0,
		CategoryID:  categoryID,
	}
}

func seedCategory(catalog *memoryCatalogRepository, name string) *domain.Category {
	c := &domain.Category{ID: catalog.nextID, Name: name}
	catalog.nextID++
	catalog.categories[c.ID] = c
	return c
}

func TestGetProductCacheAside(t *testing.T) {
	catalog := newMemoryCatalogRepository()
	cache := newFakeProductCache()
	p := seedProduct(catalog, "Headphones", 2, 120000, 5)
	svc := NewCatalogService(catalog, cache)

	ctx := context.Background()

	// First read misses the cache and fills it
	got, err := svc.GetProduct(ctx, p.ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Name != "Headphones" {
		t.Errorf("Unexpected product: %+v", got)
	}
	if cache.sets != 1 {
		t.Errorf("Expected one cache fill, got %d", cache.sets)
	}

	// Second read is served from cache
	if _, err := svc.GetProduct(ctx, p.ID); err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("Expected one cache hit, got %d", cache.hits)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := NewCatalogService(newMemoryCatalogRepository(), nil)

	if _, err := svc.GetProduct(context.Background(), 42); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestCreateProduct(t *testing.T) {
	catalog := newMemoryCatalogRepository()
	category := seedCategory(catalog, "Books")
	svc := NewCatalogService(catalog, nil)

	p, err := svc.CreateProduct(context.Background(), 7, productRequest(category.ID))
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if p.SellerID != 7 {
		t.Errorf("Expected seller 7, got %d", p.SellerID)
	}
	if p.CategoryID != category.ID {
		t.Errorf("Expected category %d, got %d", category.ID, p.CategoryID)
	}
}

func TestCreateProductUnknownCategory(t *testing.T) {
	svc := NewCatalogService(newMemoryCatalogRepository(), nil)

	_, err := svc.CreateProduct(context.Background(), 7, productRequest(99))
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Errorf("Expected ErrCategoryNotFound, got %v", err)
	}
}

func TestUpdateProductInvalidatesCache(t *testing.T) {
	catalog := newMemoryCatalogRepository()
	cache := newFakeProductCache()
	category := seedCategory(catalog, "Books")
	p := seedProduct(catalog, "Old name", 1, 10000, 0)
	cache.Set(context.Background(), p)
	svc := NewCatalogService(catalog, cache)

	req := productRequest(category.ID)
	req.Name = "New name"
	updated, err := svc.UpdateProduct(context.Background(), p.ID, req)
	if err != nil {
		t.Fatalf("UpdateProduct failed: %v", err)
	}
	if updated.Name != "New name" {
		t.Errorf("Expected renamed product, got %q", updated.Name)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != p.ID {
		t.Errorf("Expected cache invalidation for %d, got %v", p.ID, cache.invalidated)
	}
}

func TestDeleteProductReturnsDeletedRow(t *testing.T) {
	catalog := newMemoryCatalogRepository()
	cache := newFakeProductCache()
	p := seedProduct(catalog, "Poster", 1, 15000, 0)
	svc := NewCatalogService(catalog, cache)

	deleted, err := svc.DeleteProduct(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if deleted.Name != "Poster" {
		t.Errorf("Expected the removed row back, got %+v", deleted)
	}
	if _, err := svc.GetProduct(context.Background(), p.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Product still readable after delete: %v", err)
	}
	if len(cache.invalidated) != 1 {
		t.Errorf("Expected cache invalidation, got %v", cache.invalidated)
	}
}

func TestCodLocationLifecycle(t *testing.T) {
	locations := newMemoryLocationRepository()
	svc := NewCodLocationService(locations)
	ctx := context.Background()

	loc, err := svc.Create(ctx, &dto.CodLocationRequest{
		Name:        "Main Gate",
		Building:    "A",
		Description: "By the security post",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if !loc.Active {
		t.Error("New spots must default to active")
	}

	active, err := svc.ListActive(ctx)
	if err != nil || len(active) != 1 {
		t.Fatalf("Expected one active spot, got %d (err %v)", len(active), err)
	}

	if _, err := svc.SetActive(ctx, loc.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	active, _ = svc.ListActive(ctx)
	if len(active) != 0 {
		t.Errorf("Deactivated spot still listed: %+v", active)
	}

	all, _ := svc.List(ctx)
	if len(all) != 1 {
		t.Errorf("Admin listing must include inactive spots, got %d", len(all))
	}

	if _, err := svc.SetActive(ctx, 999, true); !errors.Is(err, ErrLocationNotFound) {
		t.Errorf("Expected ErrLocationNotFound, got %v", err)
	}
}

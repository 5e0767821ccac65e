package wishlist

import (
	"context"
	"testing"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/models"
)

type stubCatalog struct {
	products []models.Product
}

func (c *stubCatalog) List(context.Context) []models.Product { return c.products }

func newTestService(t *testing.T, catalog *stubCatalog) (Service, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	svc, err := NewService(ServiceParams{Store: store, Watcher: kv.NewBus(), Catalog: catalog})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestAddAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t, &stubCatalog{})

	ids, err := svc.Add(ctx, "1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(ids) != 1 || ids[0] != "1" {
		t.Fatalf("unexpected ids: %+v", ids)
	}

	// adding again is a no-op
	ids, err = svc.Add(ctx, "1")
	if err != nil {
		t.Fatalf("repeat add: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("duplicate id appended: %+v", ids)
	}

	if _, err := svc.Add(ctx, "2"); err != nil {
		t.Fatalf("add: %v", err)
	}
	got := svc.List(ctx)
	if len(got) != 2 || got[0] != "1" || got[1] != "2" {
		t.Fatalf("insertion order lost: %+v", got)
	}
}

func TestAddRejectsBlankID(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, &stubCatalog{})
	if _, err := svc.Add(context.Background(), "  "); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t, &stubCatalog{})

	svc.Add(ctx, "1")
	svc.Add(ctx, "2")

	ids, err := svc.Remove(ctx, "1")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(ids) != 1 || ids[0] != "2" {
		t.Fatalf("unexpected ids after remove: %+v", ids)
	}

	// removing a missing id is a no-op
	ids, err = svc.Remove(ctx, "404")
	if err != nil {
		t.Fatalf("remove missing: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("no-op remove changed the list: %+v", ids)
	}
}

func TestProductsJoinSkipsDanglingIDs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	catalog := &stubCatalog{products: []models.Product{
		{ID: "1", Name: "Shoe"},
		{ID: "2", Name: "Hat"},
	}}
	svc, _ := newTestService(t, catalog)

	svc.Add(ctx, "1")
	svc.Add(ctx, "deleted-product")

	products := svc.Products(ctx)
	if len(products) != 1 || products[0].ID != "1" {
		t.Fatalf("unexpected join result: %+v", products)
	}
}

func TestListRecoversFromCorruptRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t, &stubCatalog{})
	if err := store.Set(ctx, "wishlist", []byte(`"not an array"`)); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	if ids := svc.List(ctx); len(ids) != 0 {
		t.Fatalf("corrupt wishlist should read as empty, got %+v", ids)
	}
}

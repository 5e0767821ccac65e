package orders

import (
	"context"
	"testing"
	"time"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/models"
)

func newTestService(t *testing.T) (Service, *kv.MemoryStore) {
	t.Helper()
	store := kv.NewMemoryStore()
	svc, err := NewService(ServiceParams{Store: store, Watcher: kv.NewBus()})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func seedLedger(t *testing.T, store kv.Store, records []models.OrderRecord) {
	t.Helper()
	if err := kv.WriteJSON(context.Background(), store, "orders", records); err != nil {
		t.Fatalf("seed ledger: %v", err)
	}
}

func record(orderNumber, firstName, lastName, status string) models.OrderRecord {
	return models.OrderRecord{
		OrderSnapshot: models.OrderSnapshot{
			OrderNumber: orderNumber,
			Date:        time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			ShippingInfo: models.ShippingInfo{
				FirstName: firstName,
				LastName:  lastName,
			},
			Total: 99.99,
		},
		Status: status,
	}
}

func TestListEmptyLedger(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if records := svc.List(context.Background()); len(records) != 0 {
		t.Fatalf("expected empty ledger, got %+v", records)
	}
}

func TestListDefaultsMissingStatusToPending(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t)
	seedLedger(t, store, []models.OrderRecord{
		record("ORD111111", "Ada", "Lovelace", ""),
		record("ORD222222", "Alan", "Turing", "Shipped"),
	})

	records := svc.List(context.Background())
	if records[0].Status != "Pending" {
		t.Fatalf("blank status should read as Pending, got %q", records[0].Status)
	}
	if records[1].Status != "Shipped" {
		t.Fatalf("explicit status must survive, got %q", records[1].Status)
	}
}

func TestSearchByOrderNumberAndCustomer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	seedLedger(t, store, []models.OrderRecord{
		record("ORD111111", "Ada", "Lovelace", "Pending"),
		record("ORD222222", "Alan", "Turing", "Pending"),
	})

	byNumber := svc.Search(ctx, "222222")
	if len(byNumber) != 1 || byNumber[0].OrderNumber != "ORD222222" {
		t.Fatalf("order number search failed: %+v", byNumber)
	}

	byCustomer := svc.Search(ctx, "ada love")
	if len(byCustomer) != 1 || byCustomer[0].OrderNumber != "ORD111111" {
		t.Fatalf("customer search failed: %+v", byCustomer)
	}

	if all := svc.Search(ctx, ""); len(all) != 2 {
		t.Fatalf("blank query should return everything, got %d", len(all))
	}
	if none := svc.Search(ctx, "nobody"); len(none) != 0 {
		t.Fatalf("unexpected matches: %+v", none)
	}
}

func TestMarkShipped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	seedLedger(t, store, []models.OrderRecord{
		record("ORD111111", "Ada", "Lovelace", "Pending"),
	})

	updated, err := svc.MarkShipped(ctx, "ORD111111")
	if err != nil {
		t.Fatalf("mark shipped: %v", err)
	}
	if updated.Status != "Shipped" {
		t.Fatalf("unexpected status: %q", updated.Status)
	}

	// idempotent on repeat
	if _, err := svc.MarkShipped(ctx, "ORD111111"); err != nil {
		t.Fatalf("repeat mark shipped: %v", err)
	}

	var stored []models.OrderRecord
	if _, err := kv.ReadJSON(ctx, store, "orders", &stored); err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if stored[0].Status != "Shipped" {
		t.Fatalf("status not persisted: %+v", stored[0])
	}
}

func TestMarkShippedMissingOrder(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.MarkShipped(context.Background(), "ORD000000"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestRemoveOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	seedLedger(t, store, []models.OrderRecord{
		record("ORD111111", "Ada", "Lovelace", "Pending"),
		record("ORD222222", "Alan", "Turing", "Pending"),
	})

	if err := svc.Remove(ctx, "ORD111111"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	// removing again stays a no-op
	if err := svc.Remove(ctx, "ORD111111"); err != nil {
		t.Fatalf("repeat remove: %v", err)
	}

	var stored []models.OrderRecord
	if _, err := kv.ReadJSON(ctx, store, "orders", &stored); err != nil {
		t.Fatalf("read ledger: %v", err)
	}
	if len(stored) != 1 || stored[0].OrderNumber != "ORD222222" {
		t.Fatalf("unexpected ledger after remove: %+v", stored)
	}
}

func TestLastOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.LastOrder(ctx); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND before any order, got %v", err)
	}

	snapshot := record("ORD333333", "Grace", "Hopper", "").OrderSnapshot
	if err := kv.WriteJSON(ctx, store, "lastOrder", snapshot); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	got, err := svc.LastOrder(ctx)
	if err != nil {
		t.Fatalf("last order: %v", err)
	}
	if got.OrderNumber != "ORD333333" {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestListRecoversFromCorruptLedger(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	if err := store.Set(ctx, "orders", []byte(`{broken`)); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	if records := svc.List(ctx); len(records) != 0 {
		t.Fatalf("corrupt ledger should read as empty, got %+v", records)
	}
}

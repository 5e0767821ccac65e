package kv

import (
	"context"
	"errors"
	"testing"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()

	if _, err := store.Get(ctx, "cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := store.Set(ctx, "cart", []byte(`[]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	raw, err := store.Get(ctx, "cart")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(raw) != `[]` {
		t.Fatalf("unexpected value: %s", raw)
	}

	if err := store.Delete(ctx, "cart"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, "cart"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// deleting again stays a no-op
	if err := store.Delete(ctx, "cart"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, "theme", []byte(`"light"`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	raw, _ := store.Get(ctx, "theme")
	raw[1] = 'X'

	again, _ := store.Get(ctx, "theme")
	if string(again) != `"light"` {
		t.Fatalf("stored value mutated through returned slice: %s", again)
	}
}

func TestReadJSONMissingKey(t *testing.T) {
	t.Parallel()

	var dest []string
	ok, err := ReadJSON(context.Background(), NewMemoryStore(), "wishlist", &dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for missing key")
	}
}

func TestReadJSONMalformedPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Set(ctx, "cart", []byte(`{not json`)); err != nil {
		t.Fatalf("set: %v", err)
	}

	var dest []string
	_, err := ReadJSON(ctx, store, "cart", &dest)
	if !pkgerrors.Is(err, pkgerrors.CodeParse) {
		t.Fatalf("expected PARSE_ERROR, got %v", err)
	}
}

func TestBusFanOutAndCancel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := NewBus()

	first, cancelFirst := bus.Subscribe("cart")
	second, cancelSecond := bus.Subscribe("cart")
	defer cancelSecond()
	other, cancelOther := bus.Subscribe("theme")
	defer cancelOther()

	if err := bus.Notify(ctx, "cart"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if ev := <-first; ev.Key != "cart" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev := <-second; ev.Key != "cart" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	select {
	case ev := <-other:
		t.Fatalf("theme subscriber got cart event: %+v", ev)
	default:
	}

	cancelFirst()
	if _, open := <-first; open {
		t.Fatal("expected channel closed after cancel")
	}

	// canceled subscriber no longer receives
	if err := bus.Notify(ctx, "cart"); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if ev := <-second; ev.Key != "cart" {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestBusDoesNotBlockOnFullSubscriber(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bus := NewBus()
	ch, cancel := bus.Subscribe("cart")
	defer cancel()

	for i := 0; i < subscriberBuffer+4; i++ {
		if err := bus.Notify(ctx, "cart"); err != nil {
			t.Fatalf("notify %d: %v", i, err)
		}
	}

	drained := 0
	for {
		select {
		case <-ch:
			drained++
		default:
			if drained != subscriberBuffer {
				t.Fatalf("expected %d buffered events, drained %d", subscriberBuffer, drained)
			}
			return
		}
	}
}

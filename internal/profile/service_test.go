package profile

import (
	"context"
	"testing"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
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

func TestThemeDefaultsToLight(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if theme := svc.Theme(context.Background()); theme != enums.ThemeLight {
		t.Fatalf("expected light default, got %s", theme)
	}
}

func TestSetThemeRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t)

	theme, err := svc.SetTheme(ctx, "dark")
	if err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if theme != enums.ThemeDark {
		t.Fatalf("unexpected theme: %s", theme)
	}
	if got := svc.Theme(ctx); got != enums.ThemeDark {
		t.Fatalf("theme not persisted: %s", got)
	}
}

func TestSetThemeStoresBareString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.SetTheme(ctx, "dark"); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	raw, err := store.Get(ctx, "theme")
	if err != nil {
		t.Fatalf("read theme: %v", err)
	}
	if string(raw) != "dark" {
		t.Fatalf("theme must be stored unquoted, got %q", raw)
	}
}

func TestSetThemeRejectsUnknownValues(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.SetTheme(context.Background(), "sepia"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestThemeRecoversFromCorruptRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)
	if err := store.Set(ctx, "theme", []byte(`{broken`)); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	if theme := svc.Theme(ctx); theme != enums.ThemeLight {
		t.Fatalf("corrupt theme should read as light, got %s", theme)
	}
}

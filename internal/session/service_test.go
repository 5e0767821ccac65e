package session

import (
	"context"
	"testing"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
)

const adminEmail = "khikhe@gmail.com"

func newTestService(t *testing.T) (Service, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	svc, err := NewService(ServiceParams{Store: store, AdminEmail: adminEmail})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, store
}

func TestLoginStoresSessionKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	identity, err := svc.Login(ctx, "shopper@example.com")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.Role != enums.RoleCustomer {
		t.Fatalf("unexpected role: %s", identity.Role)
	}

	// stored as bare strings, not JSON documents
	if raw, err := store.Get(ctx, "isAuthenticated"); err != nil || string(raw) != "true" {
		t.Fatalf("isAuthenticated not stored raw: %q %v", raw, err)
	}
	if raw, err := store.Get(ctx, "loginEmail"); err != nil || string(raw) != "shopper@example.com" {
		t.Fatalf("loginEmail not stored raw: %q %v", raw, err)
	}
	if _, err := store.Get(ctx, "isAmatakAdmin"); err != kv.ErrNotFound {
		t.Fatalf("admin flag should be absent for customers: %v", err)
	}
}

func TestLoginAdminMatchIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	identity, err := svc.Login(ctx, "  KhiKhe@Gmail.COM ")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.Role != enums.RoleAdmin {
		t.Fatalf("expected admin role, got %s", identity.Role)
	}

	if raw, err := store.Get(ctx, "isAmatakAdmin"); err != nil || string(raw) != "true" {
		t.Fatalf("admin flag not stored raw: %q %v", raw, err)
	}
}

func TestLoginRejectsBlankEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	if _, err := svc.Login(context.Background(), "   "); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestAdminDemotedOnCustomerLogin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.Login(ctx, adminEmail); err != nil {
		t.Fatalf("admin login: %v", err)
	}
	if _, err := svc.Login(ctx, "other@example.com"); err != nil {
		t.Fatalf("customer login: %v", err)
	}
	if _, err := store.Get(ctx, "isAmatakAdmin"); err != kv.ErrNotFound {
		t.Fatalf("stale admin flag survived relogin: %v", err)
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	if _, err := svc.Login(ctx, adminEmail); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	for _, key := range []string{"isAuthenticated", "loginEmail", "isAmatakAdmin"} {
		if _, err := store.Get(ctx, key); err != kv.ErrNotFound {
			t.Fatalf("key %s survived logout: %v", key, err)
		}
	}
	if svc.IsAuthenticated(ctx) {
		t.Fatal("still authenticated after logout")
	}
}

func TestCurrentRecoversFromCorruptSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t)

	if err := store.Set(ctx, "isAuthenticated", []byte(`{broken`)); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}
	identity := svc.Current(ctx)
	if identity.Role != enums.RoleAnonymous {
		t.Fatalf("corrupt session should read as anonymous, got %+v", identity)
	}
}

package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/amatak/storefront-backend/internal/cart"
	"github.com/amatak/storefront-backend/internal/catalog"
	checkoutsvc "github.com/amatak/storefront-backend/internal/checkout"
	"github.com/amatak/storefront-backend/internal/orders"
	"github.com/amatak/storefront-backend/internal/profile"
	"github.com/amatak/storefront-backend/internal/session"
	"github.com/amatak/storefront-backend/internal/wishlist"
	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
)

const testAdminEmail = "admin@example.com"

func testConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Env: "test", Port: "0"},
		Admin: config.AdminConfig{Email: testAdminEmail},
		Checkout: config.CheckoutConfig{
			TaxRate:           0.08,
			StandardShipping:  5.99,
			ExpressShipping:   15.99,
			OvernightShipping: 29.99,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	store := kv.NewMemoryStore()
	bus := kv.NewBus()

	sessionSvc, err := session.NewService(session.ServiceParams{
		Store:      store,
		AdminEmail: cfg.Admin.Email,
		Logger:     logg,
	})
	if err != nil {
		t.Fatalf("session service: %v", err)
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Store:    store,
		Watcher:  bus,
		Sessions: sessionSvc,
		Logger:   logg,
	})
	if err != nil {
		t.Fatalf("cart service: %v", err)
	}
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{
		Store:   store,
		Watcher: bus,
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("catalog service: %v", err)
	}
	checkoutSvc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Store:      store,
		Watcher:    bus,
		Cart:       cartSvc,
		Stock:      catalogSvc,
		Authorizer: checkoutsvc.NewSimulatedGateway(0),
		Config:     cfg.Checkout,
		Logger:     logg,
	})
	if err != nil {
		t.Fatalf("checkout service: %v", err)
	}
	ordersSvc, err := orders.NewService(orders.ServiceParams{
		Store:   store,
		Watcher: bus,
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("orders service: %v", err)
	}
	wishlistSvc, err := wishlist.NewService(wishlist.ServiceParams{
		Store:   store,
		Watcher: bus,
		Catalog: catalogSvc,
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("wishlist service: %v", err)
	}
	profileSvc, err := profile.NewService(profile.ServiceParams{
		Store:   store,
		Watcher: bus,
		Logger:  logg,
	})
	if err != nil {
		t.Fatalf("profile service: %v", err)
	}

	return NewRouter(cfg, logg, nil, nil, Services{
		Session:  sessionSvc,
		Cart:     cartSvc,
		Catalog:  catalogSvc,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Wishlist: wishlistSvc,
		Profile:  profileSvc,
	})
}

func login(t *testing.T, router http.Handler, email string) {
	t.Helper()
	body := `{"email":"` + email + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d: %s", email, resp.Code, resp.Body.String())
	}
}

func TestHealthLiveReportsEnv(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Storefront-Env"); got != "test" {
		t.Fatalf("expected env header test got %q", got)
	}
}

func TestProductListIsPublic(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "Air Runner Pro") {
		t.Fatalf("expected builtin catalog in response, got %s", resp.Body.String())
	}
}

func TestProductCreateRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, testConfig())
	body := `{"name":"Test Shoe","price":10,"category":"men","quantity":1}`

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session got %d", resp.Code)
	}

	login(t, router, "shopper@example.com")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body)))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	login(t, router, testAdminEmail)
	req = httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCheckoutRequiresSession(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout/step", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session got %d", resp.Code)
	}

	login(t, router, "shopper@example.com")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/checkout/step", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 after login got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), "shipping") {
		t.Fatalf("expected flow to start at shipping, got %s", resp.Body.String())
	}
}

func TestCartAddRoundTrip(t *testing.T) {
	router := newTestRouter(t, testConfig())
	login(t, router, "shopper@example.com")

	body := `{"id":"1","name":"Air Runner Pro","price":129.99}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Air Runner Pro") {
		t.Fatalf("expected cart to carry the added line, got %s", resp.Body.String())
	}
}

func TestOrdersLedgerRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, testConfig())

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without session got %d", resp.Code)
	}

	login(t, router, "shopper@example.com")
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	login(t, router, testAdminEmail)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLoginRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t, testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestThemeRoundTrip(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/profile/theme", strings.NewReader(`{"theme":"dark"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/profile/theme", nil))
	if !strings.Contains(resp.Body.String(), "dark") {
		t.Fatalf("expected persisted dark theme, got %s", resp.Body.String())
	}
}

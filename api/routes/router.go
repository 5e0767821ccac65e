package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amatak/storefront-backend/api/controllers"
	"github.com/amatak/storefront-backend/api/middleware"
	"github.com/amatak/storefront-backend/internal/cart"
	"github.com/amatak/storefront-backend/internal/catalog"
	checkoutsvc "github.com/amatak/storefront-backend/internal/checkout"
	"github.com/amatak/storefront-backend/internal/orders"
	"github.com/amatak/storefront-backend/internal/profile"
	"github.com/amatak/storefront-backend/internal/session"
	"github.com/amatak/storefront-backend/internal/wishlist"
	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/logger"
)

// Services bundles everything the router wires to handlers.
type Services struct {
	Session  session.Service
	Cart     cart.Service
	Catalog  catalog.Service
	Checkout checkoutsvc.Service
	Orders   orders.Service
	Wishlist wishlist.Service
	Profile  profile.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storage controllers.Pinger,
	registry *prometheus.Registry,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.AuthLogin(svcs.Session, logg))
		r.Post("/logout", controllers.AuthLogout(svcs.Session, logg))
		r.Get("/me", controllers.AuthMe(svcs.Session, logg))
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Catalog, logg))
		r.Get("/{productId}", controllers.ProductDetail(svcs.Catalog, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(svcs.Session, logg))
			r.Post("/", controllers.ProductCreate(svcs.Catalog, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(svcs.Catalog, logg))
			r.Patch("/{productId}/quantity", controllers.ProductSetQuantity(svcs.Catalog, logg))
			r.Delete("/{productId}", controllers.ProductDelete(svcs.Catalog, logg))
		})
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", controllers.CartFetch(svcs.Cart, logg))
		r.Get("/summary", controllers.CartSummary(svcs.Cart, logg))
		r.Delete("/", controllers.CartClear(svcs.Cart, logg))
		r.Post("/items", controllers.CartAdd(svcs.Cart, logg))
		r.Delete("/items", controllers.CartRemoveItem(svcs.Cart, logg))
		r.Patch("/items", controllers.CartUpdateQuantity(svcs.Cart, logg))
	})

	r.Route("/api/v1/checkout", func(r chi.Router) {
		r.Use(middleware.RequireAuth(svcs.Session, logg))
		r.Get("/step", controllers.CheckoutStep(svcs.Checkout, logg))
		r.Post("/step/advance", controllers.CheckoutAdvance(svcs.Checkout, logg))
		r.Post("/step/back", controllers.CheckoutBack(svcs.Checkout, logg))
		r.Post("/step/reset", controllers.CheckoutReset(svcs.Checkout, logg))
		r.Get("/quote", controllers.CheckoutQuote(svcs.Checkout, logg))
		r.Post("/", controllers.CheckoutPlace(svcs.Checkout, logg))
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.With(middleware.RequireAuth(svcs.Session, logg)).
			Get("/last", controllers.LastOrder(svcs.Orders, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(svcs.Session, logg))
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Post("/{orderNumber}/ship", controllers.OrderMarkShipped(svcs.Orders, logg))
			r.Delete("/{orderNumber}", controllers.OrderRemove(svcs.Orders, logg))
		})
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Get("/", controllers.WishlistFetch(svcs.Wishlist, logg))
		r.Get("/products", controllers.WishlistProducts(svcs.Wishlist, logg))
		r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
		r.Delete("/{productId}", controllers.WishlistRemove(svcs.Wishlist, logg))
	})

	r.Route("/api/v1/profile", func(r chi.Router) {
		r.Get("/theme", controllers.ThemeFetch(svcs.Profile, logg))
		r.Put("/theme", controllers.ThemeUpdate(svcs.Profile, logg))
	})

	return r
}

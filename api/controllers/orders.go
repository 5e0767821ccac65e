package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/internal/orders"
	"github.com/amatak/storefront-backend/pkg/logger"
)

// OrdersList returns the ledger, optionally filtered by ?q= over order
// number and customer name.
func OrdersList(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Search(r.Context(), r.URL.Query().Get("q")))
	}
}

// OrderMarkShipped transitions one order to Shipped.
func OrderMarkShipped(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		record, err := svc.MarkShipped(r.Context(), chi.URLParam(r, "orderNumber"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// OrderRemove drops one order from the ledger.
func OrderRemove(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Remove(r.Context(), chi.URLParam(r, "orderNumber")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// LastOrder returns the confirmation-view snapshot.
func LastOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := svc.LastOrder(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

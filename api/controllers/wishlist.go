package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/wishlist"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type wishlistAddRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

// WishlistFetch returns the wishlisted product ids.
func WishlistFetch(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.List(r.Context()))
	}
}

// WishlistProducts returns the catalog join for the wishlist page.
func WishlistProducts(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Products(r.Context()))
	}
}

// WishlistAdd appends a product id.
func WishlistAdd(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body wishlistAddRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ids, err := svc.Add(r.Context(), body.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, ids)
	}
}

// WishlistRemove drops a product id. Missing ids are a no-op.
func WishlistRemove(svc wishlist.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := svc.Remove(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ids)
	}
}

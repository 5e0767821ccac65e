package controllers

import (
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/cart"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type addToCartRequest struct {
	ID            string   `json:"id" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Price         float64  `json:"price" validate:"gte=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Image         string   `json:"image,omitempty"`
	Color         string   `json:"color,omitempty"`
	Size          string   `json:"size,omitempty"`
	Category      string   `json:"category,omitempty"`
	Quantity      int      `json:"quantity,omitempty"`
	InStock       *bool    `json:"inStock,omitempty"`
}

type updateQuantityRequest struct {
	ID       string `json:"id" validate:"required"`
	Color    string `json:"color,omitempty"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

// CartFetch returns the stored cart lines in insertion order.
func CartFetch(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.GetCart(r.Context()))
	}
}

// CartAdd merges a candidate line into the cart.
func CartAdd(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addToCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.AddToCart(r.Context(), cart.Candidate{
			ID:            body.ID,
			Name:          body.Name,
			Price:         body.Price,
			OriginalPrice: body.OriginalPrice,
			Image:         body.Image,
			Color:         body.Color,
			Size:          body.Size,
			Category:      body.Category,
			Quantity:      body.Quantity,
			InStock:       body.InStock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, lines)
	}
}

// CartRemoveItem drops the line addressed by id, color and size query
// params. A missing line is not an error.
func CartRemoveItem(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		lines, err := svc.RemoveFromCart(r.Context(), q.Get("id"), q.Get("color"), q.Get("size"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

// CartUpdateQuantity sets a line's quantity, floored at 1.
func CartUpdateQuantity(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lines, err := svc.UpdateCartItemQuantity(r.Context(), body.ID, body.Color, body.Size, body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, lines)
	}
}

// CartSummary returns the derived rollup.
func CartSummary(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.GetCartSummary(r.Context()))
	}
}

// CartClear drops the stored cart record.
func CartClear(svc cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.ClearCart(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

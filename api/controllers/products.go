package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/catalog"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type productRequest struct {
	Name            string  `json:"name" validate:"required"`
	Price           float64 `json:"price" validate:"required,gt=0"`
	Brand           string  `json:"brand,omitempty"`
	Category        string  `json:"category" validate:"required"`
	Subcategory     string  `json:"subcategory,omitempty"`
	Image           string  `json:"image,omitempty"`
	Description     string  `json:"description,omitempty"`
	Quantity        int     `json:"quantity" validate:"required,min=1"`
	DiscountPercent float64 `json:"discountPercent,omitempty" validate:"gte=0,lt=100"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

func (p productRequest) toInput() catalog.NewProduct {
	return catalog.NewProduct{
		Name:            p.Name,
		Price:           p.Price,
		Brand:           p.Brand,
		Category:        p.Category,
		Subcategory:     p.Subcategory,
		Image:           p.Image,
		Description:     p.Description,
		Quantity:        p.Quantity,
		DiscountPercent: p.DiscountPercent,
	}
}

// ProductList returns the merged catalog, optionally filtered by ?q=.
func ProductList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Search(r.Context(), r.URL.Query().Get("q")))
	}
}

// ProductDetail returns one product by id, first match across both sets.
func ProductDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := svc.Get(r.Context(), chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductCreate appends a product to the admin set.
func ProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.AddAdminProduct(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate replaces the editable fields of an admin product.
func ProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body productRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateAdminProduct(r.Context(), chi.URLParam(r, "productId"), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductSetQuantity adjusts stock on hand wherever the id lives.
func ProductSetQuantity(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.SetQuantity(r.Context(), chi.URLParam(r, "productId"), body.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes the id from both catalog sets.
func ProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteProduct(r.Context(), chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

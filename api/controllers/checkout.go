package controllers

import (
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/checkout"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/models"
)

type placeOrderRequest struct {
	ShippingInfo   models.ShippingInfo `json:"shippingInfo" validate:"required"`
	PaymentInfo    models.PaymentInfo  `json:"paymentInfo" validate:"required"`
	ShippingMethod string              `json:"shippingMethod,omitempty" validate:"omitempty,oneof=standard express overnight"`
}

type stepResponse struct {
	Step string `json:"step"`
}

// CheckoutStep reports the current flow step.
func CheckoutStep(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, stepResponse{Step: svc.Step().String()})
	}
}

// CheckoutAdvance moves the flow one step forward.
func CheckoutAdvance(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := svc.Advance()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stepResponse{Step: step.String()})
	}
}

// CheckoutBack moves the flow one step backward.
func CheckoutBack(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		step, err := svc.Back()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stepResponse{Step: step.String()})
	}
}

// CheckoutReset returns the flow to the shipping step.
func CheckoutReset(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, stepResponse{Step: svc.Reset().String()})
	}
}

// CheckoutQuote prices the current cart against ?shippingMethod=.
func CheckoutQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Quote(r.Context(), r.URL.Query().Get("shippingMethod")))
	}
}

// CheckoutPlace completes the order from the review step.
func CheckoutPlace(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body placeOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.PlaceOrder(r.Context(), checkout.PlaceOrderInput{
			ShippingInfo:   body.ShippingInfo,
			PaymentInfo:    body.PaymentInfo,
			ShippingMethod: body.ShippingMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, snapshot)
	}
}

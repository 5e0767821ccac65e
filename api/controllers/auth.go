package controllers

import (
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/session"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email" validate:"required"`
}

// AuthLogin marks the caller signed in. There is no credential check: the
// email alone establishes the session, and the configured admin address
// gets the admin role.
func AuthLogin(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body loginRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity, err := svc.Login(r.Context(), body.Email)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, identity)
	}
}

// AuthLogout clears every session key.
func AuthLogout(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AuthMe reports the current identity, anonymous included.
func AuthMe(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, svc.Current(r.Context()))
	}
}

package controllers

import (
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/api/validators"
	"github.com/amatak/storefront-backend/internal/profile"
	"github.com/amatak/storefront-backend/pkg/logger"
)

type themeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type themeResponse struct {
	Theme string `json:"theme"`
}

// ThemeFetch returns the stored theme preference.
func ThemeFetch(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, themeResponse{Theme: svc.Theme(r.Context()).String()})
	}
}

// ThemeUpdate persists the theme preference.
func ThemeUpdate(svc profile.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body themeRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		theme, err := svc.SetTheme(r.Context(), body.Theme)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, themeResponse{Theme: theme.String()})
	}
}

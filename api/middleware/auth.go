package middleware

import (
	"context"
	"net/http"

	"github.com/amatak/storefront-backend/api/responses"
	"github.com/amatak/storefront-backend/internal/session"
	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/logger"
)

// SessionReader resolves the caller's identity from stored session state.
type SessionReader interface {
	Current(ctx context.Context) session.Identity
}

// RequireAuth rejects anonymous callers. The identity is recomputed from
// storage on every request; there is no token to verify.
func RequireAuth(sessions SessionReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := sessions.Current(ctx)
			if identity.Role == enums.RoleAnonymous {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			}
			if logg != nil {
				ctx = logg.WithEmail(ctx, identity.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects everyone but the configured admin address.
func RequireAdmin(sessions SessionReader, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			identity := sessions.Current(ctx)
			switch identity.Role {
			case enums.RoleAnonymous:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required"))
				return
			case enums.RoleAdmin:
			default:
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "admin access required"))
				return
			}
			if logg != nil {
				ctx = logg.WithEmail(ctx, identity.Email)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package session

import (
	"context"
	"strings"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
)

// Storage keys. These are plain client-forgeable flags, not a security
// boundary: there is no credential check, no token and no expiry. The
// storefront has always worked this way and the behavior is kept as-is.
const (
	keyAuthenticated = "isAuthenticated"
	keyLoginEmail    = "loginEmail"
	keyAdminFlag     = "isAmatakAdmin"
)

// Identity is the single source of truth for "who is this" across the API.
type Identity struct {
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// Service exposes the session shim.
type Service interface {
	Login(ctx context.Context, email string) (Identity, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) Identity
	IsAuthenticated(ctx context.Context) bool
}

// ServiceParams groups dependencies for the session service.
type ServiceParams struct {
	Store      kv.Store
	AdminEmail string
	Logger     *logger.Logger
}

type service struct {
	store      kv.Store
	adminEmail string
	logg       *logger.Logger
}

// NewService builds a session service bound to the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if strings.TrimSpace(params.AdminEmail) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "admin email is required")
	}
	return &service{
		store:      params.Store,
		adminEmail: normalizeEmail(params.AdminEmail),
		logg:       params.Logger,
	}, nil
}

// Login unconditionally authenticates the caller and stores the raw email.
// When the email matches the configured admin address the admin flag is set
// alongside.
func (s *service) Login(ctx context.Context, email string) (Identity, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return Identity{}, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	if err := s.writeString(ctx, keyAuthenticated, "true"); err != nil {
		return Identity{}, err
	}
	if err := s.writeString(ctx, keyLoginEmail, trimmed); err != nil {
		return Identity{}, err
	}

	role := enums.RoleCustomer
	if normalizeEmail(trimmed) == s.adminEmail {
		role = enums.RoleAdmin
		if err := s.writeString(ctx, keyAdminFlag, "true"); err != nil {
			return Identity{}, err
		}
	} else if err := s.store.Delete(ctx, keyAdminFlag); err != nil {
		return Identity{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clear admin flag")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"email": trimmed,
			"role":  role.String(),
		}), "session.login")
	}
	return Identity{Email: trimmed, Role: role}, nil
}

// Logout clears every session key.
func (s *service) Logout(ctx context.Context) error {
	for _, key := range []string{keyAuthenticated, keyLoginEmail, keyAdminFlag} {
		if err := s.store.Delete(ctx, key); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clear "+key)
		}
	}
	return nil
}

// Current recomputes the identity from stored state. Malformed session
// records count as signed out rather than erroring.
func (s *service) Current(ctx context.Context) Identity {
	if s.readString(ctx, keyAuthenticated) != "true" {
		return Identity{Role: enums.RoleAnonymous}
	}
	email := s.readString(ctx, keyLoginEmail)
	if email == "" {
		return Identity{Role: enums.RoleAnonymous}
	}
	role := enums.RoleCustomer
	if normalizeEmail(email) == s.adminEmail {
		role = enums.RoleAdmin
	}
	return Identity{Email: email, Role: role}
}

// IsAuthenticated reports whether a session is present.
func (s *service) IsAuthenticated(ctx context.Context) bool {
	return s.Current(ctx).Role != enums.RoleAnonymous
}

// Session values are bare strings, not JSON documents. They are stored
// byte-for-byte the way the storefront always wrote them.
func (s *service) writeString(ctx context.Context, key, value string) error {
	if err := s.store.Set(ctx, key, []byte(value)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write "+key)
	}
	return nil
}

func (s *service) readString(ctx context.Context, key string) string {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if err != kv.ErrNotFound && s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, key), "session.read_failed")
		}
		return ""
	}
	return string(raw)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

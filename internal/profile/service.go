package profile

import (
	"context"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
)

const keyTheme = "theme"

// Service manages profile preferences. Today that is just the theme.
type Service interface {
	Theme(ctx context.Context) enums.Theme
	SetTheme(ctx context.Context, value string) (enums.Theme, error)
}

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Store   kv.Store
	Watcher kv.Watcher
	Logger  *logger.Logger
}

type service struct {
	store   kv.Store
	watcher kv.Watcher
	logg    *logger.Logger
}

// NewService builds a profile service bound to the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Watcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watcher is required")
	}
	return &service{
		store:   params.Store,
		watcher: params.Watcher,
		logg:    params.Logger,
	}, nil
}

// Theme returns the stored preference. Missing or malformed records read as
// light, the historical default. The value is a bare string, stored
// byte-for-byte the way the storefront always wrote it.
func (s *service) Theme(ctx context.Context) enums.Theme {
	raw, err := s.store.Get(ctx, keyTheme)
	if err != nil {
		if err != kv.ErrNotFound && s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, keyTheme), "profile.read_failed")
		}
		return enums.ThemeLight
	}
	theme, err := enums.ParseTheme(string(raw))
	if err != nil {
		return enums.ThemeLight
	}
	return theme
}

// SetTheme persists the preference. Only light and dark are accepted.
func (s *service) SetTheme(ctx context.Context, value string) (enums.Theme, error) {
	theme, err := enums.ParseTheme(value)
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "theme must be light or dark")
	}
	if err := s.store.Set(ctx, keyTheme, []byte(theme.String())); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "write "+keyTheme)
	}
	if err := s.watcher.Notify(ctx, keyTheme); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, keyTheme), "profile.notify_failed")
	}
	return theme, nil
}

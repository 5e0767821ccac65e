package wishlist

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/models"
)

const storageKey = "wishlist"

type catalogReader interface {
	List(ctx context.Context) []models.Product
}

// Service manages the wishlist: a persisted list of product ids plus the
// catalog join the wishlist page renders.
type Service interface {
	List(ctx context.Context) []string
	Add(ctx context.Context, productID string) ([]string, error)
	Remove(ctx context.Context, productID string) ([]string, error)
	Products(ctx context.Context) []models.Product
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	Store   kv.Store
	Watcher kv.Watcher
	Catalog catalogReader
	Logger  *logger.Logger
}

type service struct {
	store   kv.Store
	watcher kv.Watcher
	catalog catalogReader
	logg    *logger.Logger

	mu sync.Mutex
}

// NewService builds a wishlist service bound to the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Watcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watcher is required")
	}
	if params.Catalog == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog service is required")
	}
	return &service{
		store:   params.Store,
		watcher: params.Watcher,
		catalog: params.Catalog,
		logg:    params.Logger,
	}, nil
}

// List returns the wishlisted product ids in insertion order.
func (s *service) List(ctx context.Context) []string {
	return s.load(ctx)
}

// Add appends a product id. Adding an id twice is a no-op.
func (s *service) Add(ctx context.Context, productID string) ([]string, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing product id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.load(ctx)
	for _, id := range ids {
		if id == productID {
			return ids, nil
		}
	}
	ids = append(ids, productID)
	if err := s.persist(ctx, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Remove drops a product id. A missing id is a no-op.
func (s *service) Remove(ctx context.Context, productID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := s.load(ctx)
	filtered := ids[:0]
	removed := false
	for _, id := range ids {
		if id == productID {
			removed = true
			continue
		}
		filtered = append(filtered, id)
	}
	if !removed {
		return ids, nil
	}
	if err := s.persist(ctx, filtered); err != nil {
		return nil, err
	}
	return filtered, nil
}

// Products joins the wishlist against the merged catalog. Ids that no
// longer resolve to a product are skipped, not errors: the product may have
// been deleted since it was wishlisted.
func (s *service) Products(ctx context.Context) []models.Product {
	ids := s.load(ctx)
	if len(ids) == 0 {
		return []models.Product{}
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	matched := make([]models.Product, 0, len(ids))
	for _, p := range s.catalog.List(ctx) {
		if _, ok := wanted[p.ID]; ok {
			matched = append(matched, p)
		}
	}
	return matched
}

func (s *service) load(ctx context.Context) []string {
	var ids []string
	if _, err := kv.ReadJSON(ctx, s.store, storageKey, &ids); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, storageKey), "wishlist.read_failed")
		}
		return []string{}
	}
	if ids == nil {
		return []string{}
	}
	return ids
}

func (s *service) persist(ctx context.Context, ids []string) error {
	if err := kv.WriteJSON(ctx, s.store, storageKey, ids); err != nil {
		return err
	}
	if err := s.watcher.Notify(ctx, storageKey); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, storageKey), "wishlist.notify_failed")
	}
	return nil
}

package orders

import (
	"context"
	"strings"
	"sync"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/models"
)

const (
	keyOrders    = "orders"
	keyLastOrder = "lastOrder"
)

// Service exposes order-management operations over the orders ledger plus
// the confirmation-view read of the last snapshot.
type Service interface {
	List(ctx context.Context) []models.OrderRecord
	Search(ctx context.Context, query string) []models.OrderRecord
	MarkShipped(ctx context.Context, orderNumber string) (models.OrderRecord, error)
	Remove(ctx context.Context, orderNumber string) error
	LastOrder(ctx context.Context) (models.OrderSnapshot, error)
}

// ServiceParams groups dependencies for the orders service.
type ServiceParams struct {
	Store   kv.Store
	Watcher kv.Watcher
	Logger  *logger.Logger
}

type service struct {
	store   kv.Store
	watcher kv.Watcher
	logg    *logger.Logger

	mu sync.Mutex
}

// NewService builds an orders service bound to the provided store.
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

// List returns every ledger record in insertion order. Records persisted
// without a status read as Pending.
func (s *service) List(ctx context.Context) []models.OrderRecord {
	records := s.load(ctx)
	for i := range records {
		if records[i].Status == "" {
			records[i].Status = enums.OrderStatusPending.String()
		}
	}
	return records
}

// Search filters the ledger by order number or customer name, both as
// case-insensitive substrings.
func (s *service) Search(ctx context.Context, query string) []models.OrderRecord {
	records := s.List(ctx)
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return records
	}

	matched := make([]models.OrderRecord, 0, len(records))
	for _, record := range records {
		customer := record.ShippingInfo.FirstName + " " + record.ShippingInfo.LastName
		if strings.Contains(strings.ToLower(record.OrderNumber), needle) ||
			strings.Contains(strings.ToLower(customer), needle) {
			matched = append(matched, record)
		}
	}
	return matched
}

// MarkShipped transitions one order to Shipped. Already-shipped orders stay
// shipped; the transition is idempotent.
func (s *service) MarkShipped(ctx context.Context, orderNumber string) (models.OrderRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	for i := range records {
		if records[i].OrderNumber != orderNumber {
			continue
		}
		records[i].Status = enums.OrderStatusShipped.String()
		if err := s.persist(ctx, records); err != nil {
			return models.OrderRecord{}, err
		}
		if s.logg != nil {
			s.logg.Info(s.logg.WithFields(ctx, map[string]any{
				"order_number": orderNumber,
			}), "orders.marked_shipped")
		}
		return records[i], nil
	}
	return models.OrderRecord{}, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

// Remove drops the order from the ledger. A missing order number is a
// no-op so repeated removes stay idempotent.
func (s *service) Remove(ctx context.Context, orderNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load(ctx)
	filtered := records[:0]
	removed := false
	for _, record := range records {
		if record.OrderNumber == orderNumber {
			removed = true
			continue
		}
		filtered = append(filtered, record)
	}
	if !removed {
		return nil
	}
	return s.persist(ctx, filtered)
}

// LastOrder returns the confirmation-view snapshot.
func (s *service) LastOrder(ctx context.Context) (models.OrderSnapshot, error) {
	var snapshot models.OrderSnapshot
	ok, err := kv.ReadJSON(ctx, s.store, keyLastOrder, &snapshot)
	if err != nil {
		return models.OrderSnapshot{}, err
	}
	if !ok {
		return models.OrderSnapshot{}, pkgerrors.New(pkgerrors.CodeNotFound, "no order has been placed")
	}
	return snapshot, nil
}

func (s *service) load(ctx context.Context) []models.OrderRecord {
	var records []models.OrderRecord
	if _, err := kv.ReadJSON(ctx, s.store, keyOrders, &records); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, keyOrders), "orders.read_failed")
		}
		return []models.OrderRecord{}
	}
	if records == nil {
		return []models.OrderRecord{}
	}
	return records
}

func (s *service) persist(ctx context.Context, records []models.OrderRecord) error {
	if err := kv.WriteJSON(ctx, s.store, keyOrders, records); err != nil {
		return err
	}
	if err := s.watcher.Notify(ctx, keyOrders); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, keyOrders), "orders.notify_failed")
	}
	return nil
}

package cart

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/metrics"
	"github.com/amatak/storefront-backend/pkg/models"
)

const storageKey = "cart"

const (
	defaultVariant = "default"
	placeholderImg = "/placeholder.svg"
)

type authChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// Candidate is the add-to-cart payload before defaults are applied.
type Candidate struct {
	ID            string
	Name          string
	Price         float64
	OriginalPrice *float64
	Image         string
	Color         string
	Size          string
	Category      string
	Quantity      int
	InStock       *bool
}

// Summary is the derived cart rollup. IsEmpty tracks line count, not item
// count.
type Summary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Savings   float64 `json:"savings"`
	IsEmpty   bool    `json:"isEmpty"`
}

// Service exposes cart operations over the stored cart record.
type Service interface {
	GetCart(ctx context.Context) []models.CartLine
	AddToCart(ctx context.Context, candidate Candidate) ([]models.CartLine, error)
	RemoveFromCart(ctx context.Context, id, color, size string) ([]models.CartLine, error)
	UpdateCartItemQuantity(ctx context.Context, id, color, size string, quantity int) ([]models.CartLine, error)
	GetCartSummary(ctx context.Context) Summary
	ClearCart(ctx context.Context) error
	Subscribe() (<-chan kv.Event, func())
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Store    kv.Store
	Watcher  kv.Watcher
	Sessions authChecker
	Logger   *logger.Logger
	Metrics  *metrics.StorefrontMetrics
}

type service struct {
	store    kv.Store
	watcher  kv.Watcher
	sessions authChecker
	logg     *logger.Logger
	metrics  *metrics.StorefrontMetrics

	// All read-modify-write cycles go through this mutex so two concurrent
	// mutations in the same process cannot clobber each other. Cross-process
	// writers still race; readers converge through the watcher signal.
	mu sync.Mutex
}

// NewService builds a cart service bound to the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Watcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watcher is required")
	}
	if params.Sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session service is required")
	}
	return &service{
		store:    params.Store,
		watcher:  params.Watcher,
		sessions: params.Sessions,
		logg:     params.Logger,
		metrics:  params.Metrics,
	}, nil
}

// GetCart returns the stored lines in insertion order. It never fails:
// missing or malformed records read as an empty cart, logged only.
func (s *service) GetCart(ctx context.Context) []models.CartLine {
	return s.load(ctx)
}

// AddToCart validates the candidate and merges it into the cart. Lines
// sharing the (id, color, size) key merge additively; new lines append.
func (s *service) AddToCart(ctx context.Context, candidate Candidate) ([]models.CartLine, error) {
	if !s.sessions.IsAuthenticated(ctx) {
		s.metrics.IncCartFailure("add")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in before adding to cart")
	}
	if err := validateCandidate(candidate); err != nil {
		s.metrics.IncCartFailure("add")
		return nil, err
	}

	quantity := candidate.Quantity
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	key := models.LineKey{
		ID:    candidate.ID,
		Color: defaulted(candidate.Color),
		Size:  defaulted(candidate.Size),
	}

	merged := false
	for i := range lines {
		if key.Matches(lines[i]) {
			lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, newLine(candidate, key, quantity))
	}

	if err := s.persist(ctx, lines); err != nil {
		s.metrics.IncCartFailure("add")
		return nil, err
	}
	s.metrics.IncCartOp("add")
	return lines, nil
}

// RemoveFromCart drops at most one line matching the key. No match is a
// no-op, not an error.
func (s *service) RemoveFromCart(ctx context.Context, id, color, size string) ([]models.CartLine, error) {
	key := models.LineKey{ID: id, Color: defaulted(color), Size: defaulted(size)}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	for i := range lines {
		if key.Matches(lines[i]) {
			lines = append(lines[:i], lines[i+1:]...)
			if err := s.persist(ctx, lines); err != nil {
				s.metrics.IncCartFailure("remove")
				return nil, err
			}
			s.metrics.IncCartOp("remove")
			return lines, nil
		}
	}
	return lines, nil
}

// UpdateCartItemQuantity sets the line's quantity, floored at 1. A missing
// line is NOT_FOUND.
func (s *service) UpdateCartItemQuantity(ctx context.Context, id, color, size string, quantity int) ([]models.CartLine, error) {
	if quantity < 1 {
		quantity = 1
	}
	key := models.LineKey{ID: id, Color: defaulted(color), Size: defaulted(size)}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.load(ctx)
	for i := range lines {
		if key.Matches(lines[i]) {
			lines[i].Quantity = quantity
			if err := s.persist(ctx, lines); err != nil {
				s.metrics.IncCartFailure("update_quantity")
				return nil, err
			}
			s.metrics.IncCartOp("update_quantity")
			return lines, nil
		}
	}
	s.metrics.IncCartFailure("update_quantity")
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found in cart")
}

// GetCartSummary derives the rollup from the stored cart.
func (s *service) GetCartSummary(ctx context.Context) Summary {
	lines := s.load(ctx)

	itemCount := 0
	subtotal := decimal.Zero
	savings := decimal.Zero
	for _, line := range lines {
		qty := decimal.NewFromInt(int64(line.Quantity))
		itemCount += line.Quantity
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(qty))
		if line.OriginalPrice != nil && *line.OriginalPrice > line.Price {
			discount := decimal.NewFromFloat(*line.OriginalPrice).Sub(decimal.NewFromFloat(line.Price))
			savings = savings.Add(discount.Mul(qty))
		}
	}

	return Summary{
		ItemCount: itemCount,
		Subtotal:  subtotal.InexactFloat64(),
		Savings:   savings.InexactFloat64(),
		IsEmpty:   len(lines) == 0,
	}
}

// ClearCart deletes the stored record and notifies subscribers.
func (s *service) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, storageKey); err != nil {
		s.metrics.IncCartFailure("clear")
		return pkgerrors.Wrap(pkgerrors.CodeStorage, err, "clear cart")
	}
	s.notify(ctx)
	s.metrics.IncCartOp("clear")
	return nil
}

// Subscribe registers a listener for cart change notifications.
func (s *service) Subscribe() (<-chan kv.Event, func()) {
	return s.watcher.Subscribe(storageKey)
}

func (s *service) load(ctx context.Context) []models.CartLine {
	var lines []models.CartLine
	if _, err := kv.ReadJSON(ctx, s.store, storageKey, &lines); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, storageKey), "cart.read_failed")
		}
		return []models.CartLine{}
	}
	if lines == nil {
		return []models.CartLine{}
	}
	return lines
}

func (s *service) persist(ctx context.Context, lines []models.CartLine) error {
	if err := kv.WriteJSON(ctx, s.store, storageKey, lines); err != nil {
		return err
	}
	s.notify(ctx)
	return nil
}

func (s *service) notify(ctx context.Context) {
	if err := s.watcher.Notify(ctx, storageKey); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, storageKey), "cart.notify_failed")
	}
}

func validateCandidate(candidate Candidate) error {
	var err error
	if strings.TrimSpace(candidate.ID) == "" {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing id"))
	}
	if strings.TrimSpace(candidate.Name) == "" {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing name"))
	}
	if candidate.Price < 0 {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "price must be a non-negative number"))
	}
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart item")
}

func newLine(candidate Candidate, key models.LineKey, quantity int) models.CartLine {
	image := candidate.Image
	if image == "" {
		image = placeholderImg
	}
	inStock := true
	if candidate.InStock != nil {
		inStock = *candidate.InStock
	}
	return models.CartLine{
		ID:            key.ID,
		Name:          candidate.Name,
		Price:         candidate.Price,
		OriginalPrice: candidate.OriginalPrice,
		Image:         image,
		Color:         key.Color,
		Size:          key.Size,
		Quantity:      quantity,
		Category:      candidate.Category,
		InStock:       inStock,
		AddedAt:       time.Now().UTC(),
	}
}

func defaulted(variant string) string {
	if variant == "" {
		return defaultVariant
	}
	return variant
}

package checkout

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amatak/storefront-backend/pkg/config"
	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/metrics"
	"github.com/amatak/storefront-backend/pkg/models"
)

const (
	keyLastOrder = "lastOrder"
	keyOrders    = "orders"
)

// Shipping method selectors. Anything unrecognized prices as standard.
const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

type cartService interface {
	GetCart(ctx context.Context) []models.CartLine
	ClearCart(ctx context.Context) error
}

type stockService interface {
	DecrementStock(ctx context.Context, lines []models.CartLine) error
}

// PlaceOrderInput carries the review-step form state.
type PlaceOrderInput struct {
	ShippingInfo   models.ShippingInfo
	PaymentInfo    models.PaymentInfo
	ShippingMethod string
}

// Totals is the priced-out cart the review step displays.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Service drives the checkout flow and order placement.
type Service interface {
	Step() enums.CheckoutStep
	Advance() (enums.CheckoutStep, error)
	Back() (enums.CheckoutStep, error)
	Reset() enums.CheckoutStep
	Quote(ctx context.Context, shippingMethod string) Totals
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (models.OrderSnapshot, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Store      kv.Store
	Watcher    kv.Watcher
	Cart       cartService
	Stock      stockService
	Authorizer Authorizer
	Config     config.CheckoutConfig
	Logger     *logger.Logger
	Metrics    *metrics.StorefrontMetrics
}

type service struct {
	store      kv.Store
	watcher    kv.Watcher
	cart       cartService
	stock      stockService
	authorizer Authorizer
	cfg        config.CheckoutConfig
	logg       *logger.Logger
	metrics    *metrics.StorefrontMetrics
	flow       *Flow
}

// NewService builds a checkout service bound to the provided stack.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Watcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watcher is required")
	}
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	if params.Stock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock service is required")
	}
	if params.Authorizer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "authorizer is required")
	}
	return &service{
		store:      params.Store,
		watcher:    params.Watcher,
		cart:       params.Cart,
		stock:      params.Stock,
		authorizer: params.Authorizer,
		cfg:        params.Config,
		logg:       params.Logger,
		metrics:    params.Metrics,
		flow:       NewFlow(),
	}, nil
}

func (s *service) Step() enums.CheckoutStep             { return s.flow.Step() }
func (s *service) Advance() (enums.CheckoutStep, error) { return s.flow.Advance() }
func (s *service) Back() (enums.CheckoutStep, error)    { return s.flow.Back() }
func (s *service) Reset() enums.CheckoutStep            { return s.flow.Reset() }

// Quote prices the current cart against a shipping method.
func (s *service) Quote(ctx context.Context, shippingMethod string) Totals {
	return s.totals(s.cart.GetCart(ctx), shippingMethod)
}

// PlaceOrder finishes a checkout from the review step: validates the forms,
// runs the simulated authorization, snapshots the order, decrements stock
// best-effort, appends to the orders ledger and clears the cart.
func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (models.OrderSnapshot, error) {
	if err := ValidateShipping(input.ShippingInfo); err != nil {
		return models.OrderSnapshot{}, err
	}
	if err := ValidatePayment(input.PaymentInfo); err != nil {
		return models.OrderSnapshot{}, err
	}

	lines := s.cart.GetCart(ctx)
	if len(lines) == 0 {
		return models.OrderSnapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.flow.complete(); err != nil {
		return models.OrderSnapshot{}, err
	}

	method := input.ShippingMethod
	if method == "" {
		method = ShippingStandard
	}
	totals := s.totals(lines, method)

	if err := s.authorizer.Authorize(ctx, input.PaymentInfo, totals.Total); err != nil {
		s.flow.Reset()
		return models.OrderSnapshot{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "authorize payment")
	}

	snapshot := models.OrderSnapshot{
		OrderNumber:    newOrderNumber(),
		Date:           time.Now().UTC(),
		ShippingInfo:   input.ShippingInfo,
		PaymentInfo:    input.PaymentInfo,
		ShippingMethod: method,
		CartItems:      lines,
		Subtotal:       totals.Subtotal,
		Shipping:       totals.Shipping,
		Tax:            totals.Tax,
		Total:          totals.Total,
	}

	// The snapshot stores the card fields unredacted to keep the historical
	// record shape. Loudly flagged: this is simulation scaffolding, not a
	// pattern for real payment data.
	if s.logg != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"order_number": snapshot.OrderNumber,
		}), "checkout.plaintext_payment_persisted")
	}

	if err := s.stock.DecrementStock(ctx, lines); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "checkout.stock_decrement_failed")
	}

	if err := kv.WriteJSON(ctx, s.store, keyLastOrder, snapshot); err != nil {
		return models.OrderSnapshot{}, err
	}
	s.notify(ctx, keyLastOrder)

	if err := s.appendLedger(ctx, snapshot); err != nil {
		return models.OrderSnapshot{}, err
	}

	if err := s.cart.ClearCart(ctx); err != nil {
		return models.OrderSnapshot{}, err
	}

	s.metrics.IncOrderPlaced()
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"order_number": snapshot.OrderNumber,
			"total":        snapshot.Total,
		}), "checkout.order_placed")
	}
	return snapshot, nil
}

func (s *service) totals(lines []models.CartLine, shippingMethod string) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	shipping := decimal.NewFromFloat(s.shippingPrice(shippingMethod))
	tax := subtotal.Mul(decimal.NewFromFloat(s.cfg.TaxRate))
	total := subtotal.Add(shipping).Add(tax)

	return Totals{
		Subtotal: subtotal.InexactFloat64(),
		Shipping: shipping.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
	}
}

func (s *service) shippingPrice(method string) float64 {
	switch method {
	case ShippingExpress:
		return s.cfg.ExpressShipping
	case ShippingOvernight:
		return s.cfg.OvernightShipping
	default:
		return s.cfg.StandardShipping
	}
}

func (s *service) appendLedger(ctx context.Context, snapshot models.OrderSnapshot) error {
	var records []models.OrderRecord
	if _, err := kv.ReadJSON(ctx, s.store, keyOrders, &records); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, keyOrders), "checkout.ledger_read_failed")
		}
		records = nil
	}
	records = append(records, models.OrderRecord{
		OrderSnapshot: snapshot,
		Status:        enums.OrderStatusPending.String(),
	})
	if err := kv.WriteJSON(ctx, s.store, keyOrders, records); err != nil {
		return err
	}
	s.notify(ctx, keyOrders)
	return nil
}

func (s *service) notify(ctx context.Context, key string) {
	if err := s.watcher.Notify(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, key), "checkout.notify_failed")
	}
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD%d", 100000+rand.Intn(900000))
}

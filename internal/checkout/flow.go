package checkout

import (
	"sync"

	"github.com/amatak/storefront-backend/pkg/enums"
	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
)

// Flow is the checkout step machine: shipping, payment, review, placed.
// It lives in memory only; a restart resets to shipping, matching the
// storefront's reload behavior.
type Flow struct {
	mu   sync.Mutex
	step enums.CheckoutStep
}

// NewFlow starts a flow at the shipping step.
func NewFlow() *Flow {
	return &Flow{step: enums.CheckoutStepShipping}
}

// Step returns the current step.
func (f *Flow) Step() enums.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.step
}

// Advance moves one step forward. Review only leaves via PlaceOrder.
func (f *Flow) Advance() (enums.CheckoutStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case enums.CheckoutStepShipping:
		f.step = enums.CheckoutStepPayment
	case enums.CheckoutStepPayment:
		f.step = enums.CheckoutStepReview
	default:
		return f.step, pkgerrors.New(pkgerrors.CodeConflict, "cannot advance past "+f.step.String())
	}
	return f.step, nil
}

// Back moves one step backward. Shipping is the floor; a placed order
// cannot be reopened.
func (f *Flow) Back() (enums.CheckoutStep, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.step {
	case enums.CheckoutStepPayment:
		f.step = enums.CheckoutStepShipping
	case enums.CheckoutStepReview:
		f.step = enums.CheckoutStepPayment
	default:
		return f.step, pkgerrors.New(pkgerrors.CodeConflict, "cannot go back from "+f.step.String())
	}
	return f.step, nil
}

// Reset returns to the shipping step from anywhere.
func (f *Flow) Reset() enums.CheckoutStep {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.step = enums.CheckoutStepShipping
	return f.step
}

// complete transitions review to placed. Only PlaceOrder calls this.
func (f *Flow) complete() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.step != enums.CheckoutStepReview {
		return pkgerrors.New(pkgerrors.CodeConflict, "order can only be placed from the review step")
	}
	f.step = enums.CheckoutStepPlaced
	return nil
}

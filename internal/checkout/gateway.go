package checkout

import (
	"context"
	"time"

	"github.com/amatak/storefront-backend/pkg/models"
)

// Authorizer stands in for a payment gateway.
type Authorizer interface {
	Authorize(ctx context.Context, payment models.PaymentInfo, amount float64) error
}

// simulatedGateway approves every charge after a fixed delay, the same way
// the storefront faked its async payment call. It never contacts a real
// authority.
type simulatedGateway struct {
	delay time.Duration
}

// NewSimulatedGateway builds the always-approve authorizer.
func NewSimulatedGateway(delay time.Duration) Authorizer {
	return &simulatedGateway{delay: delay}
}

func (g *simulatedGateway) Authorize(ctx context.Context, _ models.PaymentInfo, _ float64) error {
	if g.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

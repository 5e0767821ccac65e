package enums

import "fmt"

// CheckoutStep is one stage of the checkout flow. The flow only moves one
// step at a time and never persists across restarts.
type CheckoutStep string

const (
	CheckoutStepShipping CheckoutStep = "shipping"
	CheckoutStepPayment  CheckoutStep = "payment"
	CheckoutStepReview   CheckoutStep = "review"
	CheckoutStepPlaced   CheckoutStep = "placed"
)

var validCheckoutSteps = []CheckoutStep{
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepPlaced,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	for _, candidate := range validCheckoutSteps {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range validCheckoutSteps {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}

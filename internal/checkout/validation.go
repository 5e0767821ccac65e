package checkout

import (
	"regexp"
	"strings"

	"go.uber.org/multierr"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/models"
)

// Card checks are format-only simulation: no Luhn, no issuer lookup, no
// gateway. They gate the step transition and nothing else.
var (
	cardNumberPattern = regexp.MustCompile(`^[0-9]{16}$`)
	expiryPattern     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvPattern        = regexp.MustCompile(`^[0-9]{3}$`)
)

// ValidateShipping checks the shipping form for the required fields.
func ValidateShipping(info models.ShippingInfo) error {
	required := []struct {
		field string
		value string
	}{
		{"firstName", info.FirstName},
		{"lastName", info.LastName},
		{"email", info.Email},
		{"phone", info.Phone},
		{"address", info.Address},
		{"city", info.City},
		{"state", info.State},
		{"zipCode", info.ZipCode},
		{"country", info.Country},
	}

	var err error
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing "+r.field))
		}
	}
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping info")
}

// ValidatePayment checks the card fields against the simulated formats:
// 16-digit number, MM/YY expiry with month 01-12, 3-digit CVV.
func ValidatePayment(info models.PaymentInfo) error {
	var err error
	if !cardNumberPattern.MatchString(info.CardNumber) {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "card number must be 16 digits"))
	}
	if !expiryPattern.MatchString(info.ExpiryDate) {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "expiry must be MM/YY"))
	}
	if !cvvPattern.MatchString(info.CVV) {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "cvv must be 3 digits"))
	}
	if strings.TrimSpace(info.CardholderName) == "" {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing cardholder name"))
	}
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment info")
}

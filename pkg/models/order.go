package models

import "time"

// ShippingInfo is the checkout shipping form payload.
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

// PaymentInfo is the simulated payment form payload.
//
// These fields are persisted in plaintext inside OrderSnapshot to preserve
// the historical storage shape. That shape is insecure and must never be
// used as a template for real payment handling.
type PaymentInfo struct {
	CardNumber     string `json:"cardNumber"`
	ExpiryDate     string `json:"expiryDate"`
	CVV            string `json:"cvv"`
	CardholderName string `json:"cardholderName"`
	BillingAddress string `json:"billingAddress"`
}

// OrderSnapshot is the single record describing the most recently completed
// checkout. It overwrites any prior snapshot; there is no history.
type OrderSnapshot struct {
	OrderNumber    string       `json:"orderNumber"`
	Date           time.Time    `json:"date"`
	ShippingInfo   ShippingInfo `json:"shippingInfo"`
	PaymentInfo    PaymentInfo  `json:"paymentInfo"`
	ShippingMethod string       `json:"shippingMethod"`
	CartItems      []CartLine   `json:"cartItems"`
	Subtotal       float64      `json:"subtotal"`
	Shipping       float64      `json:"shipping"`
	Tax            float64      `json:"tax"`
	Total          float64      `json:"total"`
}

// OrderRecord is an order-management ledger entry: a snapshot plus status.
type OrderRecord struct {
	OrderSnapshot
	Status string `json:"status"`
}

package models

import "time"

// CartLine is one product+variant+quantity entry in the stored cart.
// Identity key is (ID, Color, Size); two lines never share a key.
type CartLine struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Image         string    `json:"image"`
	Color         string    `json:"color"`
	Size          string    `json:"size"`
	Quantity      int       `json:"quantity"`
	Category      string    `json:"category"`
	InStock       bool      `json:"inStock"`
	AddedAt       time.Time `json:"addedAt"`
}

// Key returns the line's identity triple.
func (l CartLine) Key() LineKey {
	return LineKey{ID: l.ID, Color: l.Color, Size: l.Size}
}

// LineKey identifies a cart line.
type LineKey struct {
	ID    string
	Color string
	Size  string
}

// Matches reports whether the line carries this key.
func (k LineKey) Matches(l CartLine) bool {
	return l.ID == k.ID && l.Color == k.Color && l.Size == k.Size
}

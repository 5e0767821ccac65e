package models

import "encoding/json"

// Product is a catalog entry. The same shape is stored under both the
// staticProducts and adminProducts keys.
type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Category      string    `json:"category"`
	Subcategory   string    `json:"subcategory,omitempty"`
	Image         string    `json:"image"`
	Description   string    `json:"description,omitempty"`
	Rating        float64   `json:"rating"`
	ReviewCount   int       `json:"reviewCount"`
	Sizes         []string  `json:"sizes,omitempty"`
	Colors        ColorList `json:"colors,omitempty"`
	Quantity      int       `json:"quantity"`
	InStock       bool      `json:"inStock"`
}

// ProductColor is one color variant.
type ProductColor struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
	Image string `json:"image,omitempty"`
}

// ColorList tolerates the two historical wire forms for product colors:
// an array of objects or a bare array of color names.
type ColorList []ProductColor

func (c *ColorList) UnmarshalJSON(data []byte) error {
	var objects []ProductColor
	if err := json.Unmarshal(data, &objects); err == nil {
		*c = objects
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	colors := make([]ProductColor, 0, len(names))
	for _, name := range names {
		colors = append(colors, ProductColor{Name: name})
	}
	*c = colors
	return nil
}

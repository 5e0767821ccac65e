package catalog

import "github.com/amatak/storefront-backend/pkg/models"

func floatPtr(v float64) *float64 { return &v }

// seedProducts is the built-in catalog shipped with the storefront. It is
// never written back verbatim; edits materialize under the staticProducts
// key and overlay these entries at read time.
func seedProducts() []models.Product {
	return []models.Product{
		{
			ID:            "1",
			Name:          "Air Runner Pro",
			Price:         129.99,
			OriginalPrice: floatPtr(159.99),
			Brand:         "Nike",
			Category:      "Footwear",
			Subcategory:   "Sneakers",
			Image:         "/products/air-runner-pro.jpg",
			Description:   "Lightweight mesh runner with responsive foam cushioning.",
			Rating:        4.5,
			ReviewCount:   128,
			Sizes:         []string{"7", "8", "9", "10", "11"},
			Colors: models.ColorList{
				{Name: "Black", Value: "#000000", Image: "/products/air-runner-pro-black.jpg"},
				{Name: "White", Value: "#ffffff", Image: "/products/air-runner-pro-white.jpg"},
			},
			Quantity: 25,
			InStock:  true,
		},
		{
			ID:          "2",
			Name:        "Classic Court",
			Price:       89.99,
			Brand:       "Adidas",
			Category:    "Footwear",
			Subcategory: "Sneakers",
			Image:       "/products/classic-court.jpg",
			Description: "Everyday leather court shoe with a rubber cupsole.",
			Rating:      4.2,
			ReviewCount: 86,
			Sizes:       []string{"6", "7", "8", "9", "10", "11", "12"},
			Colors: models.ColorList{
				{Name: "White", Value: "#ffffff", Image: "/products/classic-court-white.jpg"},
			},
			Quantity: 40,
			InStock:  true,
		},
		{
			ID:            "3",
			Name:          "Trail Blazer Boot",
			Price:         149.99,
			OriginalPrice: floatPtr(199.99),
			Brand:         "New Balance",
			Category:      "Footwear",
			Subcategory:   "Boots",
			Image:         "/products/trail-blazer-boot.jpg",
			Description:   "Waterproof hiking boot with aggressive lug outsole.",
			Rating:        4.7,
			ReviewCount:   54,
			Sizes:         []string{"8", "9", "10", "11"},
			Quantity:      12,
			InStock:       true,
		},
		{
			ID:          "4",
			Name:        "Everyday Tee",
			Price:       24.99,
			Brand:       "Puma",
			Category:    "Apparel",
			Subcategory: "T-Shirts",
			Image:       "/products/everyday-tee.jpg",
			Description: "Soft cotton crew neck in regular fit.",
			Rating:      4.0,
			ReviewCount: 212,
			Sizes:       []string{"S", "M", "L", "XL"},
			Colors: models.ColorList{
				{Name: "Navy", Value: "#1f2a44"},
				{Name: "Grey", Value: "#9aa0a6"},
			},
			Quantity: 80,
			InStock:  true,
		},
		{
			ID:            "5",
			Name:          "Windbreak Jacket",
			Price:         69.99,
			OriginalPrice: floatPtr(99.99),
			Brand:         "Under Armour",
			Category:      "Apparel",
			Subcategory:   "Jackets",
			Image:         "/products/windbreak-jacket.jpg",
			Description:   "Packable windbreaker with zip pockets and hood.",
			Rating:        4.4,
			ReviewCount:   67,
			Sizes:         []string{"S", "M", "L", "XL"},
			Quantity:      30,
			InStock:       true,
		},
		{
			ID:          "6",
			Name:        "Daypack 20L",
			Price:       49.99,
			Brand:       "Vans",
			Category:    "Accessories",
			Subcategory: "Bags",
			Image:       "/products/daypack-20l.jpg",
			Description: "20 liter daypack with padded laptop sleeve.",
			Rating:      4.3,
			ReviewCount: 95,
			Sizes:       []string{"One Size"},
			Quantity:    18,
			InStock:     true,
		},
	}
}

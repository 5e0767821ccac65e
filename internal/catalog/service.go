package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	pkgerrors "github.com/amatak/storefront-backend/pkg/errors"
	"github.com/amatak/storefront-backend/pkg/kv"
	"github.com/amatak/storefront-backend/pkg/logger"
	"github.com/amatak/storefront-backend/pkg/models"
)

// Storage keys. The static set materializes lazily: reads fall back to the
// built-in seed catalog until the first edit writes the key.
const (
	keyStaticProducts = "staticProducts"
	keyAdminProducts  = "adminProducts"
)

// NewProduct is the admin add/edit payload. DiscountPercent derives the sale
// price from the entered price, which becomes originalPrice.
type NewProduct struct {
	Name            string
	Price           float64
	Brand           string
	Category        string
	Subcategory     string
	Image           string
	Description     string
	Quantity        int
	DiscountPercent float64
}

// Service exposes the merged catalog: seed products overlaid by persisted
// static edits, concatenated with admin-added products.
type Service interface {
	List(ctx context.Context) []models.Product
	Get(ctx context.Context, id string) (models.Product, error)
	Search(ctx context.Context, query string) []models.Product
	AddAdminProduct(ctx context.Context, input NewProduct) (models.Product, error)
	UpdateAdminProduct(ctx context.Context, id string, input NewProduct) (models.Product, error)
	SetQuantity(ctx context.Context, id string, quantity int) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	DecrementStock(ctx context.Context, lines []models.CartLine) error
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Store   kv.Store
	Watcher kv.Watcher
	Logger  *logger.Logger
}

type service struct {
	store   kv.Store
	watcher kv.Watcher
	logg    *logger.Logger

	mu sync.Mutex
}

// NewService builds a catalog service bound to the provided store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if params.Watcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "watcher is required")
	}
	return &service{
		store:   params.Store,
		watcher: params.Watcher,
		logg:    params.Logger,
	}, nil
}

// List concatenates the static set and the admin set in that order. The two
// sets share one id namespace only by convention; collisions are logged, not
// repaired.
func (s *service) List(ctx context.Context) []models.Product {
	static := s.loadStatic(ctx)
	admin := s.loadAdmin(ctx)

	seen := make(map[string]struct{}, len(static))
	for _, p := range static {
		seen[p.ID] = struct{}{}
	}
	for _, p := range admin {
		if _, dup := seen[p.ID]; dup && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": p.ID,
			}), "catalog.id_collision")
		}
	}

	all := make([]models.Product, 0, len(static)+len(admin))
	all = append(all, static...)
	all = append(all, admin...)
	return all
}

// Get returns the first product with the given id across both sets.
func (s *service) Get(ctx context.Context, id string) (models.Product, error) {
	for _, p := range s.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// Search filters the merged catalog by a case-insensitive substring over
// name, brand and description. A blank query returns everything.
func (s *service) Search(ctx context.Context, query string) []models.Product {
	all := s.List(ctx)
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return all
	}

	matched := make([]models.Product, 0, len(all))
	for _, p := range all {
		if strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Brand), needle) ||
			strings.Contains(strings.ToLower(p.Description), needle) {
			matched = append(matched, p)
		}
	}
	return matched
}

// AddAdminProduct validates and appends a product to the admin set.
func (s *service) AddAdminProduct(ctx context.Context, input NewProduct) (models.Product, error) {
	if err := validateInput(input); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	product := buildProduct(uuid.NewString(), input)

	admin := s.loadAdmin(ctx)
	for _, p := range admin {
		if p.ID == product.ID {
			return models.Product{}, pkgerrors.New(pkgerrors.CodeConflict, "product id already exists")
		}
	}
	for _, p := range s.loadStatic(ctx) {
		if p.ID == product.ID && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"product_id": p.ID,
			}), "catalog.id_collision")
		}
	}

	admin = append(admin, product)
	if err := s.persist(ctx, keyAdminProducts, admin); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

// UpdateAdminProduct replaces the editable fields of an admin product.
func (s *service) UpdateAdminProduct(ctx context.Context, id string, input NewProduct) (models.Product, error) {
	if err := validateInput(input); err != nil {
		return models.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	admin := s.loadAdmin(ctx)
	for i := range admin {
		if admin[i].ID != id {
			continue
		}
		updated := buildProduct(id, input)
		updated.Rating = admin[i].Rating
		updated.ReviewCount = admin[i].ReviewCount
		updated.Sizes = admin[i].Sizes
		updated.Colors = admin[i].Colors
		admin[i] = updated
		if err := s.persist(ctx, keyAdminProducts, admin); err != nil {
			return models.Product{}, err
		}
		return admin[i], nil
	}
	return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// SetQuantity updates stock on hand wherever the id lives. Editing a seed
// product materializes the static set under its storage key so the edit
// survives restarts.
func (s *service) SetQuantity(ctx context.Context, id string, quantity int) (models.Product, error) {
	if quantity < 0 {
		quantity = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	static := s.loadStatic(ctx)
	for i := range static {
		if static[i].ID == id {
			static[i].Quantity = quantity
			static[i].InStock = quantity > 0
			if err := s.persist(ctx, keyStaticProducts, static); err != nil {
				return models.Product{}, err
			}
			return static[i], nil
		}
	}

	admin := s.loadAdmin(ctx)
	for i := range admin {
		if admin[i].ID == id {
			admin[i].Quantity = quantity
			admin[i].InStock = quantity > 0
			if err := s.persist(ctx, keyAdminProducts, admin); err != nil {
				return models.Product{}, err
			}
			return admin[i], nil
		}
	}
	return models.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

// DeleteProduct removes the id from both sets. A missing id is a no-op so
// repeated deletes stay idempotent.
func (s *service) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	static := s.loadStatic(ctx)
	if filtered, removed := without(static, id); removed {
		if err := s.persist(ctx, keyStaticProducts, filtered); err != nil {
			return err
		}
	}

	admin := s.loadAdmin(ctx)
	if filtered, removed := without(admin, id); removed {
		if err := s.persist(ctx, keyAdminProducts, filtered); err != nil {
			return err
		}
	}
	return nil
}

// DecrementStock subtracts ordered quantities from matching admin products.
// Floors at zero and flips inStock when stock runs out. Ids missing from the
// admin set are left untouched.
func (s *service) DecrementStock(ctx context.Context, lines []models.CartLine) error {
	ordered := make(map[string]int, len(lines))
	for _, line := range lines {
		ordered[line.ID] += line.Quantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	admin := s.loadAdmin(ctx)
	changed := false
	for i := range admin {
		qty, ok := ordered[admin[i].ID]
		if !ok {
			continue
		}
		remaining := admin[i].Quantity - qty
		if remaining < 0 {
			remaining = 0
		}
		admin[i].Quantity = remaining
		admin[i].InStock = remaining > 0
		changed = true
	}
	if !changed {
		return nil
	}
	return s.persist(ctx, keyAdminProducts, admin)
}

func (s *service) loadStatic(ctx context.Context) []models.Product {
	var products []models.Product
	ok, err := kv.ReadJSON(ctx, s.store, keyStaticProducts, &products)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, keyStaticProducts), "catalog.read_failed")
		}
		return seedProducts()
	}
	if !ok {
		return seedProducts()
	}
	if products == nil {
		return []models.Product{}
	}
	return products
}

func (s *service) loadAdmin(ctx context.Context) []models.Product {
	var products []models.Product
	if _, err := kv.ReadJSON(ctx, s.store, keyAdminProducts, &products); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithStorageKey(ctx, keyAdminProducts), "catalog.read_failed")
		}
		return []models.Product{}
	}
	if products == nil {
		return []models.Product{}
	}
	return products
}

func (s *service) persist(ctx context.Context, key string, products []models.Product) error {
	if err := kv.WriteJSON(ctx, s.store, key, products); err != nil {
		return err
	}
	if err := s.watcher.Notify(ctx, key); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithStorageKey(ctx, key), "catalog.notify_failed")
	}
	return nil
}

func validateInput(input NewProduct) error {
	var err error
	if strings.TrimSpace(input.Name) == "" {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing name"))
	}
	if input.Price <= 0 {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive"))
	}
	if strings.TrimSpace(input.Category) == "" {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "missing category"))
	}
	if input.Quantity < 1 {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
	}
	if input.DiscountPercent < 0 || input.DiscountPercent >= 100 {
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, "discount must be between 0 and 100"))
	}
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
}

func buildProduct(id string, input NewProduct) models.Product {
	price := input.Price
	var original *float64
	if input.DiscountPercent > 0 && input.DiscountPercent < 100 {
		entered := decimal.NewFromFloat(input.Price)
		factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(input.DiscountPercent)).Div(decimal.NewFromInt(100))
		price = entered.Mul(factor).Round(2).InexactFloat64()
		original = floatPtr(input.Price)
	}

	brand := input.Brand
	if brand == "" {
		brand = "Other"
	}
	image := input.Image
	if image == "" {
		image = "/placeholder.svg"
	}

	return models.Product{
		ID:            id,
		Name:          input.Name,
		Price:         price,
		OriginalPrice: original,
		Brand:         brand,
		Category:      input.Category,
		Subcategory:   input.Subcategory,
		Image:         image,
		Description:   input.Description,
		Rating:        5,
		ReviewCount:   0,
		Sizes:         []string{"M"},
		Quantity:      input.Quantity,
		InStock:       true,
	}
}

func without(products []models.Product, id string) ([]models.Product, bool) {
	filtered := products[:0]
	removed := false
	for _, p := range products {
		if p.ID == id {
			removed = true
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, removed
}

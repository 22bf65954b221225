// Package products implements the product repository: CRUD operations
// over the in-memory products collection mirrored to an injected
// persistence backend.
package products

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sync"

	"github.com/patric-chuzhbe/storeapi/internal/logger"
	"github.com/patric-chuzhbe/storeapi/internal/product"
)

const (
	triesToGenerateUniqueID = 10

	// maxProductID keeps generated IDs inside the range JavaScript
	// clients can represent exactly.
	maxProductID = 1 << 53
)

// ErrUniqueIDExhausted is returned by Create when every generated
// candidate ID collided with an existing record.
var ErrUniqueIDExhausted = errors.New("the number of attempts to generate a unique product ID has been exceeded")

type persister interface {
	Load(dest interface{}) error
	Save(data interface{}) error
}

// Update describes a partial product mutation. Zero-valued fields
// keep the stored values.
type Update struct {
	Name        string
	Price       float64
	Description string
	ImageURL    string
	Unit        string
}

// Repository owns the products collection. The collection is loaded
// once at construction and written back after every mutation.
type Repository struct {
	db       persister
	mu       sync.RWMutex
	products map[int64]product.Product
}

// New loads the collection from db. A missing or unparsable backing
// store is non-fatal: the repository starts empty and logs the cause.
func New(db persister) *Repository {
	repo := &Repository{
		db:       db,
		products: map[int64]product.Product{},
	}

	if err := db.Load(&repo.products); err != nil {
		logger.Log.Infoln("starting with an empty products collection:", err)
		repo.products = map[int64]product.Product{}
	}

	return repo
}

// FindAll returns all products in unspecified order.
func (r *Repository) FindAll(ctx context.Context) ([]product.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]product.Product, 0, len(r.products))
	for _, prd := range r.products {
		all = append(all, prd)
	}

	return all, nil
}

// FindOne looks a product up by ID.
func (r *Repository) FindOne(ctx context.Context, id int64) (product.Product, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	prd, found := r.products[id]

	return prd, found, nil
}

// Create assigns a fresh unique numeric ID, inserts the record and
// persists the collection.
func (r *Repository) Create(ctx context.Context, name string, price float64, description, imageURL, unit string) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.generateUniqueID()
	if err != nil {
		return product.Product{}, err
	}

	prd := product.Product{
		ID:          id,
		Name:        name,
		Price:       price,
		Description: description,
		ImageURL:    imageURL,
		Unit:        unit,
	}
	r.products[id] = prd

	if err := r.db.Save(r.products); err != nil {
		return product.Product{}, err
	}

	return prd, nil
}

// Update shallow-merges upd over the stored record. Returns false
// when the ID is unknown.
func (r *Repository) Update(ctx context.Context, id int64, upd Update) (product.Product, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prd, found := r.products[id]
	if !found {
		return product.Product{}, false, nil
	}

	if upd.Name != "" {
		prd.Name = upd.Name
	}
	if upd.Price != 0 {
		prd.Price = upd.Price
	}
	if upd.Description != "" {
		prd.Description = upd.Description
	}
	if upd.ImageURL != "" {
		prd.ImageURL = upd.ImageURL
	}
	if upd.Unit != "" {
		prd.Unit = upd.Unit
	}

	r.products[id] = prd

	if err := r.db.Save(r.products); err != nil {
		return product.Product{}, false, err
	}

	return prd, true, nil
}

// Remove deletes the record and persists the collection. Returns
// false when the ID is unknown; the collection is left untouched.
func (r *Repository) Remove(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.products[id]; !found {
		return false, nil
	}

	delete(r.products, id)

	if err := r.db.Save(r.products); err != nil {
		return false, err
	}

	return true, nil
}

// generateUniqueID retries on collision against the live collection.
// Callers must hold the write lock.
func (r *Repository) generateUniqueID() (int64, error) {
	for i := 0; i < triesToGenerateUniqueID; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(maxProductID-1))
		if err != nil {
			return 0, err
		}
		id := n.Int64() + 1
		if _, exists := r.products[id]; !exists {
			return id, nil
		}
	}

	return 0, ErrUniqueIDExhausted
}

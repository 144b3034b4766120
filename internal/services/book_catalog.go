package services

import (
	"context"
	"sync"

	"daylog/internal/aggregate"
	"daylog/internal/collection"
	"daylog/internal/domain"
	"daylog/internal/storage/local"
	"daylog/internal/validation"
)

// BooksKey is the local storage key of the catalog.
const BooksKey = "books"

// bookCatalogImpl implements the BookCatalog interface
type bookCatalogImpl struct {
	validator *validation.BookValidator
	opts      options
	books     *collection.Store[domain.Book]
	mu        sync.Mutex
}

// NewBookCatalog loads the catalog from local storage
func NewBookCatalog(store *local.Store, v *validation.Validator, opts ...Option) (BookCatalog, error) {
	o := newOptions(opts)
	books, err := local.LoadList[domain.Book](store, BooksKey)
	if err != nil {
		return nil, err
	}

	c := &bookCatalogImpl{
		validator: validation.NewBookValidator(v),
		opts:      o,
		books:     collection.New[domain.Book]("books", storeOptions(o, local.Persister[domain.Book](store, BooksKey))...),
	}
	c.books.Replace(books)
	return c, nil
}

// Add appends a book; every field is required and price must be positive
func (c *bookCatalogImpl) Add(ctx context.Context, title, author string, price float64, image string) (*domain.Book, error) {
	if err := c.validator.ValidateBook(title, author, price, image); err != nil {
		return nil, invalid("invalid book", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	created, err := c.books.Create(ctx, domain.NewBook(title, author, price, image, c.opts.now().UTC()))
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Remove deletes a book
func (c *bookCatalogImpl) Remove(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.books.Delete(ctx, id)
}

// List returns the catalog in insertion order
func (c *bookCatalogImpl) List() []domain.Book {
	return c.books.List(nil)
}

// Stats computes count, total and average price
func (c *bookCatalogImpl) Stats() aggregate.BookStats {
	return aggregate.Books(c.books.List(nil))
}

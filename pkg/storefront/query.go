package storefront

import (
	"context"
	"net/url"
	"strconv"
	"strings"
)

// withFilters appends an optional raw query string to path
func withFilters(path, filters string) string {
	filters = strings.TrimPrefix(filters, "?")
	if filters == "" {
		return path
	}
	return path + "?" + filters
}

// storeQueryBuilder implements StoreQueryBuilder
type storeQueryBuilder struct {
	service *storeService
	values  url.Values
}

// WithCategory filters by category
func (b *storeQueryBuilder) WithCategory(category string) StoreQueryBuilder {
	b.values.Set("category", category)
	return b
}

// Search sets a keyword filter
func (b *storeQueryBuilder) Search(keyword string) StoreQueryBuilder {
	b.values.Set("search", keyword)
	return b
}

// Page selects a result page
func (b *storeQueryBuilder) Page(page int) StoreQueryBuilder {
	b.values.Set("page", strconv.Itoa(page))
	return b
}

// Limit sets the page size
func (b *storeQueryBuilder) Limit(limit int) StoreQueryBuilder {
	b.values.Set("limit", strconv.Itoa(limit))
	return b
}

// Encode renders the filter query string
func (b *storeQueryBuilder) Encode() string {
	return b.values.Encode()
}

// Execute runs the query
func (b *storeQueryBuilder) Execute(ctx context.Context) ([]*Store, error) {
	return b.service.List(ctx, b.Encode())
}

// productQueryBuilder implements ProductQueryBuilder
type productQueryBuilder struct {
	service *productService
	values  url.Values
}

// WithCategory filters by category
func (b *productQueryBuilder) WithCategory(category string) ProductQueryBuilder {
	b.values.Set("category", category)
	return b
}

// WithStore filters by owning store
func (b *productQueryBuilder) WithStore(storeID string) ProductQueryBuilder {
	b.values.Set("store", storeID)
	return b
}

// WithMinPrice sets the lower price bound
func (b *productQueryBuilder) WithMinPrice(price float64) ProductQueryBuilder {
	b.values.Set("minPrice", strconv.FormatFloat(price, 'f', -1, 64))
	return b
}

// WithMaxPrice sets the upper price bound
func (b *productQueryBuilder) WithMaxPrice(price float64) ProductQueryBuilder {
	b.values.Set("maxPrice", strconv.FormatFloat(price, 'f', -1, 64))
	return b
}

// Search sets a keyword filter
func (b *productQueryBuilder) Search(keyword string) ProductQueryBuilder {
	b.values.Set("search", keyword)
	return b
}

// SortBy sets the sort order, e.g. "price" or "-createdAt"
func (b *productQueryBuilder) SortBy(sort string) ProductQueryBuilder {
	b.values.Set("sort", sort)
	return b
}

// Page selects a result page
func (b *productQueryBuilder) Page(page int) ProductQueryBuilder {
	b.values.Set("page", strconv.Itoa(page))
	return b
}

// Limit sets the page size
func (b *productQueryBuilder) Limit(limit int) ProductQueryBuilder {
	b.values.Set("limit", strconv.Itoa(limit))
	return b
}

// Encode renders the filter query string
func (b *productQueryBuilder) Encode() string {
	return b.values.Encode()
}

// Execute runs the query
func (b *productQueryBuilder) Execute(ctx context.Context) ([]*Product, error) {
	return b.service.List(ctx, b.Encode())
}

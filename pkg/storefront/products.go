package storefront

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// productService implements the ProductService interface
type productService struct {
	client *Client
}

// Create lists a new product
func (s *productService) Create(ctx context.Context, params *CreateProductParams) (*Product, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "product params are required")
	}

	// The backend expects an array even when no images were uploaded
	body := *params
	if body.Images == nil {
		body.Images = []string{}
	}

	var product Product
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/products",
		Body:   &body,
	}, &product); err != nil {
		return nil, errors.Wrap(err, "failed to create product")
	}

	return &product, nil
}

// List retrieves products matching an optional raw filter query string
func (s *productService) List(ctx context.Context, filters string) ([]*Product, error) {
	var products []*Product
	if err := s.client.do(ctx, &Request{Path: withFilters("/products", filters)}, &products); err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// Query returns a product filter builder
func (s *productService) Query() ProductQueryBuilder {
	return &productQueryBuilder{
		service: s,
		values:  url.Values{},
	}
}

// Get retrieves a single product by ID
func (s *productService) Get(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := s.client.do(ctx, &Request{Path: productPath(productID)}, &product); err != nil {
		return nil, errors.Wrap(err, "failed to get product")
	}

	return &product, nil
}

// AddRating rates a product
func (s *productService) AddRating(ctx context.Context, productID string, rating int) (*Product, error) {
	var product Product
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   productPath(productID) + "/ratings",
		Body:   map[string]interface{}{"rating": rating},
	}, &product); err != nil {
		return nil, errors.Wrap(err, "failed to add rating")
	}

	return &product, nil
}

// AddComment comments on a product
func (s *productService) AddComment(ctx context.Context, productID, text string) (*Product, error) {
	var product Product
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   productPath(productID) + "/comments",
		Body:   map[string]interface{}{"text": text},
	}, &product); err != nil {
		return nil, errors.Wrap(err, "failed to add comment")
	}

	return &product, nil
}

func productPath(productID string) string {
	return "/products/" + url.PathEscape(productID)
}

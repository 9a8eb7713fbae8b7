package storefront

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// storeService implements the StoreService interface
type storeService struct {
	client *Client
}

// Create opens a store for the current user
func (s *storeService) Create(ctx context.Context, params *CreateStoreParams) (*Store, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "store params are required")
	}

	var store Store
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/stores",
		Body:   params,
	}, &store); err != nil {
		return nil, errors.Wrap(err, "failed to create store")
	}

	return &store, nil
}

// List retrieves stores matching an optional raw filter query string
func (s *storeService) List(ctx context.Context, filters string) ([]*Store, error) {
	var stores []*Store
	if err := s.client.do(ctx, &Request{Path: withFilters("/stores", filters)}, &stores); err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	return stores, nil
}

// Query returns a store filter builder
func (s *storeService) Query() StoreQueryBuilder {
	return &storeQueryBuilder{
		service: s,
		values:  url.Values{},
	}
}

// Get retrieves a single store by ID
func (s *storeService) Get(ctx context.Context, storeID string) (*Store, error) {
	var store Store
	if err := s.client.do(ctx, &Request{Path: "/stores/" + url.PathEscape(storeID)}, &store); err != nil {
		return nil, errors.Wrap(err, "failed to get store")
	}

	return &store, nil
}

// MyStore retrieves the current user's store
func (s *storeService) MyStore(ctx context.Context) (*Store, error) {
	var store Store
	if err := s.client.do(ctx, &Request{Path: "/stores/my-store"}, &store); err != nil {
		return nil, errors.Wrap(err, "failed to get my store")
	}

	return &store, nil
}

// MyStoreOrders retrieves orders placed with the current user's store
func (s *storeService) MyStoreOrders(ctx context.Context) ([]*Order, error) {
	var orders []*Order
	if err := s.client.do(ctx, &Request{Path: "/stores/my-store/orders"}, &orders); err != nil {
		return nil, errors.Wrap(err, "failed to get my store orders")
	}

	return orders, nil
}

// UpdateOrderStatus changes the status of an order placed with the current user's store
func (s *storeService) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	var order Order
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   "/stores/my-store/orders/" + url.PathEscape(orderID) + "/status",
		Body:   map[string]interface{}{"status": status},
	}, &order); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	return &order, nil
}

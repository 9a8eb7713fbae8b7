package storefront

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// adminService implements the AdminService interface
type adminService struct {
	client *Client
}

// Stats retrieves marketplace totals
func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := s.client.do(ctx, &Request{Path: "/stats"}, &stats); err != nil {
		return nil, errors.Wrap(err, "failed to get stats")
	}

	return &stats, nil
}

// Orders retrieves every order
func (s *adminService) Orders(ctx context.Context) ([]*Order, error) {
	var orders []*Order
	if err := s.client.do(ctx, &Request{Path: "/orders"}, &orders); err != nil {
		return nil, errors.Wrap(err, "failed to get orders")
	}

	return orders, nil
}

// UpdateOrderStatus changes the status of any order
func (s *adminService) UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error) {
	var order Order
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   "/orders/" + url.PathEscape(orderID) + "/status",
		Body:   map[string]interface{}{"status": status},
	}, &order); err != nil {
		return nil, errors.Wrap(err, "failed to update order status")
	}

	return &order, nil
}

// DeleteStore removes a store
func (s *adminService) DeleteStore(ctx context.Context, storeID string) error {
	if err := s.client.do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   "/stores/" + url.PathEscape(storeID),
	}, nil); err != nil {
		return errors.Wrap(err, "failed to delete store")
	}

	return nil
}

// DeleteProduct removes a product
func (s *adminService) DeleteProduct(ctx context.Context, productID string) error {
	if err := s.client.do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   productPath(productID),
	}, nil); err != nil {
		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

package storefront

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// orderService implements the OrderService interface
type orderService struct {
	client *Client
}

// Create places an order
func (s *orderService) Create(ctx context.Context, params *CreateOrderParams) (*Order, error) {
	if params == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "order params are required")
	}

	var order Order
	if err := s.client.do(ctx, &Request{
		Method: http.MethodPost,
		Path:   "/orders",
		Body:   params,
	}, &order); err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}

	return &order, nil
}

// MyOrders retrieves the current user's orders
func (s *orderService) MyOrders(ctx context.Context) ([]*Order, error) {
	var orders []*Order
	if err := s.client.do(ctx, &Request{Path: "/orders/my-orders"}, &orders); err != nil {
		return nil, errors.Wrap(err, "failed to get my orders")
	}

	return orders, nil
}

package storefront

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Stats(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, mock.MatchedBy(func(req *Request) bool {
		return req.Path == "/stats"
	}), mock.Anything).Return(`{"totalUsers":10,"totalStores":3,"totalProducts":42,"totalOrders":7,"totalRevenue":1234.5}`, nil)

	stats, err := client.Admin.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, stats.TotalUsers)
	assert.Equal(t, 42, stats.TotalProducts)
	assert.Equal(t, 1234.5, stats.TotalRevenue)
	mockTransport.AssertExpectations(t)
}

func TestAdminService_Orders(t *testing.T) {
	mockTransport := &MockTransport{}
	client := newMockClient(mockTransport)

	mockTransport.On("Do", mock.Anything, mock.MatchedBy(func(req *Request) bool {
		return req.Path == "/orders"
	}), mock.Anything).Return(`[{"_id":"o1"},{"_id":"o2"}]`, nil)

	orders, err := client.Admin.Orders(context.Background())
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	mockTransport.AssertExpectations(t)
}

func TestAdminService_Forbidden(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(http.MethodGet, "/stats", http.StatusForbidden, `{"message":"Not authorized as an admin"}`)

	client := backend.client(t, NewMemoryTokenStore("buyer-token"))

	_, err := client.Admin.Stats(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.True(t, IsAuthError(err))
	assert.Contains(t, err.Error(), "Not authorized as an admin")
}

func TestAdminService_UpdateOrderStatus(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(http.MethodPatch, "/orders/o7/status", http.StatusOK, `{"_id":"o7","status":"Delivered"}`)

	client := backend.client(t, NewMemoryTokenStore("admin-token"))

	order, err := client.Admin.UpdateOrderStatus(context.Background(), "o7", OrderDelivered)
	require.NoError(t, err)
	assert.Equal(t, OrderDelivered, order.Status)

	req := backend.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "Bearer admin-token", req.Auth)
	assert.JSONEq(t, `{"status":"Delivered"}`, string(req.Body))
}

func TestAdminService_Delete(t *testing.T) {
	backend := newFakeBackend(t)
	backend.respond(http.MethodDelete, "/stores/s1", http.StatusOK, `{"message":"Store removed"}`)
	backend.respond(http.MethodDelete, "/products/p1", http.StatusNoContent, ``)

	client := backend.client(t, NewMemoryTokenStore("admin-token"))
	ctx := context.Background()

	require.NoError(t, client.Admin.DeleteStore(ctx, "s1"))
	assert.Equal(t, http.MethodDelete, backend.last(t).Method)
	assert.Equal(t, "/stores/s1", backend.last(t).Path)

	require.NoError(t, client.Admin.DeleteProduct(ctx, "p1"))
	assert.Equal(t, "/products/p1", backend.last(t).Path)

	err := client.Admin.DeleteStore(ctx, "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "Route not found")
}

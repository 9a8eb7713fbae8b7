package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/souqly/storefront-go/pkg/storefront"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTools(t *testing.T, token string, routes map[string]string) (*storefrontTools, *[]string) {
	t.Helper()

	var uris []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uris = append(uris, strings.TrimPrefix(r.URL.RequestURI(), "/api"))
		body, ok := routes[r.Method+" "+strings.TrimPrefix(r.URL.Path, "/api")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Route not found"}`))
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client, err := storefront.NewClient(&storefront.ClientOptions{
		BaseURL:    server.URL + "/api",
		TokenStore: storefront.NewMemoryTokenStore(token),
	})
	require.NoError(t, err)
	require.NoError(t, client.Session.Initialize(context.Background()))

	return &storefrontTools{client: client}, &uris
}

func TestListProductsTool(t *testing.T) {
	tools, uris := newTestTools(t, "", map[string]string{
		"GET /products": `[{"_id":"p1","name":"Saffron","price":9.5,"store":{"_id":"s1","name":"Spice House"}},{"_id":"p2","name":"Cumin","store":"s2"}]`,
	})

	_, output, err := tools.ListProducts(context.Background(), nil, ListProductsInput{Category: "spices", MaxPrice: 20})
	require.NoError(t, err)

	assert.Equal(t, 2, output.Count)
	assert.Equal(t, "Spice House", output.Products[0].Store)
	assert.Equal(t, "s2", output.Products[1].Store)
	assert.Equal(t, []string{"/products?category=spices&limit=50&maxPrice=20"}, *uris)
}

func TestGetProductTool(t *testing.T) {
	tools, _ := newTestTools(t, "", map[string]string{
		"GET /products/p1": `{"_id":"p1","name":"Saffron","images":["/uploads/a.png"],"comments":[{"_id":"c1","user":{"_id":"u2","name":"Omar"},"text":"great"}]}`,
	})

	_, output, err := tools.GetProduct(context.Background(), nil, GetProductInput{ID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, "Saffron", output.Product.Name)
	assert.Equal(t, []string{"/uploads/a.png"}, output.Images)
	require.Len(t, output.Comments, 1)
	assert.Equal(t, "Omar", output.Comments[0].User)

	_, _, err = tools.GetProduct(context.Background(), nil, GetProductInput{})
	assert.EqualError(t, err, "id is required")

	_, _, err = tools.GetProduct(context.Background(), nil, GetProductInput{ID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Route not found")
}

func TestListStoresTool(t *testing.T) {
	tools, uris := newTestTools(t, "", map[string]string{
		"GET /stores": `[{"_id":"s1","name":"Spice House","owner":{"_id":"u1","name":"Sara"},"productsCount":4}]`,
	})

	_, output, err := tools.ListStores(context.Background(), nil, ListStoresInput{Search: "spice"})
	require.NoError(t, err)
	require.Equal(t, 1, output.Count)
	assert.Equal(t, "Sara", output.Stores[0].Owner)
	assert.Equal(t, "/stores?search=spice", (*uris)[0])
}

func TestGetStoreTool(t *testing.T) {
	tools, _ := newTestTools(t, "", map[string]string{
		"GET /stores/s1": `{"_id":"s1","name":"Spice House","category":"food"}`,
	})

	_, output, err := tools.GetStore(context.Background(), nil, GetStoreInput{ID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "food", output.Category)
}

func TestMyOrdersTool(t *testing.T) {
	routes := map[string]string{
		"GET /users/me":         `{"_id":"u2","name":"Omar","email":"omar@example.com","role":"user"}`,
		"GET /orders/my-orders": `[{"_id":"o1","store":"s1","status":"Shipped","totalPrice":19,"orderItems":[{"product":"p1","quantity":2}]}]`,
	}

	t.Run("logged in", func(t *testing.T) {
		tools, _ := newTestTools(t, "tok", routes)

		_, output, err := tools.MyOrders(context.Background(), nil, MyOrdersInput{})
		require.NoError(t, err)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "Shipped", output.Orders[0].Status)
		assert.Equal(t, 1, output.Orders[0].Items)
	})

	t.Run("anonymous", func(t *testing.T) {
		tools, uris := newTestTools(t, "", routes)

		_, _, err := tools.MyOrders(context.Background(), nil, MyOrdersInput{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not logged in")
		assert.Empty(t, *uris)
	})
}

func TestWhoamiTool(t *testing.T) {
	tools, _ := newTestTools(t, "tok", map[string]string{
		"GET /users/me": `{"id":"u1","name":"Sara","email":"sara@example.com","role":"store-owner"}`,
	})

	_, output, err := tools.Whoami(context.Background(), nil, WhoamiInput{})
	require.NoError(t, err)
	assert.Equal(t, WhoamiOutput{Authenticated: true, Name: "Sara", Email: "sara@example.com", Role: "store-owner"}, output)

	anon, _ := newTestTools(t, "", nil)
	_, output, err = anon.Whoami(context.Background(), nil, WhoamiInput{})
	require.NoError(t, err)
	assert.False(t, output.Authenticated)
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/souqly/storefront-go/pkg/storefront"
)

// storefrontTools holds the storefront client and implements all tool handlers
type storefrontTools struct {
	client *storefront.Client
}

// ListProducts tool - lists products with optional filters
type ListProductsInput struct {
	Category string  `json:"category,omitempty" jsonschema:"Filter by category (optional)"`
	Search   string  `json:"search,omitempty" jsonschema:"Keyword to search for (optional)"`
	Store    string  `json:"store,omitempty" jsonschema:"Only products of this store id (optional)"`
	MinPrice float64 `json:"minPrice,omitempty" jsonschema:"Lowest price (optional)"`
	MaxPrice float64 `json:"maxPrice,omitempty" jsonschema:"Highest price (optional)"`
	Limit    int     `json:"limit,omitempty" jsonschema:"Maximum number of products to return (default: 50)"`
}

type ProductEntry struct {
	ID         string  `json:"id" jsonschema:"Product ID"`
	Name       string  `json:"name" jsonschema:"Product name"`
	Price      float64 `json:"price" jsonschema:"Unit price"`
	Category   string  `json:"category,omitempty" jsonschema:"Product category"`
	Stock      int     `json:"stock" jsonschema:"Units in stock"`
	Rating     float64 `json:"rating" jsonschema:"Average rating from 1 to 5"`
	NumReviews int     `json:"numReviews" jsonschema:"Number of ratings"`
	Store      string  `json:"store,omitempty" jsonschema:"Owning store name or id"`
}

type ListProductsOutput struct {
	Products []ProductEntry `json:"products" jsonschema:"List of products"`
	Count    int            `json:"count" jsonschema:"Number of products returned"`
}

func productEntry(p *storefront.Product) ProductEntry {
	entry := ProductEntry{
		ID:         p.ID,
		Name:       p.Name,
		Price:      p.Price,
		Category:   p.Category,
		Stock:      p.Stock,
		Rating:     p.Rating,
		NumReviews: p.NumReviews,
	}
	if p.Store != nil {
		entry.Store = p.Store.String()
	}
	return entry
}

func (t *storefrontTools) ListProducts(ctx context.Context, req *mcp.CallToolRequest, input ListProductsInput) (*mcp.CallToolResult, ListProductsOutput, error) {
	query := t.client.Products.Query()

	if input.Category != "" {
		query = query.WithCategory(input.Category)
	}
	if input.Search != "" {
		query = query.Search(input.Search)
	}
	if input.Store != "" {
		query = query.WithStore(input.Store)
	}
	if input.MinPrice > 0 {
		query = query.WithMinPrice(input.MinPrice)
	}
	if input.MaxPrice > 0 {
		query = query.WithMaxPrice(input.MaxPrice)
	}

	// Apply limit (default to 50)
	limit := input.Limit
	if limit <= 0 {
		limit = 50
	}
	query = query.Limit(limit)

	products, err := query.Execute(ctx)
	if err != nil {
		return nil, ListProductsOutput{}, fmt.Errorf("failed to fetch products: %w", err)
	}

	entries := make([]ProductEntry, 0, len(products))
	for _, p := range products {
		entries = append(entries, productEntry(p))
	}

	return nil, ListProductsOutput{
		Products: entries,
		Count:    len(entries),
	}, nil
}

// GetProduct tool - retrieves a single product
type GetProductInput struct {
	ID string `json:"id" jsonschema:"Product ID"`
}

type CommentEntry struct {
	User      string    `json:"user" jsonschema:"Comment author"`
	Text      string    `json:"text" jsonschema:"Comment text"`
	CreatedAt time.Time `json:"createdAt" jsonschema:"When the comment was posted"`
}

type GetProductOutput struct {
	Product     ProductEntry   `json:"product" jsonschema:"Product summary"`
	Description string         `json:"description,omitempty" jsonschema:"Product description"`
	Images      []string       `json:"images,omitempty" jsonschema:"Image URLs"`
	Comments    []CommentEntry `json:"comments,omitempty" jsonschema:"User comments"`
}

func (t *storefrontTools) GetProduct(ctx context.Context, req *mcp.CallToolRequest, input GetProductInput) (*mcp.CallToolResult, GetProductOutput, error) {
	if input.ID == "" {
		return nil, GetProductOutput{}, fmt.Errorf("id is required")
	}

	product, err := t.client.Products.Get(ctx, input.ID)
	if err != nil {
		return nil, GetProductOutput{}, fmt.Errorf("failed to fetch product: %w", err)
	}

	out := GetProductOutput{
		Product:     productEntry(product),
		Description: product.Description,
		Images:      product.Images,
	}
	for _, c := range product.Comments {
		entry := CommentEntry{Text: c.Text, CreatedAt: c.CreatedAt}
		if c.User != nil {
			entry.User = c.User.String()
		}
		out.Comments = append(out.Comments, entry)
	}

	return nil, out, nil
}

// ListStores tool - lists stores with optional filters
type ListStoresInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category (optional)"`
	Search   string `json:"search,omitempty" jsonschema:"Keyword to search for (optional)"`
}

type StoreEntry struct {
	ID            string `json:"id" jsonschema:"Store ID"`
	Name          string `json:"name" jsonschema:"Store name"`
	Description   string `json:"description,omitempty" jsonschema:"Store description"`
	Category      string `json:"category,omitempty" jsonschema:"Store category"`
	ProductsCount int    `json:"productsCount" jsonschema:"Number of listed products"`
	Owner         string `json:"owner,omitempty" jsonschema:"Owner name or id"`
}

type ListStoresOutput struct {
	Stores []StoreEntry `json:"stores" jsonschema:"List of stores"`
	Count  int          `json:"count" jsonschema:"Number of stores returned"`
}

func storeEntry(s *storefront.Store) StoreEntry {
	entry := StoreEntry{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Category:      s.Category,
		ProductsCount: s.ProductsCount,
	}
	if s.Owner != nil {
		entry.Owner = s.Owner.String()
	}
	return entry
}

func (t *storefrontTools) ListStores(ctx context.Context, req *mcp.CallToolRequest, input ListStoresInput) (*mcp.CallToolResult, ListStoresOutput, error) {
	query := t.client.Stores.Query()
	if input.Category != "" {
		query = query.WithCategory(input.Category)
	}
	if input.Search != "" {
		query = query.Search(input.Search)
	}

	stores, err := query.Execute(ctx)
	if err != nil {
		return nil, ListStoresOutput{}, fmt.Errorf("failed to fetch stores: %w", err)
	}

	entries := make([]StoreEntry, 0, len(stores))
	for _, s := range stores {
		entries = append(entries, storeEntry(s))
	}

	return nil, ListStoresOutput{
		Stores: entries,
		Count:  len(entries),
	}, nil
}

// GetStore tool - retrieves a single store
type GetStoreInput struct {
	ID string `json:"id" jsonschema:"Store ID"`
}

func (t *storefrontTools) GetStore(ctx context.Context, req *mcp.CallToolRequest, input GetStoreInput) (*mcp.CallToolResult, StoreEntry, error) {
	if input.ID == "" {
		return nil, StoreEntry{}, fmt.Errorf("id is required")
	}

	store, err := t.client.Stores.Get(ctx, input.ID)
	if err != nil {
		return nil, StoreEntry{}, fmt.Errorf("failed to fetch store: %w", err)
	}

	return nil, storeEntry(store), nil
}

// MyOrders tool - lists the logged-in user's orders
type MyOrdersInput struct {
	// No input parameters needed
}

type OrderEntry struct {
	ID         string    `json:"id" jsonschema:"Order ID"`
	Store      string    `json:"store,omitempty" jsonschema:"Store name or id"`
	Status     string    `json:"status" jsonschema:"Processing, Shipped, Delivered or Cancelled"`
	TotalPrice float64   `json:"totalPrice" jsonschema:"Order total"`
	Items      int       `json:"items" jsonschema:"Number of order lines"`
	CreatedAt  time.Time `json:"createdAt" jsonschema:"When the order was placed"`
}

type MyOrdersOutput struct {
	Orders []OrderEntry `json:"orders" jsonschema:"List of orders"`
	Count  int          `json:"count" jsonschema:"Number of orders returned"`
}

func (t *storefrontTools) MyOrders(ctx context.Context, req *mcp.CallToolRequest, input MyOrdersInput) (*mcp.CallToolResult, MyOrdersOutput, error) {
	if !t.client.Session.IsAuthenticated() {
		return nil, MyOrdersOutput{}, fmt.Errorf("not logged in: set STOREFRONT_TOKEN or STOREFRONT_TOKEN_FILE")
	}

	orders, err := t.client.Orders.MyOrders(ctx)
	if err != nil {
		return nil, MyOrdersOutput{}, fmt.Errorf("failed to fetch orders: %w", err)
	}

	entries := make([]OrderEntry, 0, len(orders))
	for _, o := range orders {
		entry := OrderEntry{
			ID:         o.ID,
			Status:     string(o.Status),
			TotalPrice: o.TotalPrice,
			Items:      len(o.OrderItems),
			CreatedAt:  o.CreatedAt,
		}
		if o.Store != nil {
			entry.Store = o.Store.String()
		}
		entries = append(entries, entry)
	}

	return nil, MyOrdersOutput{
		Orders: entries,
		Count:  len(entries),
	}, nil
}

// Whoami tool - reports the session
type WhoamiInput struct {
	// No input parameters needed
}

type WhoamiOutput struct {
	Authenticated bool   `json:"authenticated" jsonschema:"Whether a user is logged in"`
	Name          string `json:"name,omitempty" jsonschema:"User name"`
	Email         string `json:"email,omitempty" jsonschema:"User email"`
	Role          string `json:"role,omitempty" jsonschema:"user, store-owner or admin"`
}

func (t *storefrontTools) Whoami(ctx context.Context, req *mcp.CallToolRequest, input WhoamiInput) (*mcp.CallToolResult, WhoamiOutput, error) {
	user := t.client.Session.User()
	if user == nil {
		return nil, WhoamiOutput{}, nil
	}

	return nil, WhoamiOutput{
		Authenticated: true,
		Name:          user.Name,
		Email:         user.Email,
		Role:          string(user.Role),
	}, nil
}

package storefront

import (
	"context"
	"io"
)

// AuthService handles account endpoints
type AuthService interface {
	// Signup registers a new account
	Signup(ctx context.Context, params *SignupParams) (*AuthResponse, error)

	// Login exchanges credentials for a token
	Login(ctx context.Context, email, password string) (*AuthResponse, error)

	// Me retrieves the profile of the token holder
	Me(ctx context.Context) (*User, error)
}

// StoreService handles store endpoints
type StoreService interface {
	// Create opens a store for the current user
	Create(ctx context.Context, params *CreateStoreParams) (*Store, error)

	// List retrieves stores; filters is an optional raw query string
	List(ctx context.Context, filters string) ([]*Store, error)

	// Query returns a store filter builder
	Query() StoreQueryBuilder

	// Get retrieves a single store by ID
	Get(ctx context.Context, storeID string) (*Store, error)

	// MyStore retrieves the current user's store
	MyStore(ctx context.Context) (*Store, error)

	// MyStoreOrders retrieves orders placed with the current user's store
	MyStoreOrders(ctx context.Context) ([]*Order, error)

	// UpdateOrderStatus changes the status of an order placed with the current user's store
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)
}

// ProductService handles product endpoints
type ProductService interface {
	// Create lists a new product
	Create(ctx context.Context, params *CreateProductParams) (*Product, error)

	// List retrieves products; filters is an optional raw query string
	List(ctx context.Context, filters string) ([]*Product, error)

	// Query returns a product filter builder
	Query() ProductQueryBuilder

	// Get retrieves a single product by ID
	Get(ctx context.Context, productID string) (*Product, error)

	// AddRating rates a product
	AddRating(ctx context.Context, productID string, rating int) (*Product, error)

	// AddComment comments on a product
	AddComment(ctx context.Context, productID, text string) (*Product, error)
}

// OrderService handles order endpoints
type OrderService interface {
	// Create places an order
	Create(ctx context.Context, params *CreateOrderParams) (*Order, error)

	// MyOrders retrieves the current user's orders
	MyOrders(ctx context.Context) ([]*Order, error)
}

// UploadService handles file uploads
type UploadService interface {
	// Image uploads a single image and returns its URL
	Image(ctx context.Context, filename string, file io.Reader) (*UploadResult, error)

	// ImageFile uploads an image from disk
	ImageFile(ctx context.Context, path string) (*UploadResult, error)
}

// AdminService handles marketplace administration
type AdminService interface {
	// Stats retrieves marketplace totals
	Stats(ctx context.Context) (*Stats, error)

	// Orders retrieves every order
	Orders(ctx context.Context) ([]*Order, error)

	// UpdateOrderStatus changes the status of any order
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) (*Order, error)

	// DeleteStore removes a store
	DeleteStore(ctx context.Context, storeID string) error

	// DeleteProduct removes a product
	DeleteProduct(ctx context.Context, productID string) error
}

// StoreQueryBuilder builds store filters
type StoreQueryBuilder interface {
	WithCategory(category string) StoreQueryBuilder
	Search(keyword string) StoreQueryBuilder
	Page(page int) StoreQueryBuilder
	Limit(limit int) StoreQueryBuilder

	// Encode renders the filter query string
	Encode() string

	// Execute runs the query
	Execute(ctx context.Context) ([]*Store, error)
}

// ProductQueryBuilder builds product filters
type ProductQueryBuilder interface {
	WithCategory(category string) ProductQueryBuilder
	WithStore(storeID string) ProductQueryBuilder
	WithMinPrice(price float64) ProductQueryBuilder
	WithMaxPrice(price float64) ProductQueryBuilder
	Search(keyword string) ProductQueryBuilder
	SortBy(sort string) ProductQueryBuilder
	Page(page int) ProductQueryBuilder
	Limit(limit int) ProductQueryBuilder

	// Encode renders the filter query string
	Encode() string

	// Execute runs the query
	Execute(ctx context.Context) ([]*Product, error)
}

package storefront

import (
	"encoding/json"
	"time"
)

// Role is the backend-assigned role of a user
type Role string

const (
	RoleUser       Role = "user"
	RoleStoreOwner Role = "store-owner"
	RoleAdmin      Role = "admin"
)

// OrderStatus is the fulfilment status of an order
type OrderStatus string

const (
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// User represents an authenticated account
type User struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON implements json.Unmarshaler for User. Profiles carry either
// "id" or the raw document "_id"; "id" wins when both are present.
func (u *User) UnmarshalJSON(data []byte) error {
	type user User
	var aux struct {
		user
		DocumentID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	*u = User(aux.user)
	if u.ID == "" {
		u.ID = aux.DocumentID
	}
	return nil
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Token string `json:"token" validate:"required"`
	User  *User  `json:"user" validate:"required"`
}

// Store represents a merchant store
type Store struct {
	ID            string    `json:"_id" validate:"required"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Logo          string    `json:"logo,omitempty"`
	Owner         *Ref      `json:"owner,omitempty"`
	ProductsCount int       `json:"productsCount"`
	OrdersCount   int       `json:"ordersCount"`
	TotalRevenue  float64   `json:"totalRevenue"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Product represents a product listed by a store
type Product struct {
	ID          string     `json:"_id" validate:"required"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Category    string     `json:"category"`
	Stock       int        `json:"stock"`
	Images      []string   `json:"images"`
	Store       *Ref       `json:"store,omitempty"`
	Rating      float64    `json:"rating"`
	NumReviews  int        `json:"numReviews"`
	Ratings     []*Rating  `json:"ratings,omitempty"`
	Comments    []*Comment `json:"comments,omitempty"`
	Sales       int        `json:"sales"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Rating is a single user's rating of a product
type Rating struct {
	User  *Ref `json:"user,omitempty"`
	Value int  `json:"rating"`
}

// Comment is a user comment on a product
type Comment struct {
	ID        string    `json:"_id"`
	User      *Ref      `json:"user,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// OrderItem is one line of an order
type OrderItem struct {
	Product  *Ref    `json:"product"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price,omitempty"`
}

// ShippingAddress is where an order is delivered
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// Order represents a placed order
type Order struct {
	ID              string           `json:"_id" validate:"required"`
	User            *Ref             `json:"user,omitempty"`
	Store           *Ref             `json:"store,omitempty"`
	OrderItems      []*OrderItem     `json:"orderItems"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	PaymentMethod   string           `json:"paymentMethod"`
	TotalPrice      float64          `json:"totalPrice"`
	Status          OrderStatus      `json:"status"`
	ItemsCount      int              `json:"itemsCount"`
	CreatedAt       time.Time        `json:"createdAt"`
}

// Stats is the admin overview of the marketplace
type Stats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalStores   int     `json:"totalStores"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	MonthlyGrowth float64 `json:"monthlyGrowth"`
}

// UploadResult is returned by an image upload
type UploadResult struct {
	URL string `json:"url" validate:"required"`
}

// SignupParams for registering a new account
type SignupParams struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Role is optional; the backend default applies when empty
	Role Role `json:"role,omitempty"`
}

// CreateStoreParams for opening a store
type CreateStoreParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Logo        string `json:"logo,omitempty"`
}

// CreateProductParams for listing a product
type CreateProductParams struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}

// CreateOrderItem references a product and quantity when placing an order
type CreateOrderItem struct {
	Product  string `json:"product"`
	Quantity int    `json:"quantity"`
}

// CreateOrderParams for checkout
type CreateOrderParams struct {
	OrderItems      []CreateOrderItem `json:"orderItems"`
	ShippingAddress ShippingAddress   `json:"shippingAddress"`
	PaymentMethod   string            `json:"paymentMethod"`
}

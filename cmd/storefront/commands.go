package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/souqly/storefront-go/pkg/logger"
	"github.com/souqly/storefront-go/pkg/storefront"
)

var errNotLoggedIn = errors.New("not logged in; run `storefront login` first")

type command struct {
	usage string
	run   func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":            {"login -email E -password P", cmdLogin},
	"signup":           {"signup -name N -email E -password P [-role store-owner]", cmdSignup},
	"logout":           {"logout", cmdLogout},
	"whoami":           {"whoami", cmdWhoami},
	"products":         {"products [-category C] [-search S] [-store ID] [-min N] [-max N] [-sort F] [-page N] [-limit N]", cmdProducts},
	"product":          {"product ID", cmdProduct},
	"create-product":   {"create-product -name N -price P [-description D] [-category C] [-stock N] [-image URL]...", cmdCreateProduct},
	"rate":             {"rate PRODUCT_ID 1-5", cmdRate},
	"comment":          {"comment PRODUCT_ID TEXT...", cmdComment},
	"stores":           {"stores [-category C] [-search S] [-page N] [-limit N]", cmdStores},
	"store":            {"store ID", cmdStore},
	"create-store":     {"create-store -name N [-description D] [-category C] [-logo URL]", cmdCreateStore},
	"my-store":         {"my-store", cmdMyStore},
	"my-store-orders":  {"my-store-orders", cmdMyStoreOrders},
	"set-order-status": {"set-order-status [-admin] ORDER_ID Processing|Shipped|Delivered|Cancelled", cmdSetOrderStatus},
	"order":            {"order -item PRODUCT_ID:QTY... -address A -city C -postal P -country C -phone P [-payment M]", cmdOrder},
	"my-orders":        {"my-orders", cmdMyOrders},
	"upload":           {"upload PATH", cmdUpload},
	"stats":            {"stats", cmdStats},
}

func printUsage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: storefront <command> [flags]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

type app struct {
	client *storefront.Client
	out    io.Writer
}

func newApp(client *storefront.Client, out io.Writer) *app {
	return &app{client: client, out: out}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}

	log := logger.Get()
	log.Debug().
		Str("command", args[0]).
		Str("session", a.client.Session.State().String()).
		Msg("Running command")
	return cmd.run(ctx, a, args[1:])
}

// print writes v as indented JSON
func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) requireLogin() error {
	if !a.client.Session.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// positional parses flags then checks the positional argument count
func positional(fs *flag.FlagSet, args []string, n int) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < n {
		return nil, fmt.Errorf("%s: expected %d argument(s), got %d", fs.Name(), n, fs.NArg())
	}
	return fs.Args(), nil
}

// visited returns the names of flags set on the command line
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" || *password == "" {
		return errors.New("login requires -email and -password")
	}

	if err := a.client.Session.Login(ctx, *email, *password); err != nil {
		return err
	}
	return a.print(a.client.Session.User())
}

func cmdSignup(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("signup")
	params := &storefront.SignupParams{}
	fs.StringVar(&params.Name, "name", "", "display name")
	fs.StringVar(&params.Email, "email", "", "account email")
	fs.StringVar(&params.Password, "password", "", "account password")
	role := fs.String("role", "", "user or store-owner; backend default when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if params.Name == "" || params.Email == "" || params.Password == "" {
		return errors.New("signup requires -name, -email and -password")
	}
	params.Role = storefront.Role(*role)

	if err := a.client.Session.Signup(ctx, params); err != nil {
		return err
	}
	return a.print(a.client.Session.User())
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	a.client.Session.Logout()
	return a.print(map[string]string{"state": a.client.Session.State().String()})
}

// tokenFile is satisfied by the file-backed token store
type tokenFile interface {
	Path() string
	SavedAt() (time.Time, error)
}

func cmdWhoami(_ context.Context, a *app, _ []string) error {
	out := struct {
		State        string           `json:"state"`
		User         *storefront.User `json:"user"`
		IsStoreOwner bool             `json:"isStoreOwner"`
		IsAdmin      bool             `json:"isAdmin"`
		TokenFile    string           `json:"tokenFile,omitempty"`
		LoggedInAt   *time.Time       `json:"loggedInAt,omitempty"`
	}{
		State:        a.client.Session.State().String(),
		User:         a.client.Session.User(),
		IsStoreOwner: a.client.Session.IsStoreOwner(),
		IsAdmin:      a.client.Session.IsAdmin(),
	}

	if tf, ok := a.client.Tokens().(tokenFile); ok && out.User != nil {
		savedAt, err := tf.SavedAt()
		if err != nil {
			return err
		}
		out.TokenFile = tf.Path()
		out.LoggedInAt = &savedAt
	}

	return a.print(out)
}

func cmdProducts(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("products")
	category := fs.String("category", "", "category filter")
	search := fs.String("search", "", "keyword")
	store := fs.String("store", "", "store id")
	minPrice := fs.Float64("min", 0, "minimum price")
	maxPrice := fs.Float64("max", 0, "maximum price")
	sortBy := fs.String("sort", "", "sort field")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set := visited(fs)
	q := a.client.Products.Query()
	if set["category"] {
		q = q.WithCategory(*category)
	}
	if set["search"] {
		q = q.Search(*search)
	}
	if set["store"] {
		q = q.WithStore(*store)
	}
	if set["min"] {
		q = q.WithMinPrice(*minPrice)
	}
	if set["max"] {
		q = q.WithMaxPrice(*maxPrice)
	}
	if set["sort"] {
		q = q.SortBy(*sortBy)
	}
	if set["page"] {
		q = q.Page(*page)
	}
	if set["limit"] {
		q = q.Limit(*limit)
	}

	products, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	return a.print(products)
}

func cmdProduct(ctx context.Context, a *app, args []string) error {
	rest, err := positional(newFlagSet("product"), args, 1)
	if err != nil {
		return err
	}

	product, err := a.client.Products.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(product)
}

func cmdCreateProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-product")
	params := &storefront.CreateProductParams{}
	var images stringList
	fs.StringVar(&params.Name, "name", "", "product name")
	fs.StringVar(&params.Description, "description", "", "description")
	fs.Float64Var(&params.Price, "price", 0, "unit price")
	fs.StringVar(&params.Category, "category", "", "category")
	fs.IntVar(&params.Stock, "stock", 0, "units in stock")
	fs.Var(&images, "image", "image URL from `storefront upload`; repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if params.Name == "" {
		return errors.New("create-product requires -name")
	}
	if err := a.requireLogin(); err != nil {
		return err
	}
	params.Images = images

	product, err := a.client.Products.Create(ctx, params)
	if err != nil {
		return err
	}
	return a.print(product)
}

func cmdRate(ctx context.Context, a *app, args []string) error {
	rest, err := positional(newFlagSet("rate"), args, 2)
	if err != nil {
		return err
	}
	rating, err := strconv.Atoi(rest[1])
	if err != nil || rating < 1 || rating > 5 {
		return fmt.Errorf("rating must be a whole number from 1 to 5, got %q", rest[1])
	}

	product, err := a.client.Products.AddRating(ctx, rest[0], rating)
	if err != nil {
		return err
	}
	return a.print(product)
}

func cmdComment(ctx context.Context, a *app, args []string) error {
	rest, err := positional(newFlagSet("comment"), args, 2)
	if err != nil {
		return err
	}

	product, err := a.client.Products.AddComment(ctx, rest[0], strings.Join(rest[1:], " "))
	if err != nil {
		return err
	}
	return a.print(product)
}

func cmdStores(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("stores")
	category := fs.String("category", "", "category filter")
	search := fs.String("search", "", "keyword")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	set := visited(fs)
	q := a.client.Stores.Query()
	if set["category"] {
		q = q.WithCategory(*category)
	}
	if set["search"] {
		q = q.Search(*search)
	}
	if set["page"] {
		q = q.Page(*page)
	}
	if set["limit"] {
		q = q.Limit(*limit)
	}

	stores, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	return a.print(stores)
}

func cmdStore(ctx context.Context, a *app, args []string) error {
	rest, err := positional(newFlagSet("store"), args, 1)
	if err != nil {
		return err
	}

	store, err := a.client.Stores.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(store)
}

func cmdCreateStore(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("create-store")
	params := &storefront.CreateStoreParams{}
	fs.StringVar(&params.Name, "name", "", "store name")
	fs.StringVar(&params.Description, "description", "", "description")
	fs.StringVar(&params.Category, "category", "", "category")
	fs.StringVar(&params.Logo, "logo", "", "logo URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if params.Name == "" {
		return errors.New("create-store requires -name")
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	store, err := a.client.Stores.Create(ctx, params)
	if err != nil {
		return err
	}
	return a.print(store)
}

func cmdMyStore(ctx context.Context, a *app, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	store, err := a.client.Stores.MyStore(ctx)
	if err != nil {
		return err
	}
	return a.print(store)
}

func cmdMyStoreOrders(ctx context.Context, a *app, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	orders, err := a.client.Stores.MyStoreOrders(ctx)
	if err != nil {
		return err
	}
	return a.print(orders)
}

func parseStatus(s string) (storefront.OrderStatus, error) {
	for _, status := range []storefront.OrderStatus{
		storefront.OrderProcessing,
		storefront.OrderShipped,
		storefront.OrderDelivered,
		storefront.OrderCancelled,
	} {
		if strings.EqualFold(s, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func cmdSetOrderStatus(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("set-order-status")
	asAdmin := fs.Bool("admin", false, "use the admin endpoint")
	rest, err := positional(fs, args, 2)
	if err != nil {
		return err
	}
	status, err := parseStatus(rest[1])
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	var order *storefront.Order
	if *asAdmin {
		order, err = a.client.Admin.UpdateOrderStatus(ctx, rest[0], status)
	} else {
		order, err = a.client.Stores.UpdateOrderStatus(ctx, rest[0], status)
	}
	if err != nil {
		return err
	}
	return a.print(order)
}

// parseItem reads PRODUCT_ID:QTY; the quantity defaults to 1
func parseItem(s string) (storefront.CreateOrderItem, error) {
	id, qty, found := strings.Cut(s, ":")
	item := storefront.CreateOrderItem{Product: id, Quantity: 1}
	if id == "" {
		return item, fmt.Errorf("invalid item %q", s)
	}
	if found {
		n, err := strconv.Atoi(qty)
		if err != nil || n < 1 {
			return item, fmt.Errorf("invalid quantity in item %q", s)
		}
		item.Quantity = n
	}
	return item, nil
}

func cmdOrder(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("order")
	params := &storefront.CreateOrderParams{}
	var items stringList
	fs.Var(&items, "item", "PRODUCT_ID:QTY; repeatable")
	fs.StringVar(&params.ShippingAddress.Address, "address", "", "street address")
	fs.StringVar(&params.ShippingAddress.City, "city", "", "city")
	fs.StringVar(&params.ShippingAddress.PostalCode, "postal", "", "postal code")
	fs.StringVar(&params.ShippingAddress.Country, "country", "", "country")
	fs.StringVar(&params.ShippingAddress.Phone, "phone", "", "contact phone")
	fs.StringVar(&params.PaymentMethod, "payment", "cash", "payment method")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(items) == 0 {
		return errors.New("order requires at least one -item")
	}
	for _, raw := range items {
		item, err := parseItem(raw)
		if err != nil {
			return err
		}
		params.OrderItems = append(params.OrderItems, item)
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	order, err := a.client.Orders.Create(ctx, params)
	if err != nil {
		return err
	}
	return a.print(order)
}

func cmdMyOrders(ctx context.Context, a *app, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	orders, err := a.client.Orders.MyOrders(ctx)
	if err != nil {
		return err
	}
	return a.print(orders)
}

func cmdUpload(ctx context.Context, a *app, args []string) error {
	rest, err := positional(newFlagSet("upload"), args, 1)
	if err != nil {
		return err
	}
	if err := a.requireLogin(); err != nil {
		return err
	}

	result, err := a.client.Upload.ImageFile(ctx, rest[0])
	if err != nil {
		return err
	}
	return a.print(result)
}

func cmdStats(ctx context.Context, a *app, _ []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	stats, err := a.client.Admin.Stats(ctx)
	if err != nil {
		return err
	}
	return a.print(stats)
}

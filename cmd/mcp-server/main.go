package main

import (
	"context"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/souqly/storefront-go/pkg/logger"
	"github.com/souqly/storefront-go/pkg/storefront"
)

func main() {
	// stdout carries the protocol, so logs go to stderr
	zl := logger.Init(logger.Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Output: os.Stderr,
	})

	if err := run(context.Background(), zl); err != nil {
		zl.Fatal().Err(err).Msg("Storefront MCP server stopped")
	}
}

func run(ctx context.Context, zl zerolog.Logger) error {
	// STOREFRONT_TOKEN is optional; without it only public tools return data
	client, err := storefront.NewClient(&storefront.ClientOptions{
		BaseURL:   os.Getenv("STOREFRONT_BASE_URL"),
		Token:     os.Getenv("STOREFRONT_TOKEN"),
		TokenFile: os.Getenv("STOREFRONT_TOKEN_FILE"),
		Logger:    logger.NewKV(zl),
		SentryDSN: os.Getenv("SENTRY_DSN"),
	})
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Session.Initialize(ctx); err != nil {
		return err
	}
	zl.Info().
		Str("session", client.Session.State().String()).
		Msg("Serving storefront tools over stdio")

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "storefront",
		Version: "1.0.0",
	}, nil)

	registerTools(server, client)

	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerTools(server *mcp.Server, client *storefront.Client) {
	tools := &storefrontTools{client: client}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_products",
		Description: "List products with optional category, keyword, store and price filters. Returns id, name, price, stock, rating and owning store.",
	}, tools.ListProducts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_product",
		Description: "Get a single product by id, including its images, ratings and comments.",
	}, tools.GetProduct)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_stores",
		Description: "List stores with optional category and keyword filters.",
	}, tools.ListStores)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_store",
		Description: "Get a single store by id.",
	}, tools.GetStore)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "my_orders",
		Description: "List orders placed by the logged-in user. Requires a session.",
	}, tools.MyOrders)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "whoami",
		Description: "Report whether a user is logged in, and their name, email and role.",
	}, tools.Whoami)
}

// Command validator exercises the read endpoints of a live storefront
// backend and checks every response against the client's contracts. It
// writes a JSON report and exits non-zero when any check fails.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/souqly/storefront-go/pkg/storefront"
)

// ValidatorConfig holds configuration for the validator
type ValidatorConfig struct {
	BaseURL       string
	Token         string
	OutputDir     string
	Verbose       bool
	MethodsToTest []string
}

// ValidationResult represents the result of a validation test
type ValidationResult struct {
	Method   string        `json:"method"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	Count    int           `json:"count,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

// ValidationReport represents the full validation report
type ValidationReport struct {
	Timestamp   time.Time          `json:"timestamp"`
	BaseURL     string             `json:"base_url"`
	TotalTests  int                `json:"total_tests"`
	Passed      int                `json:"passed"`
	Failed      int                `json:"failed"`
	Skipped     int                `json:"skipped"`
	SuccessRate float64            `json:"success_rate"`
	Results     []ValidationResult `json:"results"`
}

// defaultMethods run in order; later checks reuse ids found by earlier ones
var defaultMethods = []string{
	"list_products",
	"get_product",
	"list_stores",
	"get_store",
	"me",
	"my_orders",
	"my_store",
	"my_store_orders",
	"stats",
}

// authenticated methods are skipped without a session
var authenticated = map[string]bool{
	"me":              true,
	"my_orders":       true,
	"my_store":        true,
	"my_store_orders": true,
	"stats":           true,
}

func main() {
	config := parseFlags()

	// Create output directory
	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	client, err := storefront.NewClient(&storefront.ClientOptions{
		BaseURL: config.BaseURL,
		Token:   config.Token,
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	// Run validation
	validator := NewValidator(config, client)
	report, err := validator.Run(context.Background())
	if err != nil {
		log.Fatalf("Validation failed: %v", err)
	}

	// Save report
	reportPath := filepath.Join(config.OutputDir, fmt.Sprintf("validation_report_%d.json", time.Now().Unix()))
	if err := saveReport(report, reportPath); err != nil {
		log.Fatalf("Failed to save report: %v", err)
	}

	printSummary(os.Stdout, report, reportPath)

	// Exit with non-zero if any tests failed
	if report.Failed > 0 {
		os.Exit(1)
	}
}

func parseFlags() *ValidatorConfig {
	config := &ValidatorConfig{}

	flag.StringVar(&config.BaseURL, "base-url", os.Getenv("STOREFRONT_BASE_URL"), "Backend API base URL")
	flag.StringVar(&config.Token, "token", os.Getenv("STOREFRONT_TOKEN"), "Bearer token; authenticated checks are skipped without one")
	flag.StringVar(&config.OutputDir, "output", "./validation_results", "Output directory for results")
	flag.BoolVar(&config.Verbose, "verbose", false, "Verbose output")

	// Parse method list
	methodList := flag.String("methods", "", "Comma-separated list of methods to test (empty for all)")

	flag.Parse()

	if *methodList != "" {
		config.MethodsToTest = strings.Split(*methodList, ",")
	} else {
		config.MethodsToTest = defaultMethods
	}

	return config
}

// Validator handles the validation process
type Validator struct {
	config *ValidatorConfig
	client *storefront.Client

	productID string
	storeID   string
}

// NewValidator creates a new validator
func NewValidator(config *ValidatorConfig, client *storefront.Client) *Validator {
	return &Validator{
		config: config,
		client: client,
	}
}

// Run restores the session and executes every configured check
func (v *Validator) Run(ctx context.Context) (*ValidationReport, error) {
	if err := v.client.Session.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize session: %w", err)
	}

	report := &ValidationReport{
		Timestamp: time.Now(),
		BaseURL:   v.config.BaseURL,
		Results:   make([]ValidationResult, 0, len(v.config.MethodsToTest)),
	}

	for _, method := range v.config.MethodsToTest {
		if v.config.Verbose {
			fmt.Printf("Testing %s...\n", method)
		}

		result := v.testMethod(ctx, method)
		report.Results = append(report.Results, result)

		switch {
		case result.Skipped:
			report.Skipped++
		case result.Passed:
			report.Passed++
		default:
			report.Failed++
		}
	}

	report.TotalTests = len(report.Results)
	if ran := report.Passed + report.Failed; ran > 0 {
		report.SuccessRate = float64(report.Passed) / float64(ran) * 100
	}

	return report, nil
}

func (v *Validator) testMethod(ctx context.Context, method string) ValidationResult {
	result := ValidationResult{Method: method}

	if authenticated[method] && !v.client.Session.IsAuthenticated() {
		result.Skipped = true
		result.Error = "no session"
		return result
	}

	start := time.Now()
	count, err := v.execute(ctx, method)
	result.Duration = time.Since(start)

	if err != nil {
		result.Error = err.Error()
		if v.config.Verbose {
			fmt.Printf("  %s failed: %v\n", method, err)
		}
		return result
	}

	result.Passed = true
	result.Count = count
	return result
}

// execute runs one check and returns how many records came back
func (v *Validator) execute(ctx context.Context, method string) (int, error) {
	switch method {
	case "list_products":
		products, err := v.client.Products.Query().Limit(10).Execute(ctx)
		if err != nil {
			return 0, err
		}
		if len(products) > 0 {
			v.productID = products[0].ID
		}
		return len(products), nil

	case "get_product":
		if v.productID == "" {
			return 0, fmt.Errorf("no product id; run list_products first")
		}
		_, err := v.client.Products.Get(ctx, v.productID)
		return 1, err

	case "list_stores":
		stores, err := v.client.Stores.List(ctx, "")
		if err != nil {
			return 0, err
		}
		if len(stores) > 0 {
			v.storeID = stores[0].ID
		}
		return len(stores), nil

	case "get_store":
		if v.storeID == "" {
			return 0, fmt.Errorf("no store id; run list_stores first")
		}
		_, err := v.client.Stores.Get(ctx, v.storeID)
		return 1, err

	case "me":
		_, err := v.client.Session.Refresh(ctx)
		return 1, err

	case "my_orders":
		orders, err := v.client.Orders.MyOrders(ctx)
		return len(orders), err

	case "my_store":
		_, err := v.client.Stores.MyStore(ctx)
		return 1, err

	case "my_store_orders":
		orders, err := v.client.Stores.MyStoreOrders(ctx)
		return len(orders), err

	case "stats":
		_, err := v.client.Admin.Stats(ctx)
		return 1, err

	default:
		return 0, fmt.Errorf("unknown method: %s", method)
	}
}

func saveReport(report *ValidationReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printSummary(w io.Writer, report *ValidationReport, path string) {
	fmt.Fprintln(w, "\n=== Validation Report ===")
	fmt.Fprintf(w, "Total Tests: %d\n", report.TotalTests)
	fmt.Fprintf(w, "Passed: %d\n", report.Passed)
	fmt.Fprintf(w, "Failed: %d\n", report.Failed)
	fmt.Fprintf(w, "Skipped: %d\n", report.Skipped)
	fmt.Fprintf(w, "Success Rate: %.1f%%\n", report.SuccessRate)

	if report.Failed > 0 {
		fmt.Fprintln(w, "\nFailed Tests:")
		for _, result := range report.Results {
			if !result.Passed && !result.Skipped {
				fmt.Fprintf(w, "  - %s: %s\n", result.Method, result.Error)
			}
		}
	}

	fmt.Fprintf(w, "\nReport saved to: %s\n", path)
}

package medusa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/thca-multistore/backend/internal/domain/commerce"
)

// maxResponseSize limits response bodies to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Client is an HTTP adapter for the commerce platform admin API. It
// implements the commerce read/write interfaces consumed by the application
// layer. Every list call is bounded with an explicit limit.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new platform client with the given configuration.
func NewClient(config *Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// ---------------------------------------------------------------------------
// DataSource
// ---------------------------------------------------------------------------

// ListOrders lists orders created within the filter window, newest first.
func (c *Client) ListOrders(ctx context.Context, filter commerce.OrderFilter) ([]commerce.Order, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limitOrDefault(filter.Limit, commerce.MaxOrders)))
	query.Set("order", "-created_at")
	if !filter.CreatedAfter.IsZero() {
		query.Set("created_at[$gte]", filter.CreatedAfter.UTC().Format(time.RFC3339))
	}
	if !filter.CreatedBefore.IsZero() {
		query.Set("created_at[$lte]", filter.CreatedBefore.UTC().Format(time.RFC3339))
	}
	if filter.WithItems {
		query.Set("fields", "*items,*items.variant")
	}

	var resp orderListResponse
	if err := c.get(ctx, "/admin/orders", query, &resp); err != nil {
		return nil, err
	}

	orders := make([]commerce.Order, 0, len(resp.Orders))
	for _, w := range resp.Orders {
		orders = append(orders, convertOrder(w))
	}
	return orders, nil
}

// ListCustomers lists customers up to the option limit.
func (c *Client) ListCustomers(ctx context.Context, opts commerce.ListOptions) ([]commerce.Customer, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit, commerce.MaxCustomers)))

	var resp customerListResponse
	if err := c.get(ctx, "/admin/customers", query, &resp); err != nil {
		return nil, err
	}

	customers := make([]commerce.Customer, 0, len(resp.Customers))
	for _, w := range resp.Customers {
		customers = append(customers, commerce.Customer{
			ID:        w.ID,
			Email:     w.Email,
			FirstName: w.FirstName,
			LastName:  w.LastName,
			Metadata:  stringifyMetadata(w.Metadata),
		})
	}
	return customers, nil
}

// ListProducts lists catalog products up to the option limit.
func (c *Client) ListProducts(ctx context.Context, opts commerce.ListOptions) ([]commerce.Product, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit, commerce.MaxProducts)))

	var resp productListResponse
	if err := c.get(ctx, "/admin/products", query, &resp); err != nil {
		return nil, err
	}

	products := make([]commerce.Product, 0, len(resp.Products))
	for _, w := range resp.Products {
		products = append(products, commerce.Product{ID: w.ID, Title: w.Title, Status: w.Status})
	}
	return products, nil
}

// ListSalesChannels lists sales channels up to the option limit.
func (c *Client) ListSalesChannels(ctx context.Context, opts commerce.ListOptions) ([]commerce.SalesChannel, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit, commerce.MaxChannels)))

	var resp salesChannelListResponse
	if err := c.get(ctx, "/admin/sales-channels", query, &resp); err != nil {
		return nil, err
	}

	channels := make([]commerce.SalesChannel, 0, len(resp.SalesChannels))
	for _, w := range resp.SalesChannels {
		channels = append(channels, commerce.SalesChannel{
			ID:         w.ID,
			Name:       w.Name,
			IsDisabled: w.IsDisabled,
			Metadata:   stringifyMetadata(w.Metadata),
		})
	}
	return channels, nil
}

// ---------------------------------------------------------------------------
// StoreAdmin
// ---------------------------------------------------------------------------

// ListAPIKeys lists publishable API keys.
func (c *Client) ListAPIKeys(ctx context.Context, opts commerce.ListOptions) ([]commerce.APIKey, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limitOrDefault(opts.Limit, commerce.MaxAPIKeys)))
	query.Set("type", "publishable")

	var resp apiKeyListResponse
	if err := c.get(ctx, "/admin/api-keys", query, &resp); err != nil {
		return nil, err
	}

	keys := make([]commerce.APIKey, 0, len(resp.APIKeys))
	for _, w := range resp.APIKeys {
		keys = append(keys, commerce.APIKey{ID: w.ID, Title: w.Title, Token: w.Token, Type: w.Type})
	}
	return keys, nil
}

// ListStores lists store records.
func (c *Client) ListStores(ctx context.Context) ([]commerce.StoreSettings, error) {
	var resp storeListResponse
	if err := c.get(ctx, "/admin/stores", url.Values{}, &resp); err != nil {
		return nil, err
	}

	stores := make([]commerce.StoreSettings, 0, len(resp.Stores))
	for _, w := range resp.Stores {
		stores = append(stores, commerce.StoreSettings{
			ID:       w.ID,
			Name:     w.Name,
			Metadata: stringifyMetadata(w.Metadata),
		})
	}
	return stores, nil
}

// UpdateStore updates a store's name and metadata. The platform merges
// metadata keys; callers send the full desired metadata map.
func (c *Client) UpdateStore(ctx context.Context, storeID string, name string, metadata map[string]string) error {
	body := map[string]any{"metadata": metadata}
	if name != "" {
		body["name"] = name
	}
	return c.post(ctx, "/admin/stores/"+storeID, body, nil)
}

// SetSalesChannelDisabled enables or disables a sales channel.
func (c *Client) SetSalesChannelDisabled(ctx context.Context, channelID string, disabled bool) error {
	return c.post(ctx, "/admin/sales-channels/"+channelID, map[string]any{"is_disabled": disabled}, nil)
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// do performs a request against the platform admin API and decodes the
// response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.config.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("medusa: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("medusa: failed to create request: %w", err)
	}
	if c.config.APIToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIToken)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", commerce.ErrPlatformUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("medusa: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("%w: HTTP %d: %s", commerce.ErrPlatformRequestFailed, resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("%w: HTTP %d", commerce.ErrPlatformRequestFailed, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("medusa: failed to parse response: %w", err)
	}
	return nil
}

// convertOrder maps a wire order to a domain order, defaulting every
// optional field so aggregation code can assume well-typed inputs.
func convertOrder(w wireOrder) commerce.Order {
	order := commerce.Order{
		ID:             w.ID,
		DisplayID:      w.DisplayID,
		Status:         w.Status,
		Total:          toMinorUnits(w.Total),
		Subtotal:       toMinorUnits(w.Subtotal),
		CurrencyCode:   w.CurrencyCode,
		Email:          w.Email,
		CustomerID:     w.CustomerID,
		SalesChannelID: w.SalesChannelID,
		CreatedAt:      w.CreatedAt,
		Items:          make([]commerce.OrderItem, 0, len(w.Items)),
	}
	if order.CurrencyCode == "" {
		order.CurrencyCode = commerce.DefaultCurrency
	}
	if order.Email == "" {
		order.Email = "Unknown"
	}

	for _, item := range w.Items {
		productID := item.ProductID
		title := item.Title
		if productID == "" && item.Variant != nil {
			productID = item.Variant.ProductID
		}
		if title == "" && item.Variant != nil {
			title = item.Variant.Title
		}
		// Items with no resolvable product cannot be attributed.
		if productID == "" {
			continue
		}
		order.Items = append(order.Items, commerce.OrderItem{
			ProductID: productID,
			Title:     title,
			Quantity:  item.Quantity,
			Subtotal:  toMinorUnits(item.Subtotal),
			Total:     toMinorUnits(item.Total),
		})
	}
	return order
}

// stringifyMetadata flattens platform metadata (arbitrary JSON values) into
// the string map the domain layer works with. Nested values are dropped.
func stringifyMetadata(raw map[string]any) map[string]string {
	meta := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			meta[key] = v
		case bool:
			meta[key] = strconv.FormatBool(v)
		case float64:
			meta[key] = strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return meta
}

func toMinorUnits(v float64) int64 {
	return int64(math.Round(v))
}

func limitOrDefault(limit, fallback int) int {
	if limit <= 0 || limit > fallback {
		return fallback
	}
	return limit
}

// Interface conformance
var (
	_ commerce.DataSource = (*Client)(nil)
	_ commerce.StoreAdmin = (*Client)(nil)
)

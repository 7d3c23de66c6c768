package commerce

import (
	"context"
	"time"
)

// Default read bounds. Every list call against the platform is capped so a
// large catalog cannot turn a dashboard request into an unbounded read.
const (
	MaxOrders       = 1000
	MaxCustomers    = 1000
	MaxProducts     = 1000
	MaxChannels     = 100
	MaxAPIKeys      = 100
	DefaultCurrency = "usd"
)

// OrderFilter narrows an order listing to a creation-time window.
// Zero times mean no bound on that side.
type OrderFilter struct {
	CreatedAfter  time.Time
	CreatedBefore time.Time
	WithItems     bool
	Limit         int
}

// ListOptions bounds a plain collection listing.
type ListOptions struct {
	Limit int
}

// DataSource is the read surface the intelligence aggregator consumes.
// Implementations must treat the platform as an already-consistent snapshot:
// no retries, no caching.
type DataSource interface {
	ListOrders(ctx context.Context, filter OrderFilter) ([]Order, error)
	ListCustomers(ctx context.Context, opts ListOptions) ([]Customer, error)
	ListProducts(ctx context.Context, opts ListOptions) ([]Product, error)
	ListSalesChannels(ctx context.Context, opts ListOptions) ([]SalesChannel, error)
}

// StoreAdmin is the read/write surface for store directory and
// compliance-configuration management.
type StoreAdmin interface {
	ListSalesChannels(ctx context.Context, opts ListOptions) ([]SalesChannel, error)
	ListAPIKeys(ctx context.Context, opts ListOptions) ([]APIKey, error)
	ListStores(ctx context.Context) ([]StoreSettings, error)
	UpdateStore(ctx context.Context, storeID string, name string, metadata map[string]string) error
	SetSalesChannelDisabled(ctx context.Context, channelID string, disabled bool) error
}

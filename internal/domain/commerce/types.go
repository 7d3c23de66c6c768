package commerce

import "time"

// Store type tags carried in sales channel metadata
const (
	StoreTypeRetail    = "retail"
	StoreTypeLuxury    = "luxury"
	StoreTypeWholesale = "wholesale"
)

// Order statuses as reported by the commerce platform
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCanceled  = "canceled"
)

// Order is an order record as read from the commerce platform.
// Monetary amounts are in minor currency units (cents). Fields that the
// platform may omit are defaulted at ingestion so consumers never see
// missing values: Total defaults to 0, Email to "Unknown".
type Order struct {
	ID             string
	DisplayID      int64
	Status         string
	Total          int64
	Subtotal       int64
	CurrencyCode   string
	Email          string
	CustomerID     string
	SalesChannelID string
	CreatedAt      time.Time
	Items          []OrderItem
}

// OrderItem is a line item on an order. ProductID is resolved from the item
// itself or its variant at ingestion; items with neither are dropped there.
// Subtotal and Total are in minor units.
type OrderItem struct {
	ProductID string
	Title     string
	Quantity  int64
	Subtotal  int64
	Total     int64
}

// ItemRevenue returns the minor-unit revenue attributed to this item,
// preferring the pre-discount subtotal when present.
func (i OrderItem) ItemRevenue() int64 {
	if i.Subtotal > 0 {
		return i.Subtotal
	}
	return i.Total
}

// Customer is a customer record from the platform customer module.
type Customer struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Metadata  map[string]string
}

// AgeVerified reports whether the customer passed age verification,
// recorded by the storefront age gate in customer metadata.
func (c Customer) AgeVerified() bool {
	return c.Metadata["age_verified"] == "true"
}

// Product is a catalog product from the platform product module.
type Product struct {
	ID     string
	Title  string
	Status string
}

// SalesChannel is an independently configured storefront. Store type and
// public domain live in channel metadata.
type SalesChannel struct {
	ID         string
	Name       string
	IsDisabled bool
	Metadata   map[string]string
}

// StoreType returns the declared store type, defaulting to retail.
func (sc SalesChannel) StoreType() string {
	if t := sc.Metadata["store_type"]; t != "" {
		return t
	}
	return StoreTypeRetail
}

// Domain returns the storefront domain from channel metadata.
func (sc SalesChannel) Domain() string {
	if d := sc.Metadata["domain"]; d != "" {
		return d
	}
	return "localhost"
}

// APIKey is a platform API key. Publishable keys link storefronts to their
// sales channels by title convention.
type APIKey struct {
	ID    string
	Title string
	Token string
	Type  string
}

// StoreSettings is the platform store record whose metadata holds the
// business-level compliance configuration.
type StoreSettings struct {
	ID       string
	Name     string
	Metadata map[string]string
}

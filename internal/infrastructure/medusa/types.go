package medusa

import "time"

// Wire types for the platform admin API. Monetary amounts arrive as JSON
// numbers in minor currency units; optional fields are pointers or zero
// values and are defaulted during conversion to domain records.

type orderListResponse struct {
	Orders []wireOrder `json:"orders"`
	Count  int64       `json:"count"`
	Offset int64       `json:"offset"`
	Limit  int64       `json:"limit"`
}

type wireOrder struct {
	ID             string          `json:"id"`
	DisplayID      int64           `json:"display_id"`
	Status         string          `json:"status"`
	Total          float64         `json:"total"`
	Subtotal       float64         `json:"subtotal"`
	CurrencyCode   string          `json:"currency_code"`
	Email          string          `json:"email"`
	CustomerID     string          `json:"customer_id"`
	SalesChannelID string          `json:"sales_channel_id"`
	CreatedAt      time.Time       `json:"created_at"`
	Items          []wireOrderItem `json:"items"`
}

type wireOrderItem struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	ProductID string       `json:"product_id"`
	Quantity  int64        `json:"quantity"`
	Subtotal  float64      `json:"subtotal"`
	Total     float64      `json:"total"`
	Variant   *wireVariant `json:"variant"`
}

type wireVariant struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ProductID string `json:"product_id"`
}

type customerListResponse struct {
	Customers []wireCustomer `json:"customers"`
	Count     int64          `json:"count"`
}

type wireCustomer struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Metadata  map[string]any `json:"metadata"`
}

type productListResponse struct {
	Products []wireProduct `json:"products"`
	Count    int64         `json:"count"`
}

type wireProduct struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

type salesChannelListResponse struct {
	SalesChannels []wireSalesChannel `json:"sales_channels"`
	Count         int64              `json:"count"`
}

type wireSalesChannel struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	IsDisabled bool           `json:"is_disabled"`
	Metadata   map[string]any `json:"metadata"`
}

type apiKeyListResponse struct {
	APIKeys []wireAPIKey `json:"api_keys"`
	Count   int64        `json:"count"`
}

type wireAPIKey struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Token string `json:"token"`
	Type  string `json:"type"`
}

type storeListResponse struct {
	Stores []wireStore `json:"stores"`
}

type wireStore struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Metadata map[string]any `json:"metadata"`
}

type errorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

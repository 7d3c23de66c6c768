package intelligence

import "time"

// BusinessMetrics is the unified cross-store view served to the admin
// dashboard. Field names are the JSON contract the dashboard consumes.
type BusinessMetrics struct {
	TotalRevenue      float64            `json:"totalRevenue"`
	TotalOrders       int                `json:"totalOrders"`
	TotalCustomers    int                `json:"totalCustomers"`
	AverageOrderValue float64            `json:"averageOrderValue"`
	ConversionRate    float64            `json:"conversionRate"`
	GrowthRate        float64            `json:"growthRate"`
	StoreComparison   []StorePerformance `json:"storeComparison"`
}

// StorePerformance is the per-sales-channel breakdown.
//
// TotalCustomers counts distinct customers who ordered at this store within
// the window; the unified BusinessMetrics.TotalCustomers counts the whole
// customer book regardless of activity. The two are intentionally not the
// same basis, so per-store customer percentages are a rough indicator only.
type StorePerformance struct {
	StoreID           string         `json:"storeId"`
	StoreName         string         `json:"storeName"`
	StoreType         string         `json:"storeType"`
	Domain            string         `json:"domain"`
	TotalRevenue      float64        `json:"totalRevenue"`
	TotalOrders       int            `json:"totalOrders"`
	AverageOrderValue float64        `json:"averageOrderValue"`
	TotalCustomers    int            `json:"totalCustomers"`
	ConversionRate    float64        `json:"conversionRate"`
	TopProducts       []ProductSales `json:"topProducts"`
	RecentOrders      []OrderSummary `json:"recentOrders"`
}

// ProductSales is a top-product entry: revenue and quantity summed over a
// store's in-window line items.
type ProductSales struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

// OrderSummary is an order reduced to the fields the dashboard displays.
type OrderSummary struct {
	ID            string    `json:"id"`
	DisplayID     int64     `json:"display_id"`
	Total         float64   `json:"total"`
	CreatedAt     time.Time `json:"created_at"`
	CustomerEmail string    `json:"customer_email"`
}

// ZeroMetrics is the all-zero result served when the platform read fails:
// the dashboard stays up and renders zeros instead of an error page.
func ZeroMetrics() BusinessMetrics {
	return BusinessMetrics{StoreComparison: []StorePerformance{}}
}

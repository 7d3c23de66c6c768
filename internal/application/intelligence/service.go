package intelligence

import (
	"context"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/thca-multistore/backend/internal/domain/commerce"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
)

const topProductCount = 5
const recentOrderCount = 5

var cents = decimal.NewFromInt(100)

// Service computes cross-store business metrics from live platform reads.
// Nothing is cached: every call builds a fresh closure over freshly fetched
// data, so concurrent requests share no mutable state.
type Service struct {
	data   commerce.DataSource
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new intelligence Service.
func NewService(data commerce.DataSource, logger *zap.Logger) *Service {
	return &Service{
		data:   data,
		logger: logger,
		now:    time.Now,
	}
}

// BusinessMetrics aggregates orders, customers, products and sales channels
// for the given timeframe into a BusinessMetrics value.
//
// This method never fails past the read boundary: if any bulk read errors,
// it logs the cause and returns all-zero metrics so the dashboard renders
// zeros instead of breaking.
func (s *Service) BusinessMetrics(ctx context.Context, timeframe Timeframe) BusinessMetrics {
	current, previous := ResolveWindows(timeframe, s.now())

	var (
		orders     []commerce.Order
		prevOrders []commerce.Order
		customers  []commerce.Customer
		products   []commerce.Product
		channels   []commerce.SalesChannel
	)

	// The five bulk reads are independent of one another; fan out.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		orders, err = s.data.ListOrders(gctx, commerce.OrderFilter{
			CreatedAfter:  current.Start,
			CreatedBefore: current.End,
			WithItems:     true,
			Limit:         commerce.MaxOrders,
		})
		return err
	})
	g.Go(func() (err error) {
		prevOrders, err = s.data.ListOrders(gctx, commerce.OrderFilter{
			CreatedAfter:  previous.Start,
			CreatedBefore: previous.End,
			Limit:         commerce.MaxOrders,
		})
		return err
	})
	g.Go(func() (err error) {
		customers, err = s.data.ListCustomers(gctx, commerce.ListOptions{Limit: commerce.MaxCustomers})
		return err
	})
	g.Go(func() (err error) {
		products, err = s.data.ListProducts(gctx, commerce.ListOptions{Limit: commerce.MaxProducts})
		return err
	})
	g.Go(func() (err error) {
		channels, err = s.data.ListSalesChannels(gctx, commerce.ListOptions{Limit: commerce.MaxChannels})
		return err
	})
	log := s.logger
	if id := logger.RequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	if err := g.Wait(); err != nil {
		log.Warn("business metrics read failed, serving zero metrics",
			zap.String("timeframe", string(timeframe.Normalize())),
			zap.Error(err))
		return ZeroMetrics()
	}

	log.Debug("business metrics data loaded",
		zap.String("timeframe", string(timeframe.Normalize())),
		zap.Int("orders", len(orders)),
		zap.Int("previous_orders", len(prevOrders)),
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("channels", len(channels)))

	return aggregate(orders, prevOrders, customers, products, channels)
}

// aggregate reduces the fetched collections into the unified metrics and the
// per-store comparison. Pure function over already-ingested data.
func aggregate(
	orders, prevOrders []commerce.Order,
	customers []commerce.Customer,
	products []commerce.Product,
	channels []commerce.SalesChannel,
) BusinessMetrics {
	totalRevenue := revenueOf(orders)
	prevRevenue := revenueOf(prevOrders)
	totalOrders := int64(len(orders))
	totalCustomers := int64(len(customers))

	// Growth is defined as 0 when the baseline had no revenue. A store's
	// first revenue period therefore reports 0% growth; preserved as-is.
	growth := decimal.Zero
	if prevRevenue.IsPositive() {
		growth = totalRevenue.Sub(prevRevenue).Div(prevRevenue).Mul(cents)
	}

	titles := make(map[string]string, len(products))
	for _, p := range products {
		titles[p.ID] = p.Title
	}

	comparison := make([]StorePerformance, 0, len(channels))
	for _, channel := range channels {
		comparison = append(comparison, storePerformance(channel, orders, titles))
	}

	return BusinessMetrics{
		TotalRevenue:      totalRevenue.InexactFloat64(),
		TotalOrders:       int(totalOrders),
		TotalCustomers:    int(totalCustomers),
		AverageOrderValue: safeRatio(totalRevenue, totalOrders).InexactFloat64(),
		ConversionRate:    safeRatio(decimal.NewFromInt(totalOrders).Mul(cents), totalCustomers).InexactFloat64(),
		GrowthRate:        growth.InexactFloat64(),
		StoreComparison:   comparison,
	}
}

// storePerformance computes one store's breakdown from the in-window orders
// attributed to its sales channel. Orders matching no channel contribute to
// the unified totals only.
func storePerformance(channel commerce.SalesChannel, orders []commerce.Order, titles map[string]string) StorePerformance {
	var storeOrders []commerce.Order
	for _, o := range orders {
		if o.SalesChannelID == channel.ID {
			storeOrders = append(storeOrders, o)
		}
	}

	revenue := revenueOf(storeOrders)
	orderCount := int64(len(storeOrders))

	seen := make(map[string]struct{})
	for _, o := range storeOrders {
		if o.CustomerID != "" {
			seen[o.CustomerID] = struct{}{}
		}
	}
	customerCount := int64(len(seen))

	return StorePerformance{
		StoreID:           channel.ID,
		StoreName:         channel.Name,
		StoreType:         channel.StoreType(),
		Domain:            channel.Domain(),
		TotalRevenue:      revenue.InexactFloat64(),
		TotalOrders:       int(orderCount),
		AverageOrderValue: safeRatio(revenue, orderCount).InexactFloat64(),
		TotalCustomers:    int(customerCount),
		ConversionRate:    safeRatio(decimal.NewFromInt(orderCount).Mul(cents), customerCount).InexactFloat64(),
		TopProducts:       topProducts(storeOrders, titles),
		RecentOrders:      recentOrders(storeOrders),
	}
}

// topProducts groups a store's line items by product, summing revenue and
// quantity, and returns the top entries by revenue.
func topProducts(orders []commerce.Order, titles map[string]string) []ProductSales {
	type sales struct {
		title    string
		revenue  decimal.Decimal
		quantity int64
	}
	byProduct := make(map[string]*sales)
	var productIDs []string

	for _, o := range orders {
		for _, item := range o.Items {
			if item.ProductID == "" {
				continue
			}
			entry, ok := byProduct[item.ProductID]
			if !ok {
				title := item.Title
				if title == "" {
					title = titles[item.ProductID]
				}
				if title == "" {
					title = "Unknown Product"
				}
				entry = &sales{title: title}
				byProduct[item.ProductID] = entry
				productIDs = append(productIDs, item.ProductID)
			}
			entry.revenue = entry.revenue.Add(minorToMajor(item.ItemRevenue()))
			entry.quantity += item.Quantity
		}
	}

	ranked := make([]ProductSales, 0, len(productIDs))
	for _, id := range productIDs {
		entry := byProduct[id]
		ranked = append(ranked, ProductSales{
			ID:       id,
			Title:    entry.title,
			Revenue:  entry.revenue.InexactFloat64(),
			Quantity: entry.quantity,
		})
	}
	slices.SortStableFunc(ranked, func(a, b ProductSales) int {
		switch {
		case a.Revenue > b.Revenue:
			return -1
		case a.Revenue < b.Revenue:
			return 1
		default:
			return 0
		}
	})
	if len(ranked) > topProductCount {
		ranked = ranked[:topProductCount]
	}
	return ranked
}

// recentOrders projects a store's most recent orders for display.
func recentOrders(orders []commerce.Order) []OrderSummary {
	sorted := slices.Clone(orders)
	slices.SortStableFunc(sorted, func(a, b commerce.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > recentOrderCount {
		sorted = sorted[:recentOrderCount]
	}

	summaries := make([]OrderSummary, 0, len(sorted))
	for _, o := range sorted {
		summaries = append(summaries, OrderSummary{
			ID:            o.ID,
			DisplayID:     o.DisplayID,
			Total:         minorToMajor(o.Total).InexactFloat64(),
			CreatedAt:     o.CreatedAt,
			CustomerEmail: o.Email,
		})
	}
	return summaries
}

// revenueOf sums order totals, converting minor units to major.
func revenueOf(orders []commerce.Order) decimal.Decimal {
	var total int64
	for _, o := range orders {
		total += o.Total
	}
	return minorToMajor(total)
}

func minorToMajor(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(cents)
}

// safeRatio divides n by d, defined as 0 when the denominator is 0 so
// derived ratios never produce NaN or Infinity.
func safeRatio(n decimal.Decimal, d int64) decimal.Decimal {
	if d == 0 {
		return decimal.Zero
	}
	return n.Div(decimal.NewFromInt(d))
}

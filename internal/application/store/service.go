package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/thca-multistore/backend/internal/domain/commerce"
)

// Compliance thresholds for the age verification rate, in percent.
const (
	complianceThreshold = 98.0
	warningThreshold    = 95.0
)

// Compliance statuses
const (
	StatusCompliant = "compliant"
	StatusWarning   = "warning"
	StatusCritical  = "critical"
)

// Fallbacks supplies environment-level defaults applied when a store has no
// compliance metadata of its own yet.
type Fallbacks struct {
	LicenseNumber   string
	BusinessState   string
	BusinessType    string
	ComplianceEmail string
	MaxOrderValue   int64
	COADir          string
}

// Service exposes the store directory, compliance configuration and
// compliance metrics operations.
type Service struct {
	data      commerce.DataSource
	admin     commerce.StoreAdmin
	fallbacks Fallbacks
	logger    *zap.Logger
	validate  *validator.Validate
	now       func() time.Time
}

func NewService(data commerce.DataSource, admin commerce.StoreAdmin, fallbacks Fallbacks, logger *zap.Logger) *Service {
	return &Service{
		data:      data,
		admin:     admin,
		fallbacks: fallbacks,
		logger:    logger,
		validate:  validator.New(),
		now:       time.Now,
	}
}

// StoreConfig is one entry in the store directory, a sales channel joined
// with its publishable API key.
type StoreConfig struct {
	StoreID   string `json:"storeId"`
	StoreName string `json:"storeName"`
	StoreType string `json:"storeType"`
	IsActive  bool   `json:"isActive"`
	Domain    string `json:"domain"`
	PublicKey string `json:"publicKey"`
}

// ListStores joins sales channels with publishable API keys. Key assignment
// matches on title because the platform does not link keys to channels in
// its list payloads.
func (s *Service) ListStores(ctx context.Context) ([]StoreConfig, error) {
	channels, err := s.admin.ListSalesChannels(ctx, commerce.ListOptions{Limit: commerce.MaxChannels})
	if err != nil {
		return nil, fmt.Errorf("failed to list sales channels: %w", err)
	}
	keys, err := s.admin.ListAPIKeys(ctx, commerce.ListOptions{Limit: commerce.MaxAPIKeys})
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}

	stores := make([]StoreConfig, 0, len(channels))
	for _, ch := range channels {
		stores = append(stores, StoreConfig{
			StoreID:   ch.ID,
			StoreName: ch.Name,
			StoreType: ch.StoreType(),
			IsActive:  !ch.IsDisabled,
			Domain:    ch.Domain(),
			PublicKey: matchKey(keys, ch),
		})
	}
	return stores, nil
}

// matchKey picks the publishable key for a channel by fuzzy title match.
// The store type is only considered when the channel declares one, so the
// implicit retail default cannot claim another store's key.
func matchKey(keys []commerce.APIKey, ch commerce.SalesChannel) string {
	name := strings.ToLower(ch.Name)
	storeType := strings.ToLower(ch.Metadata["store_type"])
	for _, key := range keys {
		title := strings.ToLower(key.Title)
		if strings.Contains(title, name) || strings.Contains(name, title) {
			return key.Token
		}
		if storeType != "" && strings.Contains(title, storeType) {
			return key.Token
		}
	}
	return ""
}

// SetStoreActive enables or disables a storefront by toggling its sales
// channel.
func (s *Service) SetStoreActive(ctx context.Context, storeID string, active bool) error {
	if err := s.admin.SetSalesChannelDisabled(ctx, storeID, !active); err != nil {
		return fmt.Errorf("failed to update store status: %w", err)
	}
	s.logger.Info("store status updated",
		zap.String("store_id", storeID),
		zap.Bool("active", active))
	return nil
}

// NotificationSettings controls which alert categories are delivered.
type NotificationSettings struct {
	OrderAlerts      bool `json:"orderAlerts"`
	ComplianceAlerts bool `json:"complianceAlerts"`
	LowStockAlerts   bool `json:"lowStockAlerts"`
}

// BusinessConfig is the compliance and business configuration persisted in
// the primary store's metadata.
type BusinessConfig struct {
	LicenseNumber        string               `json:"licenseNumber" binding:"required" validate:"required"`
	BusinessState        string               `json:"businessState" binding:"required" validate:"required,len=2"`
	BusinessType         string               `json:"businessType" binding:"required" validate:"required,oneof=retail wholesale manufacturing"`
	ComplianceEmail      string               `json:"complianceEmail" binding:"required" validate:"required,email"`
	MaxOrderValue        int64                `json:"maxOrderValue" validate:"gt=0"`
	AgeVerification      bool                 `json:"ageVerificationRequired"`
	COARequired          bool                 `json:"coaRequired"`
	PaymentProcessor     string               `json:"paymentProcessor" validate:"required,oneof=authorizenet stripe paypal"`
	NotificationSettings NotificationSettings `json:"notificationSettings"`
	UpdatedAt            string               `json:"updatedAt,omitempty"`
}

// Metadata keys under which the configuration lives on the store record.
const (
	metaLicenseNumber    = "license_number"
	metaBusinessState    = "business_state"
	metaBusinessType     = "business_type"
	metaComplianceEmail  = "compliance_email"
	metaMaxOrderValue    = "max_order_value"
	metaAgeVerification  = "age_verification"
	metaCOARequired      = "coa_required"
	metaPaymentProcessor = "payment_processor"
	metaOrderAlerts      = "order_alerts"
	metaComplianceAlerts = "compliance_alerts"
	metaLowStockAlerts   = "low_stock_alerts"
	metaUpdatedAt        = "updated_at"
)

// GetConfig reads the business configuration from the primary store's
// metadata, falling back to environment defaults for unset fields.
func (s *Service) GetConfig(ctx context.Context) (BusinessConfig, error) {
	primary, err := s.primaryStore(ctx)
	if err != nil {
		return BusinessConfig{}, err
	}
	meta := primary.Metadata
	if meta == nil {
		meta = map[string]string{}
	}

	cfg := BusinessConfig{
		LicenseNumber:    orDefault(meta[metaLicenseNumber], s.fallbacks.LicenseNumber),
		BusinessState:    orDefault(meta[metaBusinessState], s.fallbacks.BusinessState),
		BusinessType:     orDefault(meta[metaBusinessType], s.fallbacks.BusinessType),
		ComplianceEmail:  orDefault(meta[metaComplianceEmail], s.fallbacks.ComplianceEmail),
		MaxOrderValue:    s.fallbacks.MaxOrderValue,
		AgeVerification:  boolMeta(meta, metaAgeVerification, true),
		COARequired:      boolMeta(meta, metaCOARequired, true),
		PaymentProcessor: orDefault(meta[metaPaymentProcessor], "authorizenet"),
		NotificationSettings: NotificationSettings{
			OrderAlerts:      boolMeta(meta, metaOrderAlerts, true),
			ComplianceAlerts: boolMeta(meta, metaComplianceAlerts, true),
			LowStockAlerts:   boolMeta(meta, metaLowStockAlerts, false),
		},
		UpdatedAt: meta[metaUpdatedAt],
	}
	if raw := meta[metaMaxOrderValue]; raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			cfg.MaxOrderValue = v
		}
	}
	return cfg, nil
}

// SaveConfig validates and persists the business configuration to the
// primary store's metadata.
func (s *Service) SaveConfig(ctx context.Context, cfg BusinessConfig) (BusinessConfig, error) {
	if err := s.validate.Struct(cfg); err != nil {
		return BusinessConfig{}, fmt.Errorf("invalid business config: %w", err)
	}

	primary, err := s.primaryStore(ctx)
	if err != nil {
		return BusinessConfig{}, err
	}

	cfg.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	meta := map[string]string{
		metaLicenseNumber:    cfg.LicenseNumber,
		metaBusinessState:    strings.ToUpper(cfg.BusinessState),
		metaBusinessType:     cfg.BusinessType,
		metaComplianceEmail:  cfg.ComplianceEmail,
		metaMaxOrderValue:    strconv.FormatInt(cfg.MaxOrderValue, 10),
		metaAgeVerification:  strconv.FormatBool(cfg.AgeVerification),
		metaCOARequired:      strconv.FormatBool(cfg.COARequired),
		metaPaymentProcessor: cfg.PaymentProcessor,
		metaOrderAlerts:      strconv.FormatBool(cfg.NotificationSettings.OrderAlerts),
		metaComplianceAlerts: strconv.FormatBool(cfg.NotificationSettings.ComplianceAlerts),
		metaLowStockAlerts:   strconv.FormatBool(cfg.NotificationSettings.LowStockAlerts),
		metaUpdatedAt:        cfg.UpdatedAt,
	}

	if err := s.admin.UpdateStore(ctx, primary.ID, primary.Name, meta); err != nil {
		return BusinessConfig{}, fmt.Errorf("failed to save business config: %w", err)
	}
	s.logger.Info("business config saved", zap.String("store_id", primary.ID))
	cfg.BusinessState = strings.ToUpper(cfg.BusinessState)
	return cfg, nil
}

// ComplianceMetrics is the compliance dashboard payload.
type ComplianceMetrics struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalOrders         int64   `json:"totalOrders"`
	ComplianceStatus    string  `json:"complianceStatus"`
	AgeVerificationRate float64 `json:"ageVerificationRate"`
	COAFilesActive      int64   `json:"coaFilesActive"`
	LastComplianceCheck string  `json:"lastComplianceCheck"`
}

// Metrics computes compliance statistics over completed orders and the
// customer base. The COA count is the number of PDF certificates on disk.
func (s *Service) Metrics(ctx context.Context) (ComplianceMetrics, error) {
	orders, err := s.data.ListOrders(ctx, commerce.OrderFilter{Limit: commerce.MaxOrders})
	if err != nil {
		return ComplianceMetrics{}, fmt.Errorf("failed to list orders: %w", err)
	}
	customers, err := s.data.ListCustomers(ctx, commerce.ListOptions{Limit: commerce.MaxCustomers})
	if err != nil {
		return ComplianceMetrics{}, fmt.Errorf("failed to list customers: %w", err)
	}

	revenue := decimal.Zero
	var completed int64
	for _, order := range orders {
		if order.Status != commerce.OrderStatusCompleted {
			continue
		}
		completed++
		revenue = revenue.Add(decimal.NewFromInt(order.Total))
	}

	var verified int64
	for _, c := range customers {
		if c.AgeVerified() {
			verified++
		}
	}
	rate := 0.0
	if len(customers) > 0 {
		rate = float64(verified) / float64(len(customers)) * 100
	}

	status := StatusCritical
	switch {
	case rate >= complianceThreshold:
		status = StatusCompliant
	case rate >= warningThreshold:
		status = StatusWarning
	}

	totalRevenue, _ := revenue.Div(decimal.NewFromInt(100)).Round(2).Float64()
	return ComplianceMetrics{
		TotalRevenue:        totalRevenue,
		TotalOrders:         completed,
		ComplianceStatus:    status,
		AgeVerificationRate: roundRate(rate),
		COAFilesActive:      s.countCOAFiles(),
		LastComplianceCheck: s.now().In(time.UTC).Format("2006-01-02"),
	}, nil
}

// countCOAFiles counts PDF certificates of analysis in the upload directory.
// A missing directory simply means no certificates have been uploaded yet.
func (s *Service) countCOAFiles() int64 {
	entries, err := os.ReadDir(s.fallbacks.COADir)
	if err != nil {
		return 0
	}
	var count int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			count++
		}
	}
	return count
}

func (s *Service) primaryStore(ctx context.Context) (commerce.StoreSettings, error) {
	stores, err := s.admin.ListStores(ctx)
	if err != nil {
		return commerce.StoreSettings{}, fmt.Errorf("failed to list stores: %w", err)
	}
	if len(stores) == 0 {
		return commerce.StoreSettings{}, commerce.ErrStoreNotFound
	}
	return stores[0], nil
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}

func boolMeta(meta map[string]string, key string, fallback bool) bool {
	raw, ok := meta[key]
	if !ok || raw == "" {
		return fallback
	}
	return raw == "true"
}

func roundRate(rate float64) float64 {
	d := decimal.NewFromFloat(rate).Round(1)
	f, _ := d.Float64()
	return f
}

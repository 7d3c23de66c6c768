package email

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thca-multistore/backend/internal/domain/notification"
	emailinfra "github.com/thca-multistore/backend/internal/infrastructure/email"
	"github.com/thca-multistore/backend/internal/infrastructure/logger"
)

const recentEmailCount = 10

// Delivery statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrInvalidRecipient indicates the recipient address failed format validation.
var ErrInvalidRecipient = errors.New("invalid email address format")

// Service runs the email operations center: test sends, the template
// catalog, and delivery analytics. Analytics are computed from an
// in-process delivery log populated as emails go out; the provider API does
// not expose historical listings.
type Service struct {
	sender  notification.Sender
	logger  *zap.Logger
	domains []string
	now     func() time.Time

	mu         sync.RWMutex
	deliveries []DeliveryRecord
}

// NewService creates an email operations service. domains is the list of
// storefront domains used for the per-store analytics breakdown.
func NewService(sender notification.Sender, domains []string, logger *zap.Logger) *Service {
	return &Service{
		sender:  sender,
		logger:  logger,
		domains: domains,
		now:     time.Now,
	}
}

// DeliveryRecord is one entry in the in-process delivery log.
type DeliveryRecord struct {
	ID        string    `json:"id"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Status    string    `json:"status"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TestEmailRequest is a request to send a template test email.
type TestEmailRequest struct {
	Template    string `json:"template" binding:"required"`
	To          string `json:"to" binding:"required"`
	StoreName   string `json:"store_name"`
	StoreDomain string `json:"store_domain"`
}

// Analytics is the delivery statistics payload for the operations center.
type Analytics struct {
	TotalSent       int64             `json:"totalSent"`
	TotalDelivered  int64             `json:"totalDelivered"`
	TotalFailed     int64             `json:"totalFailed"`
	DeliveryRate    float64           `json:"deliveryRate"`
	RecentEmails    []DeliveryRecord  `json:"recentEmails"`
	DomainBreakdown []DomainAnalytics `json:"domainBreakdown"`
}

// DomainAnalytics is the per-storefront slice of the delivery log.
type DomainAnalytics struct {
	Domain string           `json:"domain"`
	Sent   int64            `json:"sent"`
	Recent []DeliveryRecord `json:"recent"`
}

// SendTest validates the request, renders the template with sample data and
// sends it through the provider. Both successful and failed sends are
// recorded for analytics.
func (s *Service) SendTest(ctx context.Context, req TestEmailRequest) (DeliveryRecord, error) {
	if !emailPattern.MatchString(req.To) {
		return DeliveryRecord{}, fmt.Errorf("%w: %s", ErrInvalidRecipient, req.To)
	}
	if !emailinfra.HasTemplate(req.Template) {
		return DeliveryRecord{}, fmt.Errorf("%w: %s", notification.ErrTemplateNotFound, req.Template)
	}

	data := emailinfra.SampleData(req.To, req.StoreName)
	if req.StoreDomain != "" {
		data.StoreDomain = req.StoreDomain
	}

	html, err := emailinfra.Render(req.Template, data)
	if err != nil {
		return DeliveryRecord{}, err
	}
	subject := emailinfra.Subject(req.Template, data)

	providerID, sendErr := s.sender.Send(ctx, notification.Message{
		To:      req.To,
		Subject: subject,
		HTML:    html,
	})

	record := DeliveryRecord{
		ID:        providerID,
		To:        req.To,
		Subject:   subject,
		Status:    StatusSent,
		Domain:    s.matchDomain(req.StoreDomain),
		CreatedAt: s.now(),
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	log := s.logger
	if id := logger.RequestID(ctx); id != "" {
		log = log.With(zap.String("request_id", id))
	}

	if sendErr != nil {
		record.Status = StatusFailed
		s.record(record)
		log.Error("test email send failed",
			zap.String("template", req.Template),
			zap.String("to", req.To),
			zap.Error(sendErr))
		return record, fmt.Errorf("failed to send test email: %w", sendErr)
	}

	s.record(record)
	log.Info("test email sent",
		zap.String("template", req.Template),
		zap.String("to", req.To),
		zap.String("message_id", record.ID))
	return record, nil
}

// Templates returns the built-in template catalog.
func (s *Service) Templates() []notification.TemplateInfo {
	return emailinfra.Catalog()
}

// Preview renders a template with sample data for the live preview pane.
func (s *Service) Preview(templateName, storeName string) (string, error) {
	return emailinfra.Render(templateName, emailinfra.SampleData("preview@example.com", storeName))
}

// DeliveryAnalytics computes delivery statistics from the in-process log.
// All rates are defined as 0 when the log is empty.
func (s *Service) DeliveryAnalytics() Analytics {
	s.mu.RLock()
	records := slices.Clone(s.deliveries)
	s.mu.RUnlock()
	if records == nil {
		records = []DeliveryRecord{}
	}

	// newest first
	slices.SortStableFunc(records, func(a, b DeliveryRecord) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	var sent, failed int64
	for _, r := range records {
		switch r.Status {
		case StatusSent:
			sent++
		case StatusFailed:
			failed++
		}
	}

	total := sent + failed
	deliveryRate := 0.0
	if total > 0 {
		deliveryRate = float64(sent) / float64(total) * 100
	}

	breakdown := make([]DomainAnalytics, 0, len(s.domains))
	for _, domain := range s.domains {
		domainRecords := []DeliveryRecord{}
		var domainSent int64
		for _, r := range records {
			if r.Domain != domain {
				continue
			}
			domainSent++
			if len(domainRecords) < recentEmailCount {
				domainRecords = append(domainRecords, r)
			}
		}
		breakdown = append(breakdown, DomainAnalytics{
			Domain: domain,
			Sent:   domainSent,
			Recent: domainRecords,
		})
	}

	recent := records
	if len(recent) > recentEmailCount {
		recent = recent[:recentEmailCount]
	}

	return Analytics{
		TotalSent:       total,
		TotalDelivered:  sent,
		TotalFailed:     failed,
		DeliveryRate:    deliveryRate,
		RecentEmails:    recent,
		DomainBreakdown: breakdown,
	}
}

func (s *Service) record(r DeliveryRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deliveries = append(s.deliveries, r)
}

// matchDomain maps a requested store domain onto a configured one so the
// breakdown only ever reports known storefronts.
func (s *Service) matchDomain(requested string) string {
	if requested == "" {
		return ""
	}
	for _, domain := range s.domains {
		if strings.EqualFold(domain, requested) {
			return domain
		}
	}
	return ""
}

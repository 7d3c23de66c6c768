package notification

import (
	"context"
	"errors"
)

// Template categories
const (
	TemplateTypeOrder     = "order"
	TemplateTypeCustomer  = "customer"
	TemplateTypeMarketing = "marketing"
)

// ErrTemplateNotFound indicates an unknown template id.
var ErrTemplateNotFound = errors.New("email template not found")

// Message is a rendered email ready to hand to the provider.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message through the email provider and returns the
// provider-assigned message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// TemplateInfo describes one transactional template in the catalog.
type TemplateInfo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Status  string `json:"status"`
	Subject string `json:"subject"`
}

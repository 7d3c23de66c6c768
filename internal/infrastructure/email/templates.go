package email

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/thca-multistore/backend/internal/domain/notification"
)

// TemplateData carries the values the transactional templates interpolate.
type TemplateData struct {
	StoreName      string
	StoreDomain    string
	CustomerName   string
	CustomerEmail  string
	OrderDisplayID int64
	OrderTotal     string
	TrackingNumber string
	Carrier        string
	ResetURL       string
}

// SampleData returns representative values for previews and test sends.
func SampleData(to, storeName string) TemplateData {
	if storeName == "" {
		storeName = "Test Store"
	}
	return TemplateData{
		StoreName:      storeName,
		StoreDomain:    "localhost:9000",
		CustomerName:   "Test Customer",
		CustomerEmail:  to,
		OrderDisplayID: 1001,
		OrderTotal:     "$50.00",
		TrackingNumber: "TEST123456789",
		Carrier:        "Test Carrier",
		ResetURL:       "https://localhost:9000/reset-password?token=sample",
	}
}

// layout wraps every template body in the shared shell.
const layout = `<!doctype html>
<html>
  <body style="font-family: Arial, sans-serif; margin: 0; padding: 0; background: #f4f4f5;">
    <div style="max-width: 560px; margin: 24px auto; background: #ffffff; border-radius: 8px; padding: 32px;">
      <h2 style="margin-top: 0; color: #18181b;">{{.StoreName}}</h2>
      %s
      <p style="color: #71717a; font-size: 12px; margin-top: 32px;">
        Sent by {{.StoreName}} ({{.StoreDomain}})
      </p>
    </div>
  </body>
</html>`

var templateBodies = map[string]string{
	"order-confirmation": `<p>Hi {{.CustomerName}},</p>
      <p>Thanks for your order! We've received order <strong>#{{.OrderDisplayID}}</strong>
      totaling <strong>{{.OrderTotal}}</strong> and are getting it ready.</p>`,
	"order-shipped": `<p>Hi {{.CustomerName}},</p>
      <p>Order <strong>#{{.OrderDisplayID}}</strong> is on its way with {{.Carrier}}.</p>
      <p>Tracking number: <strong>{{.TrackingNumber}}</strong></p>`,
	"order-delivered": `<p>Hi {{.CustomerName}},</p>
      <p>Order <strong>#{{.OrderDisplayID}}</strong> was delivered. We hope you enjoy it!</p>`,
	"order-cancelled": `<p>Hi {{.CustomerName}},</p>
      <p>Order <strong>#{{.OrderDisplayID}}</strong> has been cancelled. If you were charged,
      the refund of {{.OrderTotal}} is on its way back to you.</p>`,
	"payment-failed": `<p>Hi {{.CustomerName}},</p>
      <p>We couldn't process the payment of {{.OrderTotal}} for order
      <strong>#{{.OrderDisplayID}}</strong>. Please update your payment method and try again.</p>`,
	"refund-processed": `<p>Hi {{.CustomerName}},</p>
      <p>Your refund of <strong>{{.OrderTotal}}</strong> for order
      <strong>#{{.OrderDisplayID}}</strong> has been processed.</p>`,
	"customer-welcome": `<p>Hi {{.CustomerName}},</p>
      <p>Welcome to {{.StoreName}}! Your account is ready.</p>`,
	"password-reset": `<p>Hi {{.CustomerName}},</p>
      <p>We received a request to reset your password.</p>
      <p><a href="{{.ResetURL}}" style="color: #2563eb;">Reset your password</a></p>
      <p>If you didn't request this, you can safely ignore this email.</p>`,
}

var templateTypes = map[string]string{
	"order-confirmation": notification.TemplateTypeOrder,
	"order-shipped":      notification.TemplateTypeOrder,
	"order-delivered":    notification.TemplateTypeOrder,
	"order-cancelled":    notification.TemplateTypeOrder,
	"payment-failed":     notification.TemplateTypeOrder,
	"refund-processed":   notification.TemplateTypeOrder,
	"customer-welcome":   notification.TemplateTypeCustomer,
	"password-reset":     notification.TemplateTypeCustomer,
}

// catalog order, stable for API responses
var templateOrder = []string{
	"order-confirmation",
	"order-shipped",
	"order-delivered",
	"order-cancelled",
	"payment-failed",
	"refund-processed",
	"customer-welcome",
	"password-reset",
}

var parsedTemplates = parseAll()

func parseAll() map[string]*template.Template {
	parsed := make(map[string]*template.Template, len(templateBodies))
	for name, body := range templateBodies {
		parsed[name] = template.Must(template.New(name).Parse(fmt.Sprintf(layout, body)))
	}
	return parsed
}

// Subject returns the subject line for a template, mirroring what the
// storefront notification provider sends.
func Subject(name string, data TemplateData) string {
	switch name {
	case "order-confirmation":
		return fmt.Sprintf("Order Confirmation #%d", data.OrderDisplayID)
	case "order-shipped":
		return fmt.Sprintf("Order Shipped #%d", data.OrderDisplayID)
	case "order-delivered":
		return fmt.Sprintf("Order Delivered #%d", data.OrderDisplayID)
	case "order-cancelled":
		return fmt.Sprintf("Order Cancelled #%d", data.OrderDisplayID)
	case "payment-failed":
		return fmt.Sprintf("Payment Failed for Order #%d", data.OrderDisplayID)
	case "refund-processed":
		return fmt.Sprintf("Refund Processed for Order #%d", data.OrderDisplayID)
	case "customer-welcome":
		return fmt.Sprintf("Welcome to %s!", data.StoreName)
	case "password-reset":
		return "Password Reset Request"
	default:
		return "Notification"
	}
}

// Render renders the named template with the given data.
func Render(name string, data TemplateData) (string, error) {
	tmpl, ok := parsedTemplates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", notification.ErrTemplateNotFound, name)
	}
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("email: failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// catalogSubjects are the placeholder subject lines shown in the template
// listing, before real order/customer data is interpolated.
var catalogSubjects = map[string]string{
	"order-confirmation": "Order Confirmation #{order_id}",
	"order-shipped":      "Order Shipped #{order_id}",
	"order-delivered":    "Order Delivered #{order_id}",
	"order-cancelled":    "Order Cancelled #{order_id}",
	"payment-failed":     "Payment Failed for Order #{order_id}",
	"refund-processed":   "Refund Processed for Order #{order_id}",
	"customer-welcome":   "Welcome to {store_name}!",
	"password-reset":     "Password Reset Request",
}

// Catalog lists the built-in transactional templates.
func Catalog() []notification.TemplateInfo {
	infos := make([]notification.TemplateInfo, 0, len(templateOrder))
	for _, name := range templateOrder {
		infos = append(infos, notification.TemplateInfo{
			ID:      name,
			Name:    titleCase(name),
			Type:    templateTypes[name],
			Status:  "active",
			Subject: catalogSubjects[name],
		})
	}
	return infos
}

// HasTemplate reports whether the template id exists.
func HasTemplate(name string) bool {
	_, ok := parsedTemplates[name]
	return ok
}

func titleCase(name string) string {
	words := strings.Split(name, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

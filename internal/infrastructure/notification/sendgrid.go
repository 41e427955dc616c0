// Package notification delivers transactional email to customers.
package notification

import (
	"context"
	"fmt"
	"strings"

	appnotification "github.com/KirshnaLighting/Krishna-Lighting/internal/application/notification"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/domain/order"
	"github.com/KirshnaLighting/Krishna-Lighting/internal/infrastructure/config"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// Ensure SendGridMailer implements Mailer
var _ appnotification.Mailer = (*SendGridMailer)(nil)

// SendGridMailer sends customer email through the SendGrid API
type SendGridMailer struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
	logger    *zap.Logger
}

// NewSendGridMailer creates a new SendGridMailer from configuration
func NewSendGridMailer(cfg config.EmailConfig, logger *zap.Logger) (*SendGridMailer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("sendgrid API key is required")
	}
	return &SendGridMailer{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		logger:    logger,
	}, nil
}

// SendOrderConfirmation sends the order confirmation email
func (m *SendGridMailer) SendOrderConfirmation(ctx context.Context, to, name string, o *order.Order) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	recipient := mail.NewEmail(name, to)
	subject := fmt.Sprintf("Order Confirmation - %s", o.OrderNumber)

	message := mail.NewSingleEmail(from, subject, recipient,
		confirmationText(name, o), confirmationHTML(name, o))

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected the message, status code: %d", response.StatusCode)
	}

	m.logger.Debug("order confirmation sent",
		zap.String("order_number", o.OrderNumber),
		zap.Int("status_code", response.StatusCode))
	return nil
}

// SendPasswordReset sends the password reset link
func (m *SendGridMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	from := mail.NewEmail(m.fromName, m.fromEmail)
	recipient := mail.NewEmail(name, to)
	subject := "Krishna Lighting - Password Reset"

	message := mail.NewSingleEmail(from, subject, recipient,
		resetText(name, resetURL), resetHTML(name, resetURL))

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid rejected the message, status code: %d", response.StatusCode)
	}

	m.logger.Debug("password reset email sent",
		zap.Int("status_code", response.StatusCode))
	return nil
}

func resetText(name, resetURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	b.WriteString("You are receiving this email because a password reset was requested for your account. ")
	fmt.Fprintf(&b, "Click the following link to choose a new password:\n\n%s\n\n", resetURL)
	b.WriteString("The link expires in one hour. If you did not request a reset, you can ignore this email.\n")
	b.WriteString("\nKrishna Lighting\n")
	return b.String()
}

func resetHTML(name, resetURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", name)
	b.WriteString("<p>You are receiving this email because a password reset was requested for your account.</p>")
	fmt.Fprintf(&b, "<p><a href=\"%s\">Reset your password</a></p>", resetURL)
	b.WriteString("<p>The link expires in one hour. If you did not request a reset, you can ignore this email.</p>")
	b.WriteString("<p>Krishna Lighting</p>")
	return b.String()
}

func confirmationText(name string, o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", o.OrderNumber)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "- %s (%s) x%d: Rs. %s\n", item.ProductName, item.Wattage, item.Quantity, item.Amount.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: Rs. %s\n", o.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "Shipping: Rs. %s\n", o.ShippingFee.StringFixed(2))
	fmt.Fprintf(&b, "Total: Rs. %s\n\n", o.TotalAmount.StringFixed(2))
	fmt.Fprintf(&b, "Payment: cash on delivery.\n")
	fmt.Fprintf(&b, "We will ship to:\n%s\n%s\n%s, %s %s\n",
		o.ShippingAddress.FullName, o.ShippingAddress.AddressLine1,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.ZipCode)
	b.WriteString("\nKrishna Lighting\n")
	return b.String()
}

func confirmationHTML(name string, o *order.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Hi %s,</p>", name)
	fmt.Fprintf(&b, "<p>Thank you for your order <strong>%s</strong>.</p><ul>", o.OrderNumber)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "<li>%s (%s) &times;%d: Rs. %s</li>", item.ProductName, item.Wattage, item.Quantity, item.Amount.StringFixed(2))
	}
	fmt.Fprintf(&b, "</ul><p>Subtotal: Rs. %s<br>Shipping: Rs. %s<br><strong>Total: Rs. %s</strong></p>",
		o.Subtotal.StringFixed(2), o.ShippingFee.StringFixed(2), o.TotalAmount.StringFixed(2))
	b.WriteString("<p>Payment: cash on delivery.</p>")
	fmt.Fprintf(&b, "<p>Shipping to:<br>%s<br>%s<br>%s, %s %s</p>",
		o.ShippingAddress.FullName, o.ShippingAddress.AddressLine1,
		o.ShippingAddress.City, o.ShippingAddress.State, o.ShippingAddress.ZipCode)
	b.WriteString("<p>Krishna Lighting</p>")
	return b.String()
}

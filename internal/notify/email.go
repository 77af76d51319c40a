// Package notify holds the fire-and-forget order notification collaborators:
// outbound email and the WhatsApp bridge. Delivery failures are logged by
// callers and never affect order creation.
package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mystickies/store-api/internal/config"
	"github.com/mystickies/store-api/internal/models"
)

// EmailNotifier delivers order emails. Implementations must be safe for
// concurrent use.
type EmailNotifier interface {
	NotifyAdmin(o *models.Order) error
	ConfirmToCustomer(o *models.Order) error
}

// NoopEmailNotifier is used when SMTP is not configured.
type NoopEmailNotifier struct{}

func (NoopEmailNotifier) NotifyAdmin(*models.Order) error       { return nil }
func (NoopEmailNotifier) ConfirmToCustomer(*models.Order) error { return nil }

// SMTPNotifier sends order emails through a plain SMTP relay.
type SMTPNotifier struct {
	cfg config.SMTPConfig
}

// NewSMTPNotifier constructs an SMTPNotifier.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// NotifyAdmin emails the configured admin address about a new order.
func (n *SMTPNotifier) NotifyAdmin(o *models.Order) error {
	if n.cfg.AdminEmail == "" {
		return nil
	}
	subject := fmt.Sprintf("New order %s", o.OrderNumber)
	return n.send(n.cfg.AdminEmail, subject, orderBody(o, true))
}

// ConfirmToCustomer emails the customer a confirmation, when they supplied
// an address.
func (n *SMTPNotifier) ConfirmToCustomer(o *models.Order) error {
	if o.Customer.Email == "" {
		return nil
	}
	subject := fmt.Sprintf("Order confirmation %s", o.OrderNumber)
	return n.send(o.Customer.Email, subject, orderBody(o, false))
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	addr := n.cfg.Host + ":" + n.cfg.Port

	msg := "From: " + n.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}
	return smtp.SendMail(addr, auth, n.cfg.From, []string{to}, []byte(msg))
}

func orderBody(o *models.Order, admin bool) string {
	var b strings.Builder
	if admin {
		fmt.Fprintf(&b, "Order %s from %s (%s, %s)\n\n",
			o.OrderNumber, o.Customer.FullName, o.Customer.PhoneNumber, o.Customer.City)
	} else {
		fmt.Fprintf(&b, "Thank you for your order, %s!\n\nOrder %s\n\n",
			o.Customer.FullName, o.OrderNumber)
	}
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d @ %.2f\n", it.ProductName, it.Quantity, it.Price)
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", o.TotalAmount)
	return b.String()
}

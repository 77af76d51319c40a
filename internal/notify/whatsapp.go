package notify

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mystickies/store-api/internal/config"
	"github.com/mystickies/store-api/internal/models"
)

// WhatsAppNotifier publishes new orders toward the WhatsApp channel. The
// sender process owns the actual session; readiness is its connection state.
type WhatsAppNotifier interface {
	IsReady() bool
	Send(o *models.Order) error
}

// NoopWhatsAppNotifier is used when the bridge is not configured.
type NoopWhatsAppNotifier struct{}

func (NoopWhatsAppNotifier) IsReady() bool            { return false }
func (NoopWhatsAppNotifier) Send(*models.Order) error { return nil }

// NATSWhatsAppBridge publishes order payloads to a NATS subject consumed by
// an external WhatsApp sender.
type NATSWhatsAppBridge struct {
	nc      *nats.Conn
	subject string
}

// NewNATSWhatsAppBridge connects to NATS and returns the bridge.
func NewNATSWhatsAppBridge(cfg config.WhatsAppConfig) (*NATSWhatsAppBridge, error) {
	nc, err := nats.Connect(cfg.NATSURL,
		nats.Name("store-api-whatsapp"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSWhatsAppBridge{nc: nc, subject: cfg.Subject}, nil
}

// IsReady reports whether the bridge can currently publish.
func (b *NATSWhatsAppBridge) IsReady() bool {
	return b.nc.IsConnected()
}

// Send publishes the order to the bridge subject.
func (b *NATSWhatsAppBridge) Send(o *models.Order) error {
	payload := struct {
		OrderNumber string            `json:"orderNumber"`
		Customer    models.Customer   `json:"customer"`
		Items       models.OrderItems `json:"items"`
		TotalAmount float64           `json:"totalAmount"`
		CreatedAt   int64             `json:"createdAt"`
	}{
		OrderNumber: o.OrderNumber,
		Customer:    o.Customer,
		Items:       o.Items,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt.Unix(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal order payload: %w", err)
	}
	if err := b.nc.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish order: %w", err)
	}
	return nil
}

// Close drains the connection.
func (b *NATSWhatsAppBridge) Close() {
	if b.nc != nil {
		b.nc.Close()
	}
}

package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"rental-service/internal/models"
)

// Event subjects
const (
	SubjectTenantCreated        = "rental.tenant.created"
	SubjectTenantUpdated        = "rental.tenant.updated"
	SubjectTenantDeleted        = "rental.tenant.deleted"
	SubjectUsageRecorded        = "rental.unit.recorded"
	SubjectUsageUpdated         = "rental.unit.updated"
	SubjectPaymentRecorded      = "rental.payment.recorded"
	SubjectPaymentStatusUpdated = "rental.payment.status_updated"
)

// TenantEvent is published on tenant lifecycle changes
type TenantEvent struct {
	EventType string         `json:"event_type"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name"`
	Portion   models.Portion `json:"portion"`
	Rent      int            `json:"rent"`
	IsActive  bool           `json:"is_active"`
	Timestamp time.Time      `json:"timestamp"`
}

// UsageEvent is published when a period's unit record is created or updated
type UsageEvent struct {
	EventType   string    `json:"event_type"`
	UnitID      string    `json:"unit_id"`
	TenantID    string    `json:"tenant_id"`
	Month       string    `json:"month"`
	Year        int       `json:"year"`
	Units       int       `json:"units"`
	TotalAmount float64   `json:"total_amount"`
	IsPaid      bool      `json:"is_paid"`
	Timestamp   time.Time `json:"timestamp"`
}

// PaymentEvent is published when a payment is recorded or its status changes
type PaymentEvent struct {
	EventType string               `json:"event_type"`
	PaymentID string               `json:"payment_id"`
	TenantID  string               `json:"tenant_id"`
	Month     string               `json:"month"`
	Year      int                  `json:"year"`
	Amount    float64              `json:"amount"`
	Method    models.PaymentMethod `json:"method"`
	Status    models.PaymentStatus `json:"status"`
	Timestamp time.Time            `json:"timestamp"`
}

var (
	publisher     *Publisher
	publisherOnce sync.Once
	publisherMu   sync.RWMutex
)

// Publisher wraps the NATS connection for rental lifecycle events. Publishing
// is best-effort: callers log failures and carry on.
type Publisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// InitPublisher initializes the singleton NATS publisher. An empty URL
// disables publishing.
func InitPublisher(logger *logrus.Logger, natsURL string) error {
	var initErr error
	publisherOnce.Do(func() {
		if natsURL == "" {
			logger.Warn("NATS_URL not set, event publishing disabled")
			return
		}

		opts := []nats.Option{
			nats.Name("rental-service"),
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(2 * time.Second),
			nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
				logger.WithError(err).Warn("NATS disconnected")
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
			}),
		}

		conn, err := nats.Connect(natsURL, opts...)
		if err != nil {
			initErr = err
			return
		}

		publisherMu.Lock()
		publisher = &Publisher{
			conn:   conn,
			logger: logger.WithField("component", "events.publisher"),
		}
		publisherMu.Unlock()

		logger.Info("NATS events publisher initialized for rental-service")
	})
	return initErr
}

// GetPublisher returns the singleton publisher instance, nil when publishing
// is disabled.
func GetPublisher() *Publisher {
	publisherMu.RLock()
	defer publisherMu.RUnlock()
	return publisher
}

// PublishTenantCreated publishes a tenant created event
func (p *Publisher) PublishTenantCreated(ctx context.Context, tenant *models.Tenant) error {
	return p.publishTenant(ctx, SubjectTenantCreated, tenant)
}

// PublishTenantUpdated publishes a tenant updated event
func (p *Publisher) PublishTenantUpdated(ctx context.Context, tenant *models.Tenant) error {
	return p.publishTenant(ctx, SubjectTenantUpdated, tenant)
}

// PublishTenantDeleted publishes a tenant deleted event
func (p *Publisher) PublishTenantDeleted(ctx context.Context, tenant *models.Tenant) error {
	return p.publishTenant(ctx, SubjectTenantDeleted, tenant)
}

func (p *Publisher) publishTenant(ctx context.Context, subject string, tenant *models.Tenant) error {
	return p.publish(ctx, subject, TenantEvent{
		EventType: subject,
		TenantID:  tenant.ID.String(),
		Name:      tenant.Name,
		Portion:   tenant.Portion,
		Rent:      tenant.Rent,
		IsActive:  tenant.IsActive,
		Timestamp: time.Now().UTC(),
	})
}

// PublishUsageRecorded publishes a unit record created event
func (p *Publisher) PublishUsageRecorded(ctx context.Context, unit *models.UnitRecord) error {
	return p.publishUsage(ctx, SubjectUsageRecorded, unit)
}

// PublishUsageUpdated publishes a unit record updated event
func (p *Publisher) PublishUsageUpdated(ctx context.Context, unit *models.UnitRecord) error {
	return p.publishUsage(ctx, SubjectUsageUpdated, unit)
}

func (p *Publisher) publishUsage(ctx context.Context, subject string, unit *models.UnitRecord) error {
	return p.publish(ctx, subject, UsageEvent{
		EventType:   subject,
		UnitID:      unit.ID.String(),
		TenantID:    unit.TenantID.String(),
		Month:       unit.Month,
		Year:        unit.Year,
		Units:       unit.Units,
		TotalAmount: unit.TotalAmount,
		IsPaid:      unit.IsPaid,
		Timestamp:   time.Now().UTC(),
	})
}

// PublishPaymentRecorded publishes a payment recorded event
func (p *Publisher) PublishPaymentRecorded(ctx context.Context, payment *models.Payment) error {
	return p.publishPayment(ctx, SubjectPaymentRecorded, payment)
}

// PublishPaymentStatusUpdated publishes a payment status change event
func (p *Publisher) PublishPaymentStatusUpdated(ctx context.Context, payment *models.Payment) error {
	return p.publishPayment(ctx, SubjectPaymentStatusUpdated, payment)
}

func (p *Publisher) publishPayment(ctx context.Context, subject string, payment *models.Payment) error {
	return p.publish(ctx, subject, PaymentEvent{
		EventType: subject,
		PaymentID: payment.ID.String(),
		TenantID:  payment.TenantID.String(),
		Month:     payment.Month,
		Year:      payment.Year,
		Amount:    payment.Amount,
		Method:    payment.PaymentMethod,
		Status:    payment.Status,
		Timestamp: time.Now().UTC(),
	})
}

func (p *Publisher) publish(_ context.Context, subject string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subject, data); err != nil {
		p.logger.WithError(err).WithField("subject", subject).Warn("failed to publish event")
		return err
	}
	return nil
}

// IsConnected returns true if connected to NATS
func (p *Publisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains the publisher connection
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

package service

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
)

// PaymentStatus tracks how far an order has been paid
type PaymentStatus string

const (
	PaymentStatusNotPaid       PaymentStatus = "not_paid"
	PaymentStatusDeferred      PaymentStatus = "deferred"
	PaymentStatusPartiallyPaid PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid     PaymentStatus = "fully_paid"
	PaymentStatusCanceled      PaymentStatus = "canceled"
)

// IsValid returns true if the status is known
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusNotPaid, PaymentStatusDeferred, PaymentStatusPartiallyPaid,
		PaymentStatusFullyPaid, PaymentStatusCanceled:
		return true
	}
	return false
}

// PaymentURLs are the locations a payment flow may send the customer to
type PaymentURLs struct {
	PaymentURL string `json:"payment_url"`
	ReturnURL  string `json:"return_url"`
	CancelURL  string `json:"cancel_url"`
}

// Validate requires every URL to be absolute and reports the first bad one
// in field order
func (u PaymentURLs) Validate() error {
	fields := []struct{ name, raw string }{
		{"payment_url", u.PaymentURL},
		{"return_url", u.ReturnURL},
		{"cancel_url", u.CancelURL},
	}
	for _, f := range fields {
		parsed, err := url.Parse(f.raw)
		if err != nil || f.raw == "" || !parsed.IsAbs() {
			return shared.NewDomainError("INVALID_URL", fmt.Sprintf("%s must be an absolute URL", f.name))
		}
	}
	return nil
}

// PaymentProcessResponse tells the caller where to send the customer next
type PaymentProcessResponse struct {
	RedirectURL string `json:"redirect_url"`
}

// OrderLogEntry is an audit note on an order
type OrderLogEntry struct {
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentOrder is the payment side of a placed order
type PaymentOrder struct {
	shared.ShopAggregateRoot
	Reference       string
	PaymentMethodID uuid.UUID
	PaymentStatus   PaymentStatus
	LogEntries      []OrderLogEntry
}

// NewPaymentOrder creates an unpaid order bound to a payment method
func NewPaymentOrder(shopID uuid.UUID, reference string, paymentMethodID uuid.UUID) (*PaymentOrder, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Order reference cannot be empty")
	}
	return &PaymentOrder{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shopID),
		Reference:         reference,
		PaymentMethodID:   paymentMethodID,
		PaymentStatus:     PaymentStatusNotPaid,
		LogEntries:        make([]OrderLogEntry, 0),
	}, nil
}

// AddLogEntry appends an audit note
func (o *PaymentOrder) AddLogEntry(message string) {
	o.LogEntries = append(o.LogEntries, OrderLogEntry{Message: message, CreatedAt: time.Now()})
	o.Touch()
}

// PaymentProcessResponse starts payment for the order. Methods without an
// external processor send the customer straight to the return URL.
func (m *Method) PaymentProcessResponse(order *PaymentOrder, urls PaymentURLs) (PaymentProcessResponse, error) {
	if m.Kind != MethodKindPayment {
		return PaymentProcessResponse{}, shared.NewDomainError("INVALID_METHOD_KIND", "Only payment methods process payments")
	}
	if err := urls.Validate(); err != nil {
		return PaymentProcessResponse{}, err
	}
	return PaymentProcessResponse{RedirectURL: urls.ReturnURL}, nil
}

// ProcessPaymentReturn handles the customer coming back from payment. An
// unpaid order becomes deferred; any other status is left alone. Reports
// whether the order changed.
func (m *Method) ProcessPaymentReturn(order *PaymentOrder) (bool, error) {
	if m.Kind != MethodKindPayment {
		return false, shared.NewDomainError("INVALID_METHOD_KIND", "Only payment methods process payments")
	}
	if order.PaymentStatus != PaymentStatusNotPaid {
		return false, nil
	}
	order.PaymentStatus = PaymentStatusDeferred
	order.AddLogEntry(fmt.Sprintf("Payment status set to deferred by %s", m.Name))
	order.IncrementVersion()
	order.AddDomainEvent(NewPaymentDeferredEvent(order, m))
	return true, nil
}

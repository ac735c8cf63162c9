package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared/strategy"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ComponentRequest describes one behavior component by kind and configuration
type ComponentRequest struct {
	Kind   string          `json:"kind" binding:"required,max=64"`
	Config json.RawMessage `json:"config"`
}

// CreateMethodRequest represents a request to create a shipping or payment method
type CreateMethodRequest struct {
	Kind                string             `json:"kind" binding:"required,oneof=shipping payment"`
	Identifier          string             `json:"identifier" binding:"required,min=1,max=64"`
	Name                string             `json:"name" binding:"required,min=1,max=100"`
	Description         string             `json:"description" binding:"max=2000"`
	TaxClassID          uuid.UUID          `json:"tax_class_id" binding:"required"`
	ProviderID          *uuid.UUID         `json:"provider_id"`
	ServiceIdentifier   string             `json:"service_identifier" binding:"max=64"`
	DeliveryTimeMinDays *int               `json:"delivery_time_min_days" binding:"omitempty,min=0"`
	DeliveryTimeMaxDays *int               `json:"delivery_time_max_days" binding:"omitempty,min=0"`
	Enabled             *bool              `json:"enabled"`
	Components          []ComponentRequest `json:"components" binding:"omitempty,dive"`
}

// UpdateMethodRequest represents a request to update a method. Nil fields are left unchanged.
type UpdateMethodRequest struct {
	Name                *string    `json:"name" binding:"omitempty,min=1,max=100"`
	Description         *string    `json:"description" binding:"omitempty,max=2000"`
	TaxClassID          *uuid.UUID `json:"tax_class_id"`
	ProviderID          *uuid.UUID `json:"provider_id"`
	ServiceIdentifier   *string    `json:"service_identifier" binding:"omitempty,max=64"`
	DeliveryTimeMinDays *int       `json:"delivery_time_min_days" binding:"omitempty,min=0"`
	DeliveryTimeMaxDays *int       `json:"delivery_time_max_days" binding:"omitempty,min=0"`
}

// ReplaceComponentsRequest swaps the component list of a method
type ReplaceComponentsRequest struct {
	Components []ComponentRequest `json:"components" binding:"dive"`
}

// MethodListFilter narrows method listings
type MethodListFilter struct {
	Kind       string     `form:"kind" binding:"omitempty,oneof=shipping payment"`
	Status     string     `form:"status" binding:"omitempty,oneof=enabled disabled"`
	Search     string     `form:"search" binding:"max=100"`
	ProviderID *uuid.UUID `form:"provider_id"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	SortBy     string     `form:"sort_by"`
	SortDesc   bool       `form:"sort_desc"`
}

// ComponentResponse is a stored component as the API shows it
type ComponentResponse struct {
	Position int             `json:"position"`
	Kind     string          `json:"kind"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// MethodResponse represents a method in API responses
type MethodResponse struct {
	ID                  uuid.UUID           `json:"id"`
	ShopID              uuid.UUID           `json:"shop_id"`
	Kind                string              `json:"kind"`
	Identifier          string              `json:"identifier"`
	Name                string              `json:"name"`
	Description         string              `json:"description"`
	Status              string              `json:"status"`
	TaxClassID          uuid.UUID           `json:"tax_class_id"`
	ProviderID          *uuid.UUID          `json:"provider_id,omitempty"`
	ServiceIdentifier   string              `json:"service_identifier,omitempty"`
	DeliveryTimeMinDays *int                `json:"delivery_time_min_days,omitempty"`
	DeliveryTimeMaxDays *int                `json:"delivery_time_max_days,omitempty"`
	ShippingTime        string              `json:"shipping_time,omitempty"`
	Components          []ComponentResponse `json:"components"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
	Version             int                 `json:"version"`
}

// MethodListResponse represents a list item for methods
type MethodListResponse struct {
	ID             uuid.UUID `json:"id"`
	Kind           string    `json:"kind"`
	Identifier     string    `json:"identifier"`
	Name           string    `json:"name"`
	Status         string    `json:"status"`
	ComponentCount int       `json:"component_count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// SetProductLimitsRequest restricts the methods usable with a product
type SetProductLimitsRequest struct {
	LimitShippingMethods bool        `json:"limit_shipping_methods"`
	LimitPaymentMethods  bool        `json:"limit_payment_methods"`
	ShippingMethodIDs    []uuid.UUID `json:"shipping_method_ids"`
	PaymentMethodIDs     []uuid.UUID `json:"payment_method_ids"`
}

// ProductLimitsResponse shows the restrictions of a product
type ProductLimitsResponse struct {
	ProductID            uuid.UUID   `json:"product_id"`
	LimitShippingMethods bool        `json:"limit_shipping_methods"`
	LimitPaymentMethods  bool        `json:"limit_payment_methods"`
	ShippingMethodIDs    []uuid.UUID `json:"shipping_method_ids"`
	PaymentMethodIDs     []uuid.UUID `json:"payment_method_ids"`
}

// CreateProviderRequest represents a request to create a carrier or payment processor
type CreateProviderRequest struct {
	Kind       string              `json:"kind" binding:"required,oneof=carrier payment_processor"`
	Identifier string              `json:"identifier" binding:"required,min=1,max=64"`
	Name       string              `json:"name" binding:"required,min=1,max=100"`
	Services   []AddServiceRequest `json:"services" binding:"omitempty,dive"`
}

// AddServiceRequest adds a service offering to a provider
type AddServiceRequest struct {
	Identifier string `json:"identifier" binding:"required,min=1,max=64"`
	Name       string `json:"name" binding:"required,min=1,max=100"`
}

// ProviderResponse represents a provider in API responses
type ProviderResponse struct {
	ID         uuid.UUID         `json:"id"`
	Kind       string            `json:"kind"`
	Identifier string            `json:"identifier"`
	Name       string            `json:"name"`
	Enabled    bool              `json:"enabled"`
	Services   []service.Service `json:"services"`
	CreatedAt  time.Time         `json:"created_at"`
}

// SourceLineRequest is one basket line of a checkout request
type SourceLineRequest struct {
	Type           string              `json:"type" binding:"omitempty,oneof=product shipping payment other"`
	ProductID      *uuid.UUID          `json:"product_id"`
	Text           string              `json:"text" binding:"max=256"`
	Quantity       *decimal.Decimal    `json:"quantity"` // one unit when omitted
	UnitPrice      decimal.Decimal     `json:"unit_price"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TaxClassID     *uuid.UUID          `json:"tax_class_id"`
	Weight         *valueobject.Weight `json:"weight"`
}

// SourceRequest is the order being checked out
type SourceRequest struct {
	Currency         string                  `json:"currency" binding:"omitempty,len=3"`
	PricesIncludeTax *bool                   `json:"prices_include_tax"`
	CustomerID       *uuid.UUID              `json:"customer_id"`
	ShippingAddress  *valueobject.AddressDTO `json:"shipping_address"`
	BillingAddress   *valueobject.AddressDTO `json:"billing_address"`
	ShippingMethodID *uuid.UUID              `json:"shipping_method_id"`
	PaymentMethodID  *uuid.UUID              `json:"payment_method_id"`
	Lines            []SourceLineRequest     `json:"lines" binding:"required,min=1,dive"`
}

// AvailableMethodResponse is a method offered for a source with its price
type AvailableMethodResponse struct {
	ID           uuid.UUID         `json:"id"`
	Kind         string            `json:"kind"`
	Identifier   string            `json:"identifier"`
	Name         string            `json:"name"`
	Description  string            `json:"description,omitempty"`
	Price        valueobject.Money `json:"price"`
	BasePrice    valueobject.Money `json:"base_price"`
	Discount     valueobject.Money `json:"discount"`
	DeliveryTime *DeliveryTimeDTO  `json:"delivery_time,omitempty"`
}

// DeliveryTimeDTO is an estimated delivery window
type DeliveryTimeDTO struct {
	MinDays int    `json:"min_days"`
	MaxDays int    `json:"max_days"`
	Text    string `json:"text"`
}

// ValidationResponse lists what prevents the source from being ordered
type ValidationResponse struct {
	Valid  bool                      `json:"valid"`
	Errors strategy.ValidationErrors `json:"errors"`
}

// LineResponse is one priced order line
type LineResponse struct {
	Type           string            `json:"type"`
	ProductID      *uuid.UUID        `json:"product_id,omitempty"`
	MethodID       *uuid.UUID        `json:"method_id,omitempty"`
	Text           string            `json:"text"`
	Quantity       decimal.Decimal   `json:"quantity"`
	BaseUnitPrice  valueobject.Money `json:"base_unit_price"`
	BasePrice      valueobject.Money `json:"base_price"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	Price          valueobject.Money `json:"price"`
	TaxClassID     *uuid.UUID        `json:"tax_class_id,omitempty"`
}

// LinesResponse is the final set of order lines with the total
type LinesResponse struct {
	Lines []LineResponse    `json:"lines"`
	Total valueobject.Money `json:"total"`
}

// CreatePaymentOrderRequest registers an order that will be paid with a method
type CreatePaymentOrderRequest struct {
	Reference       string    `json:"reference" binding:"required,min=1,max=64"`
	PaymentMethodID uuid.UUID `json:"payment_method_id" binding:"required"`
}

// ProcessPaymentRequest carries the URLs a payment flow may redirect to
type ProcessPaymentRequest struct {
	PaymentURL string `json:"payment_url" binding:"required,url"`
	ReturnURL  string `json:"return_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

// PaymentOrderResponse represents a payment order in API responses
type PaymentOrderResponse struct {
	ID              uuid.UUID               `json:"id"`
	Reference       string                  `json:"reference"`
	PaymentMethodID uuid.UUID               `json:"payment_method_id"`
	PaymentStatus   string                  `json:"payment_status"`
	LogEntries      []service.OrderLogEntry `json:"log_entries"`
	Changed         bool                    `json:"changed"`
}

// ToMethodResponse converts a domain method. Component configs are filled by the caller.
func ToMethodResponse(m *service.Method) *MethodResponse {
	return &MethodResponse{
		ID:                  m.ID,
		ShopID:              m.ShopID,
		Kind:                string(m.Kind),
		Identifier:          m.Identifier,
		Name:                m.Name,
		Description:         m.Description,
		Status:              string(m.Status),
		TaxClassID:          m.TaxClassID,
		ProviderID:          m.ProviderID,
		ServiceIdentifier:   m.ServiceIdentifier,
		DeliveryTimeMinDays: m.DeliveryTimeMinDays,
		DeliveryTimeMaxDays: m.DeliveryTimeMaxDays,
		ShippingTime:        m.ShippingTime(),
		Components:          make([]ComponentResponse, 0, len(m.Components)),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
		Version:             m.Version,
	}
}

// ToMethodListResponse converts a domain method to a list item
func ToMethodListResponse(m *service.Method) MethodListResponse {
	return MethodListResponse{
		ID:             m.ID,
		Kind:           string(m.Kind),
		Identifier:     m.Identifier,
		Name:           m.Name,
		Status:         string(m.Status),
		ComponentCount: len(m.Components),
		UpdatedAt:      m.UpdatedAt,
	}
}

// ToProviderResponse converts a domain provider
func ToProviderResponse(p *service.ServiceProvider) *ProviderResponse {
	services := p.Services
	if services == nil {
		services = []service.Service{}
	}
	return &ProviderResponse{
		ID:         p.ID,
		Kind:       string(p.Kind),
		Identifier: p.Identifier,
		Name:       p.Name,
		Enabled:    p.Enabled,
		Services:   services,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPaymentOrderResponse converts a domain payment order
func ToPaymentOrderResponse(o *service.PaymentOrder, changed bool) *PaymentOrderResponse {
	entries := o.LogEntries
	if entries == nil {
		entries = []service.OrderLogEntry{}
	}
	return &PaymentOrderResponse{
		ID:              o.ID,
		Reference:       o.Reference,
		PaymentMethodID: o.PaymentMethodID,
		PaymentStatus:   string(o.PaymentStatus),
		LogEntries:      entries,
		Changed:         changed,
	}
}

// ToLineResponse converts a source line
func ToLineResponse(l service.SourceLine) LineResponse {
	return LineResponse{
		Type:           string(l.Type),
		ProductID:      optionalID(l.ProductID),
		MethodID:       optionalID(l.MethodID),
		Text:           l.Text,
		Quantity:       l.Quantity,
		BaseUnitPrice:  l.BaseUnitPrice,
		BasePrice:      l.BasePrice(),
		DiscountAmount: l.DiscountAmount,
		Price:          l.Price(),
		TaxClassID:     optionalID(l.TaxClassID),
	}
}

func optionalID(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}

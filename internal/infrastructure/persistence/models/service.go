package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"go.uber.org/zap"
)

var serviceModelLogger = zap.L().Named("service.models")

// MethodModel is the persistence model for the Method aggregate root.
// Components are stored in their own table and ordered by position.
type MethodModel struct {
	ShopAggregateModel
	Kind                service.MethodKind       `gorm:"type:varchar(20);not null"`
	Identifier          string                   `gorm:"type:varchar(64);not null"`
	Name                string                   `gorm:"type:varchar(100);not null"`
	Description         string                   `gorm:"type:text"`
	Status              service.MethodStatus     `gorm:"type:varchar(20);not null;default:'enabled';index"`
	TaxClassID          uuid.UUID                `gorm:"type:uuid;not null"`
	ProviderID          *uuid.UUID               `gorm:"type:uuid;index"`
	ServiceIdentifier   string                   `gorm:"type:varchar(64)"`
	DeliveryTimeMinDays *int                     `gorm:"column:delivery_time_min_days"`
	DeliveryTimeMaxDays *int                     `gorm:"column:delivery_time_max_days"`
	Components          []BehaviorComponentModel `gorm:"foreignKey:MethodID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (MethodModel) TableName() string {
	return "service_methods"
}

// ToDomain converts the persistence model to a domain Method.
// Components are rebuilt by the repository, which owns the component codec.
func (m *MethodModel) ToDomain(components []service.BehaviorComponent) *service.Method {
	method := &service.Method{
		Kind:                m.Kind,
		Identifier:          m.Identifier,
		Name:                m.Name,
		Description:         m.Description,
		Status:              m.Status,
		TaxClassID:          m.TaxClassID,
		ProviderID:          m.ProviderID,
		ServiceIdentifier:   m.ServiceIdentifier,
		DeliveryTimeMinDays: m.DeliveryTimeMinDays,
		DeliveryTimeMaxDays: m.DeliveryTimeMaxDays,
		Components:          components,
	}
	if method.Components == nil {
		method.Components = make([]service.BehaviorComponent, 0)
	}
	m.toRoot(&method.ShopAggregateRoot)
	return method
}

// FromDomain populates the persistence model from a domain Method, leaving Components untouched
func (m *MethodModel) FromDomain(method *service.Method) {
	m.fromRoot(method.ShopAggregateRoot)
	m.Kind = method.Kind
	m.Identifier = method.Identifier
	m.Name = method.Name
	m.Description = method.Description
	m.Status = method.Status
	m.TaxClassID = method.TaxClassID
	m.ProviderID = method.ProviderID
	m.ServiceIdentifier = method.ServiceIdentifier
	m.DeliveryTimeMinDays = method.DeliveryTimeMinDays
	m.DeliveryTimeMaxDays = method.DeliveryTimeMaxDays
}

// BehaviorComponentModel stores one component of a method as its kind plus JSON configuration
type BehaviorComponentModel struct {
	BaseModel
	MethodID uuid.UUID `gorm:"type:uuid;not null;index:idx_component_method_position,priority:1"`
	Position int       `gorm:"not null;index:idx_component_method_position,priority:2"`
	Kind     string    `gorm:"type:varchar(50);not null"`
	Config   string    `gorm:"type:text;not null"`
}

// TableName returns the table name for GORM
func (BehaviorComponentModel) TableName() string {
	return "behavior_components"
}

// ServiceProviderModel is the persistence model for a carrier or payment processor.
// The offered services are few and always loaded together, so they live in a JSON column.
type ServiceProviderModel struct {
	ShopAggregateModel
	Kind         service.ProviderKind `gorm:"type:varchar(30);not null;index"`
	Identifier   string               `gorm:"type:varchar(64);not null"`
	Name         string               `gorm:"type:varchar(100);not null"`
	Enabled      bool                 `gorm:"not null;default:true"`
	ServicesJSON string               `gorm:"column:services;type:text;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (ServiceProviderModel) TableName() string {
	return "service_providers"
}

// ToDomain converts the persistence model to a domain ServiceProvider
func (m *ServiceProviderModel) ToDomain() *service.ServiceProvider {
	provider := &service.ServiceProvider{
		Kind:       m.Kind,
		Identifier: m.Identifier,
		Name:       m.Name,
		Enabled:    m.Enabled,
		Services:   make([]service.Service, 0),
	}
	m.toRoot(&provider.ShopAggregateRoot)

	if m.ServicesJSON != "" && m.ServicesJSON != "[]" {
		var services []service.Service
		if err := json.Unmarshal([]byte(m.ServicesJSON), &services); err != nil {
			serviceModelLogger.Warn("failed to parse services JSON",
				zap.String("provider", m.Identifier),
				zap.String("raw_json", m.ServicesJSON),
				zap.Error(err))
		} else {
			provider.Services = services
		}
	}
	return provider
}

// FromDomain populates the persistence model from a domain ServiceProvider
func (m *ServiceProviderModel) FromDomain(p *service.ServiceProvider) {
	m.fromRoot(p.ShopAggregateRoot)
	m.Kind = p.Kind
	m.Identifier = p.Identifier
	m.Name = p.Name
	m.Enabled = p.Enabled

	m.ServicesJSON = "[]"
	if len(p.Services) > 0 {
		if data, err := json.Marshal(p.Services); err == nil {
			m.ServicesJSON = string(data)
		}
	}
}

// ProductMethodLimitModel holds the limit flags of one product
type ProductMethodLimitModel struct {
	ShopID               uuid.UUID                `gorm:"type:uuid;not null;index"`
	ProductID            uuid.UUID                `gorm:"type:uuid;primary_key"`
	LimitShippingMethods bool                     `gorm:"not null;default:false"`
	LimitPaymentMethods  bool                     `gorm:"not null;default:false"`
	Links                []ProductMethodLinkModel `gorm:"foreignKey:ProductID;references:ProductID;constraint:OnDelete:CASCADE"`
	UpdatedAt            time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductMethodLimitModel) TableName() string {
	return "product_method_limits"
}

// ProductMethodLinkModel permits one method for a limiting product
type ProductMethodLinkModel struct {
	ProductID uuid.UUID          `gorm:"type:uuid;primary_key"`
	MethodID  uuid.UUID          `gorm:"type:uuid;primary_key"`
	Kind      service.MethodKind `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (ProductMethodLinkModel) TableName() string {
	return "product_method_links"
}

// ToDomain converts the persistence model to a domain ProductMethodLimit
func (m *ProductMethodLimitModel) ToDomain() service.ProductMethodLimit {
	limit := service.ProductMethodLimit{
		ShopID:               m.ShopID,
		ProductID:            m.ProductID,
		LimitShippingMethods: m.LimitShippingMethods,
		LimitPaymentMethods:  m.LimitPaymentMethods,
		ShippingMethodIDs:    make([]uuid.UUID, 0),
		PaymentMethodIDs:     make([]uuid.UUID, 0),
	}
	for _, link := range m.Links {
		if link.Kind == service.MethodKindPayment {
			limit.PaymentMethodIDs = append(limit.PaymentMethodIDs, link.MethodID)
		} else {
			limit.ShippingMethodIDs = append(limit.ShippingMethodIDs, link.MethodID)
		}
	}
	return limit
}

// ProductMethodLimitModelFromDomain creates a persistence model with its links
func ProductMethodLimitModelFromDomain(l service.ProductMethodLimit) *ProductMethodLimitModel {
	m := &ProductMethodLimitModel{
		ShopID:               l.ShopID,
		ProductID:            l.ProductID,
		LimitShippingMethods: l.LimitShippingMethods,
		LimitPaymentMethods:  l.LimitPaymentMethods,
		Links:                make([]ProductMethodLinkModel, 0, len(l.ShippingMethodIDs)+len(l.PaymentMethodIDs)),
		UpdatedAt:            time.Now(),
	}
	seen := make(map[uuid.UUID]struct{})
	add := func(kind service.MethodKind, ids []uuid.UUID) {
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			m.Links = append(m.Links, ProductMethodLinkModel{ProductID: l.ProductID, MethodID: id, Kind: kind})
		}
	}
	add(service.MethodKindShipping, l.ShippingMethodIDs)
	add(service.MethodKindPayment, l.PaymentMethodIDs)
	return m
}

// PaymentOrderModel is the persistence model for the payment side of an order
type PaymentOrderModel struct {
	ShopAggregateModel
	Reference       string                `gorm:"type:varchar(64);not null"`
	PaymentMethodID uuid.UUID             `gorm:"type:uuid;not null;index"`
	PaymentStatus   service.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	LogEntries      []OrderLogEntryModel  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PaymentOrderModel) TableName() string {
	return "payment_orders"
}

// OrderLogEntryModel is an audit note on a payment order
type OrderLogEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Message   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLogEntryModel) TableName() string {
	return "order_log_entries"
}

// ToDomain converts the persistence model to a domain PaymentOrder
func (m *PaymentOrderModel) ToDomain() *service.PaymentOrder {
	order := &service.PaymentOrder{
		Reference:       m.Reference,
		PaymentMethodID: m.PaymentMethodID,
		PaymentStatus:   m.PaymentStatus,
		LogEntries:      make([]service.OrderLogEntry, 0, len(m.LogEntries)),
	}
	m.toRoot(&order.ShopAggregateRoot)
	for _, e := range m.LogEntries {
		order.LogEntries = append(order.LogEntries, service.OrderLogEntry{Message: e.Message, CreatedAt: e.CreatedAt})
	}
	return order
}

// PaymentOrderModelFromDomain creates a persistence model from a domain PaymentOrder
func PaymentOrderModelFromDomain(o *service.PaymentOrder) *PaymentOrderModel {
	m := &PaymentOrderModel{
		Reference:       o.Reference,
		PaymentMethodID: o.PaymentMethodID,
		PaymentStatus:   o.PaymentStatus,
		LogEntries:      make([]OrderLogEntryModel, 0, len(o.LogEntries)),
	}
	m.fromRoot(o.ShopAggregateRoot)
	for _, e := range o.LogEntries {
		m.LogEntries = append(m.LogEntries, OrderLogEntryModel{
			ID:        uuid.New(),
			OrderID:   o.ID,
			Message:   e.Message,
			CreatedAt: e.CreatedAt,
		})
	}
	return m
}

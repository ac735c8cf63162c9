package service

import (
	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineType classifies a line of an order source
type LineType string

const (
	LineTypeProduct  LineType = "product"
	LineTypeShipping LineType = "shipping"
	LineTypePayment  LineType = "payment"
	LineTypeOther    LineType = "other"
)

// IsValid returns true if the line type is known
func (t LineType) IsValid() bool {
	switch t {
	case LineTypeProduct, LineTypeShipping, LineTypePayment, LineTypeOther:
		return true
	}
	return false
}

// SourceLine is one priced line of an order source. Weight is per unit.
type SourceLine struct {
	Type           LineType
	ProductID      uuid.UUID
	MethodID       uuid.UUID
	Text           string
	Quantity       decimal.Decimal
	BaseUnitPrice  valueobject.Money
	DiscountAmount valueobject.Money
	TaxClassID     uuid.UUID
	Weight         valueobject.Weight
}

// BasePrice is the undiscounted total of the line
func (l SourceLine) BasePrice() valueobject.Money {
	return l.BaseUnitPrice.Multiply(l.Quantity)
}

// Price is the base price minus the discount
func (l SourceLine) Price() valueobject.Money {
	price, err := l.BasePrice().Subtract(l.DiscountAmount)
	if err != nil {
		return l.BasePrice()
	}
	return price
}

// TotalWeight is the unit weight times the quantity
func (l SourceLine) TotalWeight() valueobject.Weight {
	return l.Weight.Times(l.Quantity)
}

// Source is the order being assembled at checkout: the basket plus the
// customer's addresses and chosen methods. Method resolution reads it but
// never mutates it.
type Source struct {
	ShopID           uuid.UUID
	Currency         valueobject.Currency
	PricesIncludeTax bool
	CustomerID       uuid.UUID
	ShippingAddress  valueobject.Address
	BillingAddress   valueobject.Address
	ShippingMethodID uuid.UUID
	PaymentMethodID  uuid.UUID
	lines            []SourceLine
}

// NewSource creates an empty source for a shop
func NewSource(shopID uuid.UUID, currency valueobject.Currency, pricesIncludeTax bool) *Source {
	if currency == "" {
		currency = valueobject.DefaultCurrency
	}
	return &Source{
		ShopID:           shopID,
		Currency:         currency,
		PricesIncludeTax: pricesIncludeTax,
		lines:            make([]SourceLine, 0),
	}
}

// AddLine appends a line. Zero money fields are filled in the source currency.
// The quantity must be positive.
func (s *Source) AddLine(line SourceLine) error {
	if line.Type == "" {
		line.Type = LineTypeProduct
	}
	if !line.Type.IsValid() {
		return shared.NewDomainError("INVALID_LINE_TYPE", "Unknown line type: "+string(line.Type))
	}
	if !line.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}
	if line.BaseUnitPrice.Currency() == "" {
		line.BaseUnitPrice = valueobject.Zero(s.Currency)
	}
	if line.DiscountAmount.Currency() == "" {
		line.DiscountAmount = valueobject.Zero(s.Currency)
	}
	if line.BaseUnitPrice.Currency() != s.Currency || line.DiscountAmount.Currency() != s.Currency {
		return shared.ErrCurrencyMismatch
	}
	s.lines = append(s.lines, line)
	return nil
}

// Lines returns a copy of every line
func (s *Source) Lines() []SourceLine {
	out := make([]SourceLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// ProductLines returns only the product lines
func (s *Source) ProductLines() []SourceLine {
	out := make([]SourceLine, 0, len(s.lines))
	for _, l := range s.lines {
		if l.Type == LineTypeProduct {
			out = append(out, l)
		}
	}
	return out
}

// CreatePrice wraps a bare amount in the source currency
func (s *Source) CreatePrice(amount decimal.Decimal) valueobject.Money {
	return valueobject.MoneyOf(amount, s.Currency)
}

// ZeroPrice returns zero in the source currency
func (s *Source) ZeroPrice() valueobject.Money {
	return valueobject.Zero(s.Currency)
}

// TotalPriceOfProducts sums the price of every product line
func (s *Source) TotalPriceOfProducts() valueobject.Money {
	total := decimal.Zero
	for _, l := range s.ProductLines() {
		total = total.Add(l.Price().Amount())
	}
	return s.CreatePrice(total)
}

// TotalWeight sums the weight of every line; lines without weight count as zero
func (s *Source) TotalWeight() valueobject.Weight {
	var total valueobject.Weight
	for _, l := range s.lines {
		total = total.Add(l.TotalWeight())
	}
	return total
}

// ProductIDs returns the distinct product ids in line order
func (s *Source) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(s.lines))
	ids := make([]uuid.UUID, 0, len(s.lines))
	for _, l := range s.ProductLines() {
		if l.ProductID == uuid.Nil {
			continue
		}
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	return ids
}

// ProductQuantities sums quantities per product
func (s *Source) ProductQuantities() map[uuid.UUID]decimal.Decimal {
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, l := range s.ProductLines() {
		if l.ProductID == uuid.Nil {
			continue
		}
		out[l.ProductID] = out[l.ProductID].Add(l.Quantity)
	}
	return out
}

// SelectedMethodID returns the chosen method of the given kind, or uuid.Nil
func (s *Source) SelectedMethodID(kind MethodKind) uuid.UUID {
	switch kind {
	case MethodKindShipping:
		return s.ShippingMethodID
	case MethodKindPayment:
		return s.PaymentMethodID
	}
	return uuid.Nil
}

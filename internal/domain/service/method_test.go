package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShippingMethod(t *testing.T) *Method {
	t.Helper()
	m, err := NewMethod(uuid.New(), MethodKindShipping, "expensive_sweden", "Expensive Sweden Shipping", uuid.New())
	require.NoError(t, err)
	return m
}

func newTestSource(t *testing.T, country string) *Source {
	t.Helper()
	source := NewSource(uuid.New(), valueobject.EUR, true)
	require.NoError(t, source.AddLine(SourceLine{
		Type:          LineTypeProduct,
		ProductID:     uuid.New(),
		Quantity:      decimal.NewFromInt(1),
		BaseUnitPrice: eur("10"),
		Weight:        valueobject.Kilograms(decimal.RequireFromString("0.2")),
	}))
	if country != "" {
		source.ShippingAddress = valueobject.MustNewAddress(country, valueobject.WithName("Shippy Doge"))
	}
	return source
}

func TestNewMethod(t *testing.T) {
	shopID := uuid.New()
	taxClassID := uuid.New()

	t.Run("creates enabled method", func(t *testing.T) {
		m, err := NewMethod(shopID, MethodKindPayment, "neat", "Neat Pay", taxClassID)
		require.NoError(t, err)
		assert.Equal(t, shopID, m.ShopID)
		assert.Equal(t, MethodStatusEnabled, m.Status)
		assert.Equal(t, LineTypePayment, m.Kind.LineType())
		assert.Empty(t, m.Components)

		events := m.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeMethodCreated, events[0].EventType())
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := NewMethod(shopID, MethodKind("pigeon"), "x", "X", taxClassID)
		assert.Error(t, err)

		_, err = NewMethod(shopID, MethodKindShipping, "", "X", taxClassID)
		assert.Contains(t, err.Error(), "Identifier cannot be empty")

		_, err = NewMethod(shopID, MethodKindShipping, "has space", "X", taxClassID)
		assert.Error(t, err)

		_, err = NewMethod(shopID, MethodKindShipping, "x", "  ", taxClassID)
		assert.Contains(t, err.Error(), "name cannot be empty")

		_, err = NewMethod(shopID, MethodKindShipping, "x", "X", uuid.Nil)
		assert.Contains(t, err.Error(), "Tax class is required")
	})
}

func TestMethod_StatusTransitions(t *testing.T) {
	m := newTestShippingMethod(t)
	m.ClearDomainEvents()

	require.NoError(t, m.Disable())
	assert.False(t, m.IsEnabled())
	assert.Error(t, m.Disable())

	require.NoError(t, m.Enable())
	assert.True(t, m.IsEnabled())

	events := m.GetDomainEvents()
	require.Len(t, events, 2)
	changed, ok := events[0].(*MethodStatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, MethodStatusEnabled, changed.OldStatus)
	assert.Equal(t, MethodStatusDisabled, changed.NewStatus)
}

func TestMethod_ExpensiveSwedenResolution(t *testing.T) {
	tests := []struct {
		country       string
		wantAvailable bool
		wantPrice     string
		wantBase      string
	}{
		{country: "FI", wantAvailable: false},
		{country: "SE", wantAvailable: true, wantPrice: "5.00", wantBase: "4.00"},
		{country: "NL", wantAvailable: true, wantPrice: "4.00", wantBase: "4.00"},
		{country: "NO", wantAvailable: true, wantPrice: "4.00", wantBase: "4.00"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			m := newTestShippingMethod(t)
			require.NoError(t, m.AddComponent(newExpensiveSweden()))
			source := newTestSource(t, tt.country)

			errs := m.ValidationErrors(source)
			assert.Equal(t, tt.wantAvailable, m.IsAvailableFor(source))
			if !tt.wantAvailable {
				assert.True(t, errs.HasCode("we_no_speak_finnish"))
				return
			}
			assert.Empty(t, errs)

			info, err := m.PriceInfo(source)
			require.NoError(t, err)
			assert.True(t, info.Price.Equals(eur(tt.wantPrice)), "price %s", info.Price)
			assert.True(t, info.BasePrice.Equals(eur(tt.wantBase)), "base %s", info.BasePrice)

			lines, err := m.SourceLines(source)
			require.NoError(t, err)
			require.Len(t, lines, 1)
			line := lines[0]
			assert.Equal(t, LineTypeShipping, line.Type)
			assert.Equal(t, "Expenseefe-a Svedee Sheepping", line.Text)
			assert.True(t, line.Quantity.Equal(decimal.NewFromInt(1)))
			assert.True(t, line.Price().Equals(eur(tt.wantPrice)))
			assert.Equal(t, m.TaxClassID, line.TaxClassID)
			assert.Equal(t, m.ID, line.MethodID)
		})
	}
}

func TestMethod_CostSummation(t *testing.T) {
	m := newTestShippingMethod(t)
	source := newTestSource(t, "SE")

	info, err := m.PriceInfo(source)
	require.NoError(t, err)
	assert.True(t, info.Price.IsZero(), "no components means free")
	assert.True(t, info.IncludesTax)

	require.NoError(t, m.AddComponent(newFlatCost("2.50")))
	require.NoError(t, m.AddComponent(newFlatCost("1.25")))
	require.NoError(t, m.AddComponent(newExpensiveSweden()))

	assert.Len(t, m.GetCosts(source), 3)
	info, err = m.PriceInfo(source)
	require.NoError(t, err)
	assert.True(t, info.Price.Equals(eur("8.75")))
	assert.True(t, info.BasePrice.Equals(eur("7.75")))
	assert.True(t, info.DiscountAmount().Equals(eur("-1")))
}

func TestMethod_ValidationErrors_Disabled(t *testing.T) {
	m := newTestShippingMethod(t)
	require.NoError(t, m.AddComponent(newExpensiveSweden()))
	require.NoError(t, m.Disable())

	errs := m.ValidationErrors(newTestSource(t, "FI"))
	assert.Equal(t, []string{ReasonMethodDisabled, "we_no_speak_finnish"}, errs.Codes())
	assert.False(t, m.IsAvailableFor(newTestSource(t, "SE")))
}

func TestMethod_ValidationErrors_ProviderDisabled(t *testing.T) {
	m := newTestShippingMethod(t)
	m.ProviderDisabled = true

	errs := m.ValidationErrors(newTestSource(t, "SE"))
	assert.Equal(t, []string{ReasonProviderDisabled}, errs.Codes())
	assert.False(t, m.IsAvailableFor(newTestSource(t, "SE")))
}

func TestMethod_EffectiveName(t *testing.T) {
	m := newTestShippingMethod(t)
	source := newTestSource(t, "NL")
	assert.Equal(t, "Expensive Sweden Shipping", m.EffectiveName(source))

	require.NoError(t, m.AddComponent(newFlatCost("1")))
	require.NoError(t, m.AddComponent(newExpensiveSweden()))
	assert.Equal(t, "Expenseefe-a Svedee Sheepping", m.EffectiveName(source))
}

func TestMethod_DeliveryTime(t *testing.T) {
	m := newTestShippingMethod(t)
	source := newTestSource(t, "SE")
	assert.Nil(t, m.DeliveryTime(source))
	assert.Equal(t, "", m.ShippingTime())

	minDays, maxDays := 2, 4
	require.NoError(t, m.SetDeliveryTime(&minDays, &maxDays))
	assert.Equal(t, "2--4 days", m.ShippingTime())
	assert.Equal(t, &DeliveryTimeRange{MinDays: 2, MaxDays: 4}, m.DeliveryTime(source))

	fast := newFlatCost("1")
	fast.days = &DeliveryTimeRange{MinDays: 1, MaxDays: 2}
	slow := newFlatCost("1")
	slow.days = &DeliveryTimeRange{MinDays: 3, MaxDays: 7}
	require.NoError(t, m.ReplaceComponents([]BehaviorComponent{fast, slow}))
	assert.Equal(t, &DeliveryTimeRange{MinDays: 1, MaxDays: 7}, m.DeliveryTime(source))

	bad := 1
	assert.Error(t, m.SetDeliveryTime(&maxDays, &bad))
}

func TestMethod_SetDeliveryTime_PaymentRejected(t *testing.T) {
	m, err := NewMethod(uuid.New(), MethodKindPayment, "invoice", "Invoice", uuid.New())
	require.NoError(t, err)
	days := 1
	assert.Error(t, m.SetDeliveryTime(&days, &days))
	assert.NoError(t, m.SetDeliveryTime(nil, nil))
}

func TestMethod_Components(t *testing.T) {
	m := newTestShippingMethod(t)
	a, b := newFlatCost("1"), newFlatCost("2")
	require.NoError(t, m.AddComponent(a))
	require.NoError(t, m.AddComponent(b))
	assert.Error(t, m.AddComponent(nil))

	require.NoError(t, m.RemoveComponent(0))
	require.Len(t, m.Components, 1)
	assert.Same(t, b, m.Components[0])
	assert.Error(t, m.RemoveComponent(5))
	assert.Error(t, m.ReplaceComponents([]BehaviorComponent{nil}))
}

func TestMethod_AttachService(t *testing.T) {
	m := newTestShippingMethod(t)
	carrier, err := NewCarrier(m.ShopID, "expensive_sweden", "Expensive Sweden Shipping")
	require.NoError(t, err)
	require.NoError(t, carrier.AddService("default", "Default service"))

	assert.Error(t, m.AttachService(carrier, "express"))
	require.NoError(t, m.AttachService(carrier, "default"))
	require.NotNil(t, m.ProviderID)
	assert.Equal(t, carrier.ID, *m.ProviderID)

	processor, err := NewPaymentProcessor(m.ShopID, "bank", "Bank")
	require.NoError(t, err)
	require.NoError(t, processor.AddService("transfer", "Transfer"))
	assert.Error(t, m.AttachService(processor, "transfer"))
}

func TestMethod_Update(t *testing.T) {
	m := newTestShippingMethod(t)
	version := m.Version
	newTax := uuid.New()

	require.NoError(t, m.Update("Posti", "Parcel to pickup point", newTax))
	assert.Equal(t, "Posti", m.Name)
	assert.Equal(t, newTax, m.TaxClassID)
	assert.Equal(t, version+1, m.Version)

	assert.Error(t, m.Update("", "", newTax))
	assert.Error(t, m.Update("Posti", "", uuid.Nil))
}

package behavior

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestMethod(t *testing.T) *service.Method {
	t.Helper()
	m, err := service.NewMethod(uuid.New(), service.MethodKindShipping, "test", "Test shipping", uuid.New())
	require.NoError(t, err)
	return m
}

// newTestSource builds a source holding one product line of qty units at
// unitPrice EUR weighing unitKg each, shipped to country
func newTestSource(t *testing.T, qty int64, unitPrice, unitKg, country string) *service.Source {
	t.Helper()
	source := service.NewSource(uuid.New(), valueobject.EUR, true)
	require.NoError(t, source.AddLine(service.SourceLine{
		ProductID:     uuid.New(),
		Quantity:      decimal.NewFromInt(qty),
		BaseUnitPrice: valueobject.MustMoney(unitPrice, valueobject.EUR),
		Weight:        valueobject.Kilograms(decimal.RequireFromString(unitKg)),
	}))
	if country != "" {
		source.ShippingAddress = valueobject.MustNewAddress(country)
	}
	return source
}

func kg(s string) *valueobject.Weight {
	w := valueobject.Kilograms(decimal.RequireFromString(s))
	return &w
}

func eur(s string) valueobject.Money {
	return valueobject.MustMoney(s, valueobject.EUR)
}

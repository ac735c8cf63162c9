package service

import (
	"github.com/google/uuid"
)

// ProductMethodLimit restricts which methods may be used with a product.
// When a Limit flag is off the product accepts every method of that kind.
type ProductMethodLimit struct {
	ShopID               uuid.UUID
	ProductID            uuid.UUID
	LimitShippingMethods bool
	LimitPaymentMethods  bool
	ShippingMethodIDs    []uuid.UUID
	PaymentMethodIDs     []uuid.UUID
}

// Limits reports whether the product restricts methods of the kind
func (l ProductMethodLimit) Limits(kind MethodKind) bool {
	if kind == MethodKindPayment {
		return l.LimitPaymentMethods
	}
	return l.LimitShippingMethods
}

// Allowed returns the method ids the product permits for the kind
func (l ProductMethodLimit) Allowed(kind MethodKind) []uuid.UUID {
	if kind == MethodKindPayment {
		return l.PaymentMethodIDs
	}
	return l.ShippingMethodIDs
}

// AvailableIDs narrows candidates to the methods every limiting product
// permits. Products without a limit impose nothing; a limiting product with
// no linked methods leaves nothing.
func AvailableIDs(kind MethodKind, candidates []uuid.UUID, limits []ProductMethodLimit) map[uuid.UUID]struct{} {
	available := make(map[uuid.UUID]struct{}, len(candidates))
	for _, id := range candidates {
		available[id] = struct{}{}
	}
	for _, limit := range limits {
		if !limit.Limits(kind) {
			continue
		}
		allowed := make(map[uuid.UUID]struct{}, len(limit.Allowed(kind)))
		for _, id := range limit.Allowed(kind) {
			allowed[id] = struct{}{}
		}
		for id := range available {
			if _, ok := allowed[id]; !ok {
				delete(available, id)
			}
		}
	}
	return available
}

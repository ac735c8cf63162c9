// Package strategy holds the contracts shared by the pluggable rules that
// price a method, decide its availability and estimate its delivery.
package strategy

import "slices"

// StrategyType is the part of method resolution a rule takes part in
type StrategyType string

const (
	StrategyTypePricing      StrategyType = "pricing"
	StrategyTypeAvailability StrategyType = "availability"
	StrategyTypeDelivery     StrategyType = "delivery"
)

var strategyTypes = []StrategyType{
	StrategyTypePricing,
	StrategyTypeAvailability,
	StrategyTypeDelivery,
}

func (t StrategyType) String() string { return string(t) }

func (t StrategyType) IsValid() bool { return slices.Contains(strategyTypes, t) }

// AllStrategyTypes lists the types in resolution order
func AllStrategyTypes() []StrategyType { return slices.Clone(strategyTypes) }

// Strategy describes a registered rule. Name doubles as the persisted kind.
type Strategy interface {
	Name() string
	Type() StrategyType
	Description() string
}

// BaseStrategy carries the descriptive fields so rules only embed it
type BaseStrategy struct {
	name, description string
	kind              StrategyType
}

func NewBaseStrategy(name string, t StrategyType, description string) BaseStrategy {
	return BaseStrategy{name: name, kind: t, description: description}
}

func (s BaseStrategy) Name() string        { return s.name }
func (s BaseStrategy) Type() StrategyType  { return s.kind }
func (s BaseStrategy) Description() string { return s.description }

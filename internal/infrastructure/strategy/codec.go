package strategy

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopcore/backend/internal/domain/service"
	"github.com/shopcore/backend/internal/domain/shared"
)

var configJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// EncodeConfig serializes a component configuration
func EncodeConfig(config any) ([]byte, error) {
	return configJSON.Marshal(config)
}

// DecodeConfig parses a stored configuration. Empty input leaves the zero value.
func DecodeConfig[C any](data []byte) (C, error) {
	var cfg C
	if len(data) == 0 {
		return cfg, nil
	}
	if err := configJSON.Unmarshal(data, &cfg); err != nil {
		return cfg, shared.WrapDomainError(shared.ErrInvalidInput.Code, fmt.Sprintf("invalid component configuration: %v", err), err)
	}
	return cfg, nil
}

// Factory adapts a typed constructor into a ComponentFactory
func Factory[C any, B service.BehaviorComponent](build func(C) (B, error)) ComponentFactory {
	return func(data []byte) (service.BehaviorComponent, error) {
		cfg, err := DecodeConfig[C](data)
		if err != nil {
			return nil, err
		}
		c, err := build(cfg)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

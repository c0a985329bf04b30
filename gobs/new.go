// Copyright (c) 2025 BVK Chaitanya

package gobs

import (
	"fmt"
)

// NewByTypename returns a zero value of the named gob type, for tools that
// decode database values generically.
func NewByTypename(typename string) (any, error) {
	var v any
	switch typename {
	case "StrategyConfig":
		v = new(StrategyConfig)
	case "KeyData":
		v = new(KeyData)
	case "KeyValue":
		v = new(KeyValue)
	case "TelegramState":
		v = new(TelegramState)
	default:
		return nil, fmt.Errorf("unsupported type name %q", typename)
	}
	return v, nil
}

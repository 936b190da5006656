package strategy

import "agenttrader/internal/market"

// Placeholder is a named strategy slot that never emits. It keeps registry
// wiring in place for model-driven strategies that are not implemented yet.
type Placeholder struct {
	name string
}

// NewPlaceholder reserves a slot under the given name.
func NewPlaceholder(name string) *Placeholder {
	if name == "" {
		name = "placeholder"
	}
	return &Placeholder{name: name}
}

func (s *Placeholder) Name() string { return s.name }

func (s *Placeholder) Indicators() []string { return nil }

func (s *Placeholder) OnCandle(market.Candle) *market.Signal { return nil }

func (s *Placeholder) Reset() {}

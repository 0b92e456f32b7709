package types

import (
	"fmt"
	"time"
)

type OptionKind string

const (
	KindCall OptionKind = "CALL"
	KindPut  OptionKind = "PUT"
)

// OptionLeg is one option contract inside a strategy. Legs are immutable
// once added; Contracts is signed (positive long, negative short).
type OptionLeg struct {
	Symbol     string
	Strike     float64
	Expiry     time.Time
	Kind       OptionKind
	Contracts  int
	EntryPrice float64
}

// Strategy is a named, ordered collection of option legs. Legs do not need
// to share a strike, kind or expiry.
type Strategy struct {
	Name        string
	Description string
	Legs        []OptionLeg
}

func NewStrategy(name, description string) *Strategy {
	return &Strategy{Name: name, Description: description}
}

func (s *Strategy) AddLeg(leg OptionLeg) {
	s.Legs = append(s.Legs, leg)
}

// NewCreditSpread builds a two-leg credit spread: a bear call spread when
// kind is KindCall, a bull put spread when kind is KindPut. Entry prices are
// zero until filled with market data.
func NewCreditSpread(symbol string, expiry time.Time, longStrike, shortStrike float64, kind OptionKind, contracts int) *Strategy {
	label := "Bull Put"
	if kind == KindCall {
		label = "Bear Call"
	}

	s := NewStrategy(
		fmt.Sprintf("%s Spread %s", label, symbol),
		fmt.Sprintf("%s spread with long %v and short %v", label, longStrike, shortStrike),
	)
	s.AddLeg(OptionLeg{
		Symbol:    symbol,
		Strike:    longStrike,
		Expiry:    expiry,
		Kind:      kind,
		Contracts: contracts,
	})
	s.AddLeg(OptionLeg{
		Symbol:    symbol,
		Strike:    shortStrike,
		Expiry:    expiry,
		Kind:      kind,
		Contracts: -contracts,
	})
	return s
}

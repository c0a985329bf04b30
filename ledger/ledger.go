// Copyright (c) 2025 BVK Chaitanya

// Package ledger tracks the holdings of one averaging-down strategy. A
// State carries the open position with its cost basis, the realized and
// unrealized profit and the condition tracks for the buy, sell and cover
// decisions. Fill methods mutate the state the way an immediate fill at the
// given market price would.
package ledger

import (
	"fmt"
	"os"

	"github.com/bvk/dcabot/trigger"
	"github.com/shopspring/decimal"
)

// Dust is the smallest quantity considered a real holding. Positions at or
// below this threshold after a round of sells are treated as fully closed.
var Dust = decimal.New(1, -7)

// Position is a single buy fill tracked separately when the strategy sells
// sub-positions individually. Each position carries its own sell track so
// that sell setups on different fills arm and fire independently.
type Position struct {
	EntryPrice decimal.Decimal
	Quantity   decimal.Decimal
	SellTrack  trigger.Track
}

// State is the live trading state of one strategy run. It is kept in
// memory by the strategy loop and read through snapshots; it is never
// persisted across restarts.
type State struct {
	// UID of the strategy configuration this state belongs to.
	UID string

	// KeyID and ProductID are copied from the configuration at start.
	KeyID     string
	ProductID string

	Running bool

	Quantity          decimal.Decimal
	AverageEntryPrice decimal.Decimal

	// InitialEntryPrice is the fill price of the first buy of the current
	// cycle and LastBuyPrice is the fill price of the most recent buy. Both
	// are zero while flat.
	InitialEntryPrice decimal.Decimal
	LastBuyPrice      decimal.Decimal

	TotalInvested decimal.Decimal
	RealizedPNL   decimal.Decimal
	UnrealizedPNL decimal.Decimal

	// CoverCount is the number of cover buys filled for the current cycle.
	CoverCount int

	BuyTrack   trigger.Track
	SellTrack  trigger.Track
	CoverTrack trigger.Track

	// Positions holds the individual buy fills. It is used only when the
	// strategy sells sub-positions individually and stays empty otherwise.
	Positions []*Position

	LastError string

	// ReferencePrice is the baseline for the initial buy trigger. It is
	// seeded from the market once while flat and replaced on restarts.
	ReferencePrice decimal.Decimal
}

// New returns a flat, non-running state for the given strategy.
func New(uid, keyID, productID string) *State {
	return &State{
		UID:        uid,
		KeyID:      keyID,
		ProductID:  productID,
		BuyTrack:   trigger.NewTrack(),
		SellTrack:  trigger.NewTrack(),
		CoverTrack: trigger.NewTrack(),
	}
}

// MarkPrice refreshes the unrealized profit against the given market price.
func (s *State) MarkPrice(price decimal.Decimal) {
	if s.Quantity.Sign() > 0 && s.AverageEntryPrice.Sign() > 0 {
		s.UnrealizedPNL = price.Sub(s.AverageEntryPrice).Mul(s.Quantity)
		return
	}
	s.UnrealizedPNL = decimal.Zero
}

// FillInitialBuy opens a new cycle by buying the given notional at price.
// The entry prices are recorded before the quantity so that a bad market
// price leaves the state flat with the error visible to the caller.
func (s *State) FillInitialBuy(price, notional decimal.Decimal, individual bool) error {
	s.InitialEntryPrice = price
	s.LastBuyPrice = price
	s.AverageEntryPrice = price
	if price.Sign() <= 0 {
		s.Quantity = decimal.Zero
		return fmt.Errorf("market price is zero or invalid: %w", os.ErrInvalid)
	}
	s.Quantity = notional.Div(price)
	s.TotalInvested = notional
	if individual {
		s.Positions = []*Position{{
			EntryPrice: price,
			Quantity:   s.Quantity,
			SellTrack:  trigger.NewTrack(),
		}}
	} else {
		s.Positions = nil
	}
	s.BuyTrack.Reset()
	s.SellTrack.Reset()
	s.CoverTrack.Reset()
	s.CoverCount = 0
	return nil
}

// FillAggregateSell closes the whole position at price and returns the
// realized profit of the trade. All cycle state is cleared so that a cyclic
// strategy can rearm from scratch.
func (s *State) FillAggregateSell(price decimal.Decimal) decimal.Decimal {
	profit := price.Sub(s.AverageEntryPrice).Mul(s.Quantity)
	s.RealizedPNL = s.RealizedPNL.Add(profit)

	s.Quantity = decimal.Zero
	s.AverageEntryPrice = decimal.Zero
	s.TotalInvested = decimal.Zero
	s.CoverCount = 0
	s.InitialEntryPrice = decimal.Zero
	s.LastBuyPrice = decimal.Zero
	s.Positions = nil
	s.UnrealizedPNL = decimal.Zero

	s.SellTrack.Reset()
	s.BuyTrack.Reset()
	s.CoverTrack.Reset()
	return profit
}

// FillPositionSell closes one sub-position at price and returns its realized
// profit. The caller is responsible for removing the position from
// Positions and calling RebalanceAfterSells once the round is complete.
func (s *State) FillPositionSell(p *Position, price decimal.Decimal) decimal.Decimal {
	profit := price.Sub(p.EntryPrice).Mul(p.Quantity)
	s.RealizedPNL = s.RealizedPNL.Add(profit)
	s.Quantity = s.Quantity.Sub(p.Quantity)
	s.TotalInvested = s.TotalInvested.Sub(p.EntryPrice.Mul(p.Quantity))
	return profit
}

// RebalanceAfterSells recomputes the average entry price after one or more
// individual sells. When the remaining quantity is at or below Dust the
// whole cycle is cleared and true is returned; the sell tracks of any
// remaining positions are left alone because they are removed with the
// positions themselves.
func (s *State) RebalanceAfterSells() bool {
	if s.Quantity.GreaterThan(Dust) {
		s.AverageEntryPrice = s.TotalInvested.Div(s.Quantity)
		return false
	}
	s.Quantity = decimal.Zero
	s.AverageEntryPrice = decimal.Zero
	s.TotalInvested = decimal.Zero
	s.UnrealizedPNL = decimal.Zero
	s.InitialEntryPrice = decimal.Zero
	s.LastBuyPrice = decimal.Zero
	s.CoverCount = 0
	s.BuyTrack.Reset()
	s.CoverTrack.Reset()
	return true
}

// FillCoverBuy merges an averaging-down buy of the given notional amount at
// price into the position. Aggregate-sell strategies get their sell track
// reset because the cover changes the cost basis an in-progress sell setup
// was armed against.
func (s *State) FillCoverBuy(price, amount decimal.Decimal, individual bool) error {
	if price.Sign() <= 0 {
		return fmt.Errorf("market price is zero or invalid: %w", os.ErrInvalid)
	}
	quantity := amount.Div(price)
	if quantity.Sign() <= 0 {
		return nil
	}

	invested := s.TotalInvested.Add(amount)
	total := s.Quantity.Add(quantity)
	if total.Sign() > 0 {
		s.AverageEntryPrice = invested.Div(total)
	} else {
		s.AverageEntryPrice = decimal.Zero
	}
	s.LastBuyPrice = price
	s.Quantity = total
	s.TotalInvested = invested
	s.CoverCount++

	if individual {
		s.Positions = append(s.Positions, &Position{
			EntryPrice: price,
			Quantity:   quantity,
			SellTrack:  trigger.NewTrack(),
		})
	}

	s.CoverTrack.Reset()
	if !individual {
		s.SellTrack.Reset()
	}
	return nil
}

// Check verifies the internal consistency of the state. A flat state must
// have no cost basis and no sub-positions, and the sub-position quantities
// must always add up to the aggregate quantity.
func (s *State) Check() error {
	flat := s.Quantity.Sign() == 0
	if flat != (s.AverageEntryPrice.Sign() == 0) {
		return fmt.Errorf("quantity %s and average entry price %s disagree", s.Quantity, s.AverageEntryPrice)
	}
	if flat != (s.TotalInvested.Sign() == 0) {
		return fmt.Errorf("quantity %s and total invested %s disagree", s.Quantity, s.TotalInvested)
	}
	if flat {
		if len(s.Positions) != 0 {
			return fmt.Errorf("flat state holds %d sub-positions", len(s.Positions))
		}
		if !s.UnrealizedPNL.IsZero() {
			return fmt.Errorf("flat state has unrealized pnl %s", s.UnrealizedPNL)
		}
		return nil
	}
	if len(s.Positions) > 0 {
		sum := decimal.Zero
		for _, p := range s.Positions {
			sum = sum.Add(p.Quantity)
		}
		if !sum.Equal(s.Quantity) {
			return fmt.Errorf("sub-position quantities add up to %s, want %s", sum, s.Quantity)
		}
	}
	return nil
}

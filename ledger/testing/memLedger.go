// Copyright (C) 2019-2025 Algorand, Inc.
// This file is part of go-algorand
//
// go-algorand is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-algorand is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with go-algorand.  If not, see <https://www.gnu.org/licenses/>.

package testing

import (
	"errors"
	"fmt"

	"github.com/algorand/go-deadlock"

	"github.com/algorand/go-storagemeter/data/basics"
	"github.com/algorand/go-storagemeter/ledger/meter"
)

// ErrInsufficientBalance is returned by MemLedger.ReserveLimit when the
// origin's spendable balance does not cover the limit.
var ErrInsufficientBalance = errors.New("insufficient spendable balance")

// Reservation records a ReserveLimit call that succeeded.
type Reservation struct {
	Origin basics.Address
	Limit  basics.Balance
}

// Release records an UnreserveLimit call.
type Release struct {
	Origin basics.Address
	Limit  basics.Balance
	Usage  meter.Usage
}

// Settlement records a Charge call.
type Settlement struct {
	Origin   basics.Address
	Contract basics.Address
	Cost     meter.Cost
}

// MemLedger is an in-memory meter.Ext. Holds restrict what an origin may
// reserve next; charges move deposit between an origin's balance and the
// contract's deposit account. Every call is recorded so tests can assert on
// the exact protocol. One MemLedger may back several call trees at once.
type MemLedger struct {
	mu deadlock.Mutex

	balances map[basics.Address]basics.Balance
	held     map[basics.Address]basics.Balance
	deposits map[basics.Address]basics.Balance

	reservations []Reservation
	releases     []Release
	settlements  []Settlement
}

// MakeMemLedger creates a ledger with the given initial balances.
func MakeMemLedger(balances map[basics.Address]basics.Balance) *MemLedger {
	l := &MemLedger{
		balances: make(map[basics.Address]basics.Balance, len(balances)),
		held:     make(map[basics.Address]basics.Balance),
		deposits: make(map[basics.Address]basics.Balance),
	}
	for addr, bal := range balances {
		l.balances[addr] = bal
	}
	return l
}

// ReserveLimit implements meter.Ext.
func (l *MemLedger) ReserveLimit(origin basics.Address, limit basics.Balance) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	spendable := l.balances[origin].Sub(l.held[origin])
	if spendable < limit {
		return fmt.Errorf("%w: %v has %d spendable, needs %d", ErrInsufficientBalance, origin, spendable, limit)
	}
	l.held[origin] = l.held[origin].Add(limit)
	l.reservations = append(l.reservations, Reservation{Origin: origin, Limit: limit})
	return nil
}

// UnreserveLimit implements meter.Ext.
func (l *MemLedger) UnreserveLimit(origin basics.Address, limit basics.Balance, usage meter.Usage) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.held[origin] = l.held[origin].Sub(limit)
	l.releases = append(l.releases, Release{Origin: origin, Limit: limit, Usage: usage})
}

// Charge implements meter.Ext.
func (l *MemLedger) Charge(origin basics.Address, contract basics.Address, cost meter.Cost) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cost.IsCharge() {
		l.balances[origin] = l.balances[origin].Sub(cost.Amount())
		l.deposits[contract] = l.deposits[contract].Add(cost.Amount())
	} else {
		l.deposits[contract] = l.deposits[contract].Sub(cost.Amount())
		l.balances[origin] = l.balances[origin].Add(cost.Amount())
	}
	l.settlements = append(l.settlements, Settlement{Origin: origin, Contract: contract, Cost: cost})
}

// Balance returns the total balance of addr, held or not.
func (l *MemLedger) Balance(addr basics.Address) basics.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[addr]
}

// Held returns the amount currently reserved against addr.
func (l *MemLedger) Held(addr basics.Address) basics.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.held[addr]
}

// Deposit returns the storage deposit accumulated by contract.
func (l *MemLedger) Deposit(contract basics.Address) basics.Balance {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.deposits[contract]
}

// Reservations returns a copy of the recorded reservations.
func (l *MemLedger) Reservations() []Reservation {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Reservation(nil), l.reservations...)
}

// Releases returns a copy of the recorded releases.
func (l *MemLedger) Releases() []Release {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Release(nil), l.releases...)
}

// Settlements returns a copy of the recorded settlements.
func (l *MemLedger) Settlements() []Settlement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Settlement(nil), l.settlements...)
}

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

package meter

import (
	"fmt"

	"github.com/algorand/go-storagemeter/config"
	"github.com/algorand/go-storagemeter/data/basics"
)

// Usage accumulates the deposit charged and refunded within one scope.
// Both totals only ever grow by saturating addition. Subtract undoes a
// Combine exactly as long as neither side saturated.
type Usage struct {
	Charged  basics.Balance `json:"charged"`
	Refunded basics.Balance `json:"refunded"`
}

// Charge returns u with amount added to the charged total.
func (u Usage) Charge(amount basics.Balance) Usage {
	u.Charged = u.Charged.Add(amount)
	return u
}

// Refund returns u with amount added to the refunded total.
func (u Usage) Refund(amount basics.Balance) Usage {
	u.Refunded = u.Refunded.Add(amount)
	return u
}

// Combine merges other into u component-wise.
func (u Usage) Combine(other Usage) Usage {
	return Usage{
		Charged:  u.Charged.Add(other.Charged),
		Refunded: u.Refunded.Add(other.Refunded),
	}
}

// Subtract removes other from u component-wise, flooring at zero.
func (u Usage) Subtract(other Usage) Usage {
	return Usage{
		Charged:  u.Charged.Sub(other.Charged),
		Refunded: u.Refunded.Sub(other.Refunded),
	}
}

// Cost is the net of the two totals. A tie is a zero charge.
func (u Usage) Cost() Cost {
	if u.Charged >= u.Refunded {
		return ChargeOf(u.Charged - u.Refunded)
	}
	return RefundOf(u.Refunded - u.Charged)
}

// IsZero checks if nothing was charged or refunded.
func (u Usage) IsZero() bool {
	return u == Usage{}
}

func (u Usage) String() string {
	return fmt.Sprintf("{charged:%d refunded:%d}", u.Charged, u.Refunded)
}

// Cost is a net amount owed by the origin (a charge) or owed back to it (a
// refund). The zero value is a zero charge.
type Cost struct {
	refund bool
	amount basics.Balance
}

// ChargeOf makes a Cost charging amount to the origin.
func ChargeOf(amount basics.Balance) Cost {
	return Cost{amount: amount}
}

// RefundOf makes a Cost refunding amount to the origin.
func RefundOf(amount basics.Balance) Cost {
	return Cost{refund: true, amount: amount}
}

// IsCharge reports whether the origin pays.
func (c Cost) IsCharge() bool {
	return !c.refund
}

// IsRefund reports whether the origin is paid back.
func (c Cost) IsRefund() bool {
	return c.refund
}

// Amount is the magnitude of the cost.
func (c Cost) Amount() basics.Balance {
	return c.amount
}

func (c Cost) String() string {
	if c.refund {
		return fmt.Sprintf("refund(%d)", c.amount)
	}
	return fmt.Sprintf("charge(%d)", c.amount)
}

// StorageDelta is the change in contract storage produced by one read/write
// batch of the storage layer.
type StorageDelta struct {
	BytesAdded   uint64
	BytesRemoved uint64
	ItemsAdded   uint64
	ItemsRemoved uint64
}

// UsageFromDelta prices a storage delta: created storage is charged, freed
// storage is refunded, both at the deposit rates of params. clamped reports
// that either amount saturated at MaxBalance.
func UsageFromDelta(params config.StorageParams, delta StorageDelta) (u Usage, clamped bool) {
	charge, chargeOverflow := params.Deposit(delta.BytesAdded, delta.ItemsAdded)
	refund, refundOverflow := params.Deposit(delta.BytesRemoved, delta.ItemsRemoved)
	return Usage{Charged: charge, Refunded: refund}, chargeOverflow || refundOverflow
}

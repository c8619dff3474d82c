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

package config

import (
	"github.com/algorand/go-storagemeter/data/basics"
)

// StorageParams specifies the protocol-level pricing of contract storage and
// the shape limits of a metered call tree.
type StorageParams struct {
	// DepositPerByte is charged for every byte of contract storage a call
	// creates, and refunded for every byte it frees.
	DepositPerByte uint64

	// DepositPerItem is charged for every storage item (key) a call creates,
	// and refunded for every item it removes.
	DepositPerItem uint64

	// MaxCallDepth is the maximal number of nested meters that may be open
	// below a single root meter. Zero disables the check.
	MaxCallDepth uint32
}

// DefaultStorageParams is the pricing used when nothing else is configured.
var DefaultStorageParams = StorageParams{
	DepositPerByte: 1000,
	DepositPerItem: 25000,
	MaxCallDepth:   8,
}

// Deposit computes the deposit backing the given amount of storage. It
// saturates instead of overflowing and reports whether it did.
func (p StorageParams) Deposit(bytes uint64, items uint64) (basics.Balance, bool) {
	var ot basics.OverflowTracker
	byteCost := ot.MulB(basics.Balance(p.DepositPerByte), bytes)
	itemCost := ot.MulB(basics.Balance(p.DepositPerItem), items)
	return ot.AddB(byteCost, itemCost), ot.Overflowed
}

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
	"github.com/algorand/go-storagemeter/data/basics"
)

// Tracer functions are called by meters as a call tree is metered, if a
// tracer is provided.
//
// Hooks receive copies; a tracer cannot affect the meter.
//
//	CALL TREE LIFECYCLE
//	┌─────────────────────────────────────┐
//	│ > AfterReserve                      │
//	│                                     │
//	│  ┌───────────────────────────────┐  │
//	│  │ > AfterNested                 │  │
//	│  │ > AfterCharge (repeated)      │  │
//	│  │   ... nested lifecycles ...   │  │
//	│  │ > AfterAbsorb                 │  │
//	│  └───────────────────────────────┘  │
//	│   ⁞  ⁞  ⁞  ⁞  ⁞  ⁞  ⁞  ⁞  ⁞  ⁞  ⁞   │
//	│                                     │
//	│ > AfterRelease                      │
//	└─────────────────────────────────────┘
type Tracer interface {
	// AfterReserve is called once the ledger accepted or refused the
	// reservation of a root meter. AfterRelease follows only when err is nil.
	AfterReserve(origin basics.Address, limit basics.Balance, err error)

	// AfterNested is called when a nested meter is opened, with its depth
	// (1 for a direct child of the root) and the limit it was granted.
	AfterNested(depth uint32, contract basics.Address, limit basics.Balance)

	// AfterCharge is called after delta was recorded on a nested meter.
	// total is the meter's aggregate usage including the delta. evalError is
	// non-nil when a limit was exceeded.
	AfterCharge(depth uint32, contract basics.Address, delta Usage, total Usage, evalError error)

	// AfterAbsorb is called when a nested meter is committed (persist) or
	// discarded. cost is what was settled; it is a zero charge on discard.
	AfterAbsorb(depth uint32, contract basics.Address, persist bool, cost Cost)

	// AfterRelease is called when the root meter released its reservation.
	AfterRelease(origin basics.Address, limit basics.Balance, usage Usage)
}

// NullTracer implements Tracer, but all of its hook methods do nothing
type NullTracer struct{}

// AfterReserve does nothing
func (n NullTracer) AfterReserve(origin basics.Address, limit basics.Balance, err error) {}

// AfterNested does nothing
func (n NullTracer) AfterNested(depth uint32, contract basics.Address, limit basics.Balance) {}

// AfterCharge does nothing
func (n NullTracer) AfterCharge(depth uint32, contract basics.Address, delta Usage, total Usage, evalError error) {
}

// AfterAbsorb does nothing
func (n NullTracer) AfterAbsorb(depth uint32, contract basics.Address, persist bool, cost Cost) {}

// AfterRelease does nothing
func (n NullTracer) AfterRelease(origin basics.Address, limit basics.Balance, usage Usage) {}

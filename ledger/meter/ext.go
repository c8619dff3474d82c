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

// Ext is the balance ledger a meter settles against. The meter guarantees
// UnreserveLimit is called exactly once for every successful ReserveLimit,
// and Charge once for every committed nested meter.
type Ext interface {
	// ReserveLimit places a hold of limit on origin's spendable balance.
	ReserveLimit(origin basics.Address, limit basics.Balance) error

	// UnreserveLimit removes the hold placed by ReserveLimit. usage is the
	// aggregate of every nested meter that was not discarded.
	UnreserveLimit(origin basics.Address, limit basics.Balance, usage Usage)

	// Charge moves cost between origin and contract.
	Charge(origin basics.Address, contract basics.Address, cost Cost)
}

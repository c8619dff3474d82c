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

package basics

import (
	"math"
	"strconv"
)

// Balance is an amount of the deposit currency. All arithmetic on a Balance
// saturates at zero and MaxBalance.
type Balance uint64

// MaxBalance is the largest representable Balance.
const MaxBalance = Balance(math.MaxUint64)

// Add returns a+b, saturating at MaxBalance.
func (a Balance) Add(b Balance) Balance {
	return AddSaturate(a, b)
}

// Sub returns a-b, saturating at zero.
func (a Balance) Sub(b Balance) Balance {
	return SubSaturate(a, b)
}

// MulScalar returns a*n, saturating at MaxBalance.
func (a Balance) MulScalar(n uint64) Balance {
	return MulSaturate(a, Balance(n))
}

// IsZero checks if the amount is zero.
func (a Balance) IsZero() bool {
	return a == 0
}

// String renders the raw amount.
func (a Balance) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

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
	"crypto/rand"

	"github.com/algorand/go-storagemeter/data/basics"
)

// RandomAddress generates a random address
func RandomAddress() basics.Address {
	var addr basics.Address
	if _, err := rand.Read(addr[:]); err != nil {
		panic(err)
	}
	return addr
}

// RandomAddresses generates n distinct random addresses
func RandomAddresses(n int) []basics.Address {
	seen := make(map[basics.Address]bool, n)
	res := make([]basics.Address, 0, n)
	for len(res) < n {
		addr := RandomAddress()
		if seen[addr] {
			continue
		}
		seen[addr] = true
		res = append(res, addr)
	}
	return res
}

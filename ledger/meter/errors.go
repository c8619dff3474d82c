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
	"errors"
	"fmt"

	"github.com/algorand/go-storagemeter/data/basics"
)

var (
	// ErrReservationFailed is matched by errors returned from NewRootMeter
	// when the ledger refuses to hold the limit.
	ErrReservationFailed = errors.New("storage deposit reservation failed")
	// ErrStorageExhausted is matched by errors returned from Charge when a
	// meter's net charge exceeds its limit.
	ErrStorageExhausted = errors.New("storage deposit limit exhausted")
	// ErrFrameBusy is returned when a meter is used while one of its nested
	// meters is still open.
	ErrFrameBusy = errors.New("meter has an open nested meter")
	// ErrFrameClosed is returned when a meter is used after being absorbed or released.
	ErrFrameClosed = errors.New("meter is closed")
	// ErrCallDepthExceeded is matched by errors returned from Nested when the
	// configured maximal call depth would be exceeded.
	ErrCallDepthExceeded = errors.New("meter call depth exceeded")
)

// ReservationError is returned when the ledger cannot set aside a root limit.
type ReservationError struct {
	Origin basics.Address
	Limit  basics.Balance
	Err    error
}

// Error satisfies builtin interface `error`
func (e *ReservationError) Error() string {
	return fmt.Sprintf("%v: origin %v limit %d: %v", ErrReservationFailed, e.Origin, e.Limit, e.Err)
}

// Unwrap returns the ledger's error.
func (e *ReservationError) Unwrap() error {
	return e.Err
}

// Is matches ErrReservationFailed.
func (e *ReservationError) Is(target error) bool {
	return target == ErrReservationFailed
}

// StorageExhaustedError describes the meter whose limit was exceeded. Depth
// zero refers to the root meter.
type StorageExhaustedError struct {
	Contract basics.Address
	Depth    uint32
	Limit    basics.Balance
	Charged  basics.Balance
}

// Error satisfies builtin interface `error`
func (e *StorageExhaustedError) Error() string {
	return fmt.Sprintf("%v: net charge %d over limit %d at depth %d (contract %v)", ErrStorageExhausted, e.Charged, e.Limit, e.Depth, e.Contract)
}

// Is matches ErrStorageExhausted.
func (e *StorageExhaustedError) Is(target error) bool {
	return target == ErrStorageExhausted
}

// CallDepthError is returned when opening a nested meter would exceed the
// maximal call depth.
type CallDepthError struct {
	Depth uint32
	Max   uint32
}

// Error satisfies builtin interface `error`
func (e *CallDepthError) Error() string {
	return fmt.Sprintf("%v: depth %d > %d", ErrCallDepthExceeded, e.Depth, e.Max)
}

// Is matches ErrCallDepthExceeded.
func (e *CallDepthError) Is(target error) bool {
	return target == ErrCallDepthExceeded
}

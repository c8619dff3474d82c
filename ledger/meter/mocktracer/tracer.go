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

package mocktracer

import (
	"github.com/algorand/go-storagemeter/data/basics"
	"github.com/algorand/go-storagemeter/ledger/meter"
)

// EventType represents a type of meter.Tracer event
type EventType string

const (
	// AfterReserveEvent represents the meter.Tracer.AfterReserve event
	AfterReserveEvent EventType = "AfterReserve"
	// AfterNestedEvent represents the meter.Tracer.AfterNested event
	AfterNestedEvent EventType = "AfterNested"
	// AfterChargeEvent represents the meter.Tracer.AfterCharge event
	AfterChargeEvent EventType = "AfterCharge"
	// AfterAbsorbEvent represents the meter.Tracer.AfterAbsorb event
	AfterAbsorbEvent EventType = "AfterAbsorb"
	// AfterReleaseEvent represents the meter.Tracer.AfterRelease event
	AfterReleaseEvent EventType = "AfterRelease"
)

// Event represents a meter.Tracer event
type Event struct {
	Type EventType

	// only for AfterReserve and AfterRelease
	Origin basics.Address

	// only for AfterNested, AfterCharge and AfterAbsorb
	Depth    uint32
	Contract basics.Address

	// for AfterReserve, AfterNested and AfterRelease
	Limit basics.Balance

	// only for AfterCharge
	Delta meter.Usage
	Total meter.Usage

	// only for AfterRelease
	Usage meter.Usage

	// only for AfterAbsorb
	Persist bool
	Cost    string

	// only for AfterReserve and AfterCharge
	Failed bool
}

// AfterReserve creates a new Event with the type AfterReserveEvent
func AfterReserve(origin basics.Address, limit basics.Balance, failed bool) Event {
	return Event{Type: AfterReserveEvent, Origin: origin, Limit: limit, Failed: failed}
}

// AfterNested creates a new Event with the type AfterNestedEvent
func AfterNested(depth uint32, contract basics.Address, limit basics.Balance) Event {
	return Event{Type: AfterNestedEvent, Depth: depth, Contract: contract, Limit: limit}
}

// AfterCharge creates a new Event with the type AfterChargeEvent
func AfterCharge(depth uint32, contract basics.Address, delta, total meter.Usage, failed bool) Event {
	return Event{Type: AfterChargeEvent, Depth: depth, Contract: contract, Delta: delta, Total: total, Failed: failed}
}

// AfterAbsorb creates a new Event with the type AfterAbsorbEvent
func AfterAbsorb(depth uint32, contract basics.Address, persist bool, cost meter.Cost) Event {
	return Event{Type: AfterAbsorbEvent, Depth: depth, Contract: contract, Persist: persist, Cost: cost.String()}
}

// AfterRelease creates a new Event with the type AfterReleaseEvent
func AfterRelease(origin basics.Address, limit basics.Balance, usage meter.Usage) Event {
	return Event{Type: AfterReleaseEvent, Origin: origin, Limit: limit, Usage: usage}
}

// Tracer is a mock tracer that implements meter.Tracer
type Tracer struct {
	Events []Event
}

// AfterReserve mocks the meter.Tracer.AfterReserve method
func (d *Tracer) AfterReserve(origin basics.Address, limit basics.Balance, err error) {
	d.Events = append(d.Events, AfterReserve(origin, limit, err != nil))
}

// AfterNested mocks the meter.Tracer.AfterNested method
func (d *Tracer) AfterNested(depth uint32, contract basics.Address, limit basics.Balance) {
	d.Events = append(d.Events, AfterNested(depth, contract, limit))
}

// AfterCharge mocks the meter.Tracer.AfterCharge method
func (d *Tracer) AfterCharge(depth uint32, contract basics.Address, delta meter.Usage, total meter.Usage, evalError error) {
	d.Events = append(d.Events, AfterCharge(depth, contract, delta, total, evalError != nil))
}

// AfterAbsorb mocks the meter.Tracer.AfterAbsorb method
func (d *Tracer) AfterAbsorb(depth uint32, contract basics.Address, persist bool, cost meter.Cost) {
	d.Events = append(d.Events, AfterAbsorb(depth, contract, persist, cost))
}

// AfterRelease mocks the meter.Tracer.AfterRelease method
func (d *Tracer) AfterRelease(origin basics.Address, limit basics.Balance, usage meter.Usage) {
	d.Events = append(d.Events, AfterRelease(origin, limit, usage))
}

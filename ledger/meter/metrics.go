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
	"github.com/prometheus/client_golang/prometheus"

	"github.com/algorand/go-storagemeter/util/metrics"
)

// Metrics counts meter lifecycle events. A nil *Metrics records nothing.
type Metrics struct {
	reservations        *metrics.Counter
	reservationFailures *metrics.Counter
	releases            *metrics.Counter
	nestedOpened        *metrics.Counter
	commits             *metrics.Counter
	reverts             *metrics.Counter
	exhausted           *metrics.Counter
	reserved            *metrics.Gauge
}

// MakeMetrics registers the meter metrics with reg, or with the default
// registerer if reg is nil. Calling it twice with the same registerer returns
// metrics sharing the same time series.
func MakeMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		reservations:        metrics.MakeCounterWith(reg, metrics.MeterReservationsTotal),
		reservationFailures: metrics.MakeCounterWith(reg, metrics.MeterReservationFailuresTotal),
		releases:            metrics.MakeCounterWith(reg, metrics.MeterReleasesTotal),
		nestedOpened:        metrics.MakeCounterWith(reg, metrics.MeterNestedOpenedTotal),
		commits:             metrics.MakeCounterWith(reg, metrics.MeterCommitsTotal),
		reverts:             metrics.MakeCounterWith(reg, metrics.MeterRevertsTotal),
		exhausted:           metrics.MakeCounterWith(reg, metrics.MeterStorageExhaustedTotal),
		reserved:            metrics.MakeGaugeWith(reg, metrics.MeterReservedDeposit),
	}
}

func (m *Metrics) reserve(limit uint64, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.reservationFailures.Inc()
		return
	}
	m.reservations.Inc()
	m.reserved.AddUint64(limit)
}

func (m *Metrics) release(limit uint64) {
	if m == nil {
		return
	}
	m.releases.Inc()
	m.reserved.SubUint64(limit)
}

func (m *Metrics) nested() {
	if m == nil {
		return
	}
	m.nestedOpened.Inc()
}

func (m *Metrics) absorb(persist bool) {
	if m == nil {
		return
	}
	if persist {
		m.commits.Inc()
	} else {
		m.reverts.Inc()
	}
}

func (m *Metrics) storageExhausted() {
	if m == nil {
		return
	}
	m.exhausted.Inc()
}

// Snapshot is a point-in-time copy of the counters, mostly for tests and
// diagnostics.
type Snapshot struct {
	Reservations        uint64
	ReservationFailures uint64
	Releases            uint64
	NestedOpened        uint64
	Commits             uint64
	Reverts             uint64
	StorageExhausted    uint64
	ReservedDeposit     float64
}

// Snapshot reads the current counter values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	return Snapshot{
		Reservations:        m.reservations.GetUint64Value(),
		ReservationFailures: m.reservationFailures.GetUint64Value(),
		Releases:            m.releases.GetUint64Value(),
		NestedOpened:        m.nestedOpened.GetUint64Value(),
		Commits:             m.commits.GetUint64Value(),
		Reverts:             m.reverts.GetUint64Value(),
		StorageExhausted:    m.exhausted.GetUint64Value(),
		ReservedDeposit:     m.reserved.GetValue(),
	}
}

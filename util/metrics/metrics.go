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

// Package metrics wraps prometheus collectors behind the small counter and
// gauge types the rest of the module uses.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricName describes the name and description of a single metric
type MetricName struct {
	Name        string
	Description string
}

var (
	// MeterReservationsTotal Total number of root meters that reserved their limit
	MeterReservationsTotal = MetricName{Name: "storagemeter_reservations_total", Description: "Total number of root meters that reserved their limit"}
	// MeterReservationFailuresTotal Total number of root meters whose reservation was refused by the ledger
	MeterReservationFailuresTotal = MetricName{Name: "storagemeter_reservation_failures_total", Description: "Total number of reservations refused by the ledger"}
	// MeterReleasesTotal Total number of root meters released
	MeterReleasesTotal = MetricName{Name: "storagemeter_releases_total", Description: "Total number of root meters released"}
	// MeterNestedOpenedTotal Total number of nested meters opened
	MeterNestedOpenedTotal = MetricName{Name: "storagemeter_nested_opened_total", Description: "Total number of nested meters opened"}
	// MeterCommitsTotal Total number of nested meters absorbed with persist=true
	MeterCommitsTotal = MetricName{Name: "storagemeter_commits_total", Description: "Total number of nested meters committed into their parent"}
	// MeterRevertsTotal Total number of nested meters absorbed with persist=false
	MeterRevertsTotal = MetricName{Name: "storagemeter_reverts_total", Description: "Total number of nested meters discarded"}
	// MeterStorageExhaustedTotal Total number of charges rejected because a limit was exceeded
	MeterStorageExhaustedTotal = MetricName{Name: "storagemeter_storage_exhausted_total", Description: "Total number of charges that exceeded a meter limit"}
	// MeterReservedDeposit Deposit currently held by live root meters
	MeterReservedDeposit = MetricName{Name: "storagemeter_reserved_deposit", Description: "Deposit currently reserved by live root meters"}
)

// register adds c to reg, or to the default registerer when reg is nil. If a
// collector with the same description is already registered, it is returned
// instead so that independent callers share one time series.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

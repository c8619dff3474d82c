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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Counter represent a single counter variable.
type Counter struct {
	c prometheus.Counter
}

// MakeCounter create a new counter with the provided name and description,
// registered with the default registerer.
func MakeCounter(metric MetricName) *Counter {
	return MakeCounterWith(nil, metric)
}

// MakeCounterWith creates a counter registered with reg (default registerer if nil).
func MakeCounterWith(reg prometheus.Registerer, metric MetricName) *Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Name: metric.Name,
		Help: metric.Description,
	})
	return &Counter{c: register[prometheus.Counter](reg, c)}
}

// NewCounter is a shortcut to MakeCounter in one shorter line.
func NewCounter(name, desc string) *Counter {
	return MakeCounter(MetricName{Name: name, Description: desc})
}

// Inc increases counter by 1
func (counter *Counter) Inc() {
	counter.c.Inc()
}

// AddUint64 increases counter by x
func (counter *Counter) AddUint64(x uint64) {
	counter.c.Add(float64(x))
}

// GetUint64Value returns the value of the counter.
func (counter *Counter) GetUint64Value() uint64 {
	var m dto.Metric
	if err := counter.c.Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}

// Gauge represent a single gauge variable.
type Gauge struct {
	g prometheus.Gauge
}

// MakeGaugeWith creates a gauge registered with reg (default registerer if nil).
func MakeGaugeWith(reg prometheus.Registerer, metric MetricName) *Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: metric.Name,
		Help: metric.Description,
	})
	return &Gauge{g: register[prometheus.Gauge](reg, g)}
}

// AddUint64 increases the gauge by x
func (gauge *Gauge) AddUint64(x uint64) {
	gauge.g.Add(float64(x))
}

// SubUint64 decreases the gauge by x
func (gauge *Gauge) SubUint64(x uint64) {
	gauge.g.Sub(float64(x))
}

// GetValue returns the current value of the gauge.
func (gauge *Gauge) GetValue() float64 {
	var m dto.Metric
	if err := gauge.g.Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

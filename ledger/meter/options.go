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

	"github.com/algorand/go-storagemeter/config"
	"github.com/algorand/go-storagemeter/data/basics"
	"github.com/algorand/go-storagemeter/logging"
)

// ConfigOptions derives root meter options from the node's local config and
// the protocol storage params. If log is nil a new logger at the configured
// level is used. Metrics are registered with reg (default registerer if nil)
// when enabled.
func ConfigOptions(cfg config.Local, proto config.StorageParams, log logging.Logger, reg prometheus.Registerer) []Option {
	if log == nil {
		log = logging.NewLogger()
		log.SetLevel(cfg.LoggingLevel())
	}
	opts := []Option{
		WithParams(cfg.StorageParams(proto)),
		WithLogger(log),
	}
	if cfg.EnableMeterMetrics {
		opts = append(opts, WithMetrics(MakeMetrics(reg)))
	}
	if cfg.EnableMeterTracing {
		opts = append(opts, WithTracer(MakeLogTracer(log)))
	}
	return opts
}

// LogTracer writes every meter event to a logger at Info level.
type LogTracer struct {
	log logging.Logger
}

// MakeLogTracer creates a tracer logging to log.
func MakeLogTracer(log logging.Logger) *LogTracer {
	return &LogTracer{log: log.With("component", "meter-trace")}
}

// AfterReserve logs the reservation outcome
func (t *LogTracer) AfterReserve(origin basics.Address, limit basics.Balance, err error) {
	t.log.WithFields(logging.Fields{"origin": origin.String(), "limit": uint64(limit), "err": err}).Info("reserve")
}

// AfterNested logs a nested meter being opened
func (t *LogTracer) AfterNested(depth uint32, contract basics.Address, limit basics.Balance) {
	t.log.WithFields(logging.Fields{"depth": depth, "contract": contract.String(), "limit": uint64(limit)}).Info("nested")
}

// AfterCharge logs a charge
func (t *LogTracer) AfterCharge(depth uint32, contract basics.Address, delta Usage, total Usage, evalError error) {
	t.log.WithFields(logging.Fields{"depth": depth, "contract": contract.String(), "delta": delta.String(), "total": total.String(), "err": evalError}).Info("charge")
}

// AfterAbsorb logs a nested meter being committed or discarded
func (t *LogTracer) AfterAbsorb(depth uint32, contract basics.Address, persist bool, cost Cost) {
	t.log.WithFields(logging.Fields{"depth": depth, "contract": contract.String(), "persist": persist, "cost": cost.String()}).Info("absorb")
}

// AfterRelease logs the reservation being returned
func (t *LogTracer) AfterRelease(origin basics.Address, limit basics.Balance, usage Usage) {
	t.log.WithFields(logging.Fields{"origin": origin.String(), "limit": uint64(limit), "usage": usage.String()}).Info("release")
}

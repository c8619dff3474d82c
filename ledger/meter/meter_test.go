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

package meter_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/algorand/go-storagemeter/config"
	"github.com/algorand/go-storagemeter/data/basics"
	"github.com/algorand/go-storagemeter/ledger/meter"
	"github.com/algorand/go-storagemeter/ledger/meter/mocktracer"
	ledgertesting "github.com/algorand/go-storagemeter/ledger/testing"
	"github.com/algorand/go-storagemeter/logging"
	"github.com/algorand/go-storagemeter/test/partitiontest"
)

var (
	origin    = basics.AddressFromSeed([]byte("origin"))
	contractX = basics.AddressFromSeed([]byte("X"))
	contractA = basics.AddressFromSeed([]byte("A"))
	contractB = basics.AddressFromSeed([]byte("B"))
)

func makeLedger() *ledgertesting.MemLedger {
	return ledgertesting.MakeMemLedger(map[basics.Address]basics.Balance{origin: 1_000_000})
}

func newRoot(t *testing.T, l meter.Ext, limit basics.Balance, opts ...meter.Option) *meter.RootMeter {
	opts = append([]meter.Option{meter.WithLogger(logging.TestingLog(t))}, opts...)
	root, err := meter.NewRootMeter(l, origin, limit, opts...)
	require.NoError(t, err)
	return root
}

func TestScenarioCommit(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	require.Equal(t, basics.Balance(100), l.Held(origin))

	x, err := root.Nested(contractX)
	require.NoError(t, err)
	require.Equal(t, basics.Balance(100), x.Limit())
	require.NoError(t, x.Charge(meter.Usage{Charged: 30}))
	require.Equal(t, meter.ChargeOf(30), x.OwnUsage().Cost())
	require.Equal(t, meter.Usage{Charged: 30}, root.TotalUsage())

	require.NoError(t, x.Absorb(true))
	require.Equal(t, []ledgertesting.Settlement{{Origin: origin, Contract: contractX, Cost: meter.ChargeOf(30)}}, l.Settlements())
	require.Equal(t, basics.Balance(30), l.Deposit(contractX))

	root.Release()
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100, Usage: meter.Usage{Charged: 30}}}, l.Releases())
	require.Equal(t, basics.Balance(0), l.Held(origin))
	require.Equal(t, basics.Balance(1_000_000-30), l.Balance(origin))
}

func TestScenarioExhaustedThenDiscarded(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 50)

	x, err := root.Nested(contractX)
	require.NoError(t, err)
	err = x.Charge(meter.Usage{Charged: 60})
	require.ErrorIs(t, err, meter.ErrStorageExhausted)
	var exhausted *meter.StorageExhaustedError
	require.True(t, errors.As(err, &exhausted))
	require.Equal(t, contractX, exhausted.Contract)
	require.Equal(t, uint32(1), exhausted.Depth)
	require.Equal(t, basics.Balance(50), exhausted.Limit)
	require.Equal(t, basics.Balance(60), exhausted.Charged)

	// the failed charge stays recorded until the meter is discarded
	require.Equal(t, meter.Usage{Charged: 60}, root.TotalUsage())

	require.NoError(t, x.Absorb(false))
	require.True(t, root.TotalUsage().IsZero())
	require.Empty(t, l.Settlements())

	root.Release()
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 50}}, l.Releases())
}

func TestScenarioNestedExhaustion(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Charged: 40}))

	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.Equal(t, basics.Balance(60), b.Limit())
	require.Equal(t, uint32(2), b.Depth())

	err = b.Charge(meter.Usage{Charged: 70})
	var exhausted *meter.StorageExhaustedError
	require.ErrorAs(t, err, &exhausted)
	require.Equal(t, contractB, exhausted.Contract)
	require.Equal(t, basics.Balance(70), exhausted.Charged)

	require.NoError(t, b.Absorb(false))
	require.Equal(t, meter.Usage{Charged: 40}, a.TotalUsage())
	require.Equal(t, meter.Usage{Charged: 40}, root.TotalUsage())

	require.NoError(t, a.Absorb(true))
	require.Equal(t, []ledgertesting.Settlement{{Origin: origin, Contract: contractA, Cost: meter.ChargeOf(40)}}, l.Settlements())
}

func TestScenarioTie(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	err := meter.WithRootMeter(l, origin, 100, func(root *meter.RootMeter) error {
		return meter.Call(root, contractX, func(x *meter.NestedMeter) error {
			if err := x.Charge(meter.Usage{Refunded: 50}); err != nil {
				return err
			}
			if err := x.Charge(meter.Usage{Charged: 50}); err != nil {
				return err
			}
			require.Equal(t, meter.ChargeOf(0), x.OwnUsage().Cost())
			return nil
		})
	}, meter.WithLogger(logging.TestingLog(t)))
	require.NoError(t, err)
	require.Equal(t, []ledgertesting.Settlement{{Origin: origin, Contract: contractX, Cost: meter.ChargeOf(0)}}, l.Settlements())
}

func TestRefundExtendsAvailable(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Refunded: 20}))
	require.Equal(t, basics.Balance(120), a.Available())
	require.NoError(t, a.Charge(meter.Usage{Charged: 110}))
	require.Equal(t, basics.Balance(10), a.Available())
	require.Equal(t, basics.Balance(10), root.Available())
	require.NoError(t, a.Absorb(true))
	require.Equal(t, meter.ChargeOf(90), l.Settlements()[0].Cost)
}

func TestRefundedBudgetInherited(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Refunded: 30}))

	// b inherits the budget freed by a's refund
	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.Equal(t, basics.Balance(130), b.Limit())
	require.NoError(t, b.Charge(meter.Usage{Charged: 125}))
	require.Equal(t, basics.Balance(5), root.Available())
	require.NoError(t, b.Absorb(true))

	c, err := a.Nested(contractX)
	require.NoError(t, err)
	require.Equal(t, basics.Balance(5), c.Limit())
	err = c.Charge(meter.Usage{Charged: 6})
	require.ErrorIs(t, err, meter.ErrStorageExhausted)
	require.NoError(t, c.Absorb(false))
	require.Equal(t, meter.Usage{Charged: 125, Refunded: 30}, root.TotalUsage())
}

func TestFrameBusy(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)

	_, err = root.Nested(contractB)
	require.ErrorIs(t, err, meter.ErrFrameBusy)

	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.ErrorIs(t, a.Charge(meter.Usage{Charged: 1}), meter.ErrFrameBusy)
	require.ErrorIs(t, a.Absorb(true), meter.ErrFrameBusy)
	_, err = a.Nested(contractX)
	require.ErrorIs(t, err, meter.ErrFrameBusy)

	require.NoError(t, b.Absorb(true))
	require.NoError(t, a.Charge(meter.Usage{Charged: 1}))
	require.NoError(t, a.Absorb(true))

	_, err = root.Nested(contractB)
	require.NoError(t, err)
}

func TestFrameClosed(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Charged: 7}))
	require.NoError(t, a.Absorb(true))

	require.ErrorIs(t, a.Absorb(true), meter.ErrFrameClosed)
	require.ErrorIs(t, a.Charge(meter.Usage{Charged: 1}), meter.ErrFrameClosed)
	_, err = a.Nested(contractB)
	require.ErrorIs(t, err, meter.ErrFrameClosed)

	// the final state stays readable
	require.Equal(t, contractA, a.Contract())
	require.Equal(t, meter.Usage{Charged: 7}, a.OwnUsage())

	// a fresh meter in the same slot does not revive the old one
	b, err := root.Nested(contractB)
	require.NoError(t, err)
	require.ErrorIs(t, a.Charge(meter.Usage{Charged: 1}), meter.ErrFrameClosed)
	require.NoError(t, b.Charge(meter.Usage{Charged: 1}))

	root.Release()
	require.ErrorIs(t, b.Charge(meter.Usage{Charged: 1}), meter.ErrFrameClosed)
	_, err = root.Nested(contractX)
	require.ErrorIs(t, err, meter.ErrFrameClosed)
	require.Equal(t, basics.Balance(0), root.Available())
}

func TestCallDepth(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	params := config.DefaultStorageParams
	params.MaxCallDepth = 2
	root := newRoot(t, l, 100, meter.WithParams(params))
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	b, err := a.Nested(contractB)
	require.NoError(t, err)
	_, err = b.Nested(contractX)
	require.ErrorIs(t, err, meter.ErrCallDepthExceeded)
	var depthErr *meter.CallDepthError
	require.ErrorAs(t, err, &depthErr)
	require.Equal(t, meter.CallDepthError{Depth: 3, Max: 2}, *depthErr)

	// a refused open leaves the parent usable
	require.NoError(t, b.Charge(meter.Usage{Charged: 1}))
}

func TestReservationFailed(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := ledgertesting.MakeMemLedger(map[basics.Address]basics.Balance{origin: 10})
	tracer := &mocktracer.Tracer{}
	reg := prometheus.NewRegistry()
	mets := meter.MakeMetrics(reg)

	root, err := meter.NewRootMeter(l, origin, 11, meter.WithTracer(tracer), meter.WithMetrics(mets), meter.WithLogger(logging.TestingLog(t)))
	require.Nil(t, root)
	require.ErrorIs(t, err, meter.ErrReservationFailed)
	require.ErrorIs(t, err, ledgertesting.ErrInsufficientBalance)
	var resErr *meter.ReservationError
	require.ErrorAs(t, err, &resErr)
	require.Equal(t, origin, resErr.Origin)
	require.Equal(t, basics.Balance(11), resErr.Limit)

	require.Empty(t, l.Releases())
	require.Equal(t, []mocktracer.Event{mocktracer.AfterReserve(origin, 11, true)}, tracer.Events)
	require.Equal(t, meter.Snapshot{ReservationFailures: 1}, mets.Snapshot())

	called := false
	err = meter.WithRootMeter(l, origin, 11, func(*meter.RootMeter) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, meter.ErrReservationFailed)
	require.False(t, called)
}

func TestReleaseOnce(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	require.NoError(t, meter.Call(root, contractA, func(a *meter.NestedMeter) error {
		return a.Charge(meter.Usage{Charged: 10})
	}))

	require.False(t, root.Released())
	root.Release()
	root.Release()
	require.True(t, root.Released())
	require.Len(t, l.Releases(), 1)
	require.Equal(t, meter.Usage{Charged: 10}, root.TotalUsage())
	require.True(t, root.OwnUsage().IsZero())
}

func TestReleaseDiscardsOpenMeters(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	tracer := &mocktracer.Tracer{}
	root := newRoot(t, l, 100, meter.WithTracer(tracer))

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Charged: 10}))
	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.NoError(t, b.Charge(meter.Usage{Charged: 20}))

	root.Release()
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100}}, l.Releases())
	require.Empty(t, l.Settlements())
	require.ErrorIs(t, a.Absorb(true), meter.ErrFrameClosed)
	require.ErrorIs(t, b.Absorb(true), meter.ErrFrameClosed)

	expected := []mocktracer.Event{
		mocktracer.AfterReserve(origin, 100, false),
		mocktracer.AfterNested(1, contractA, 100),
		mocktracer.AfterCharge(1, contractA, meter.Usage{Charged: 10}, meter.Usage{Charged: 10}, false),
		mocktracer.AfterNested(2, contractB, 90),
		mocktracer.AfterCharge(2, contractB, meter.Usage{Charged: 20}, meter.Usage{Charged: 20}, false),
		mocktracer.AfterAbsorb(2, contractB, false, meter.Cost{}),
		mocktracer.AfterAbsorb(1, contractA, false, meter.Cost{}),
		mocktracer.AfterRelease(origin, 100, meter.Usage{}),
	}
	if diff := cmp.Diff(expected, tracer.Events); diff != "" {
		t.Fatalf("unexpected events (-want +got):\n%s", diff)
	}
}

func TestWithRootMeterReleasesOnError(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	boom := errors.New("boom")
	err := meter.WithRootMeter(l, origin, 100, func(root *meter.RootMeter) error {
		a, err := root.Nested(contractA)
		if err != nil {
			return err
		}
		if err := a.Charge(meter.Usage{Charged: 5}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100}}, l.Releases())
	require.Equal(t, basics.Balance(0), l.Held(origin))
}

func TestWithRootMeterReleasesOnPanic(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	require.Panics(t, func() {
		meter.WithRootMeter(l, origin, 100, func(root *meter.RootMeter) error {
			return meter.Call(root, contractA, func(a *meter.NestedMeter) error {
				a.Charge(meter.Usage{Charged: 5})
				panic("contract trapped")
			})
		})
	})
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100}}, l.Releases())
	require.Empty(t, l.Settlements())
}

func TestCallSettlesInnerBeforeOuterRevert(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	revert := errors.New("revert")
	err := meter.WithRootMeter(l, origin, 100, func(root *meter.RootMeter) error {
		return meter.Call(root, contractA, func(a *meter.NestedMeter) error {
			if err := a.Charge(meter.Usage{Charged: 10}); err != nil {
				return err
			}
			if err := meter.Call(a, contractB, func(b *meter.NestedMeter) error {
				return b.Charge(meter.Usage{Charged: 20, Refunded: 5})
			}); err != nil {
				return err
			}
			require.Equal(t, meter.Usage{Charged: 30, Refunded: 5}, a.TotalUsage())
			require.Equal(t, meter.Usage{Charged: 10}, a.OwnUsage())
			return revert
		})
	})
	require.ErrorIs(t, err, revert)

	// B settled when it returned; A's revert only unwinds the totals
	require.Equal(t, []ledgertesting.Settlement{{Origin: origin, Contract: contractB, Cost: meter.ChargeOf(15)}}, l.Settlements())
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100}}, l.Releases())
}

func TestChargeDelta(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	params := config.StorageParams{DepositPerByte: 10, DepositPerItem: 100}
	root := newRoot(t, l, 1000, meter.WithParams(params))
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.ChargeDelta(meter.StorageDelta{BytesAdded: 50, ItemsAdded: 2}))
	require.Equal(t, meter.Usage{Charged: 700}, a.OwnUsage())
	require.ErrorIs(t, a.ChargeDelta(meter.StorageDelta{BytesAdded: 31}), meter.ErrStorageExhausted)
}

func TestMetricsSnapshot(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	mets := meter.MakeMetrics(prometheus.NewRegistry())
	root := newRoot(t, l, 100, meter.WithMetrics(mets))

	require.NoError(t, meter.Call(root, contractA, func(a *meter.NestedMeter) error {
		return a.Charge(meter.Usage{Charged: 10})
	}))
	require.ErrorIs(t, meter.Call(root, contractB, func(b *meter.NestedMeter) error {
		return b.Charge(meter.Usage{Charged: 100})
	}), meter.ErrStorageExhausted)

	require.Equal(t, meter.Snapshot{
		Reservations:     1,
		NestedOpened:     2,
		Commits:          1,
		Reverts:          1,
		StorageExhausted: 1,
		ReservedDeposit:  100,
	}, mets.Snapshot())

	root.Release()
	snap := mets.Snapshot()
	require.Equal(t, uint64(1), snap.Releases)
	require.Equal(t, float64(0), snap.ReservedDeposit)

	var nilMetrics *meter.Metrics
	require.Equal(t, meter.Snapshot{}, nilMetrics.Snapshot())
}

func TestConcurrentTreesShareLedger(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	const trees = 8
	errs := make(chan error, trees)
	for i := 0; i < trees; i++ {
		go func() {
			errs <- meter.WithRootMeter(l, origin, 1000, func(root *meter.RootMeter) error {
				return meter.Call(root, contractX, func(x *meter.NestedMeter) error {
					return x.Charge(meter.Usage{Charged: 1})
				})
			})
		}()
	}
	for i := 0; i < trees; i++ {
		require.NoError(t, <-errs)
	}
	require.Len(t, l.Releases(), trees)
	require.Equal(t, basics.Balance(trees), l.Deposit(contractX))
	require.Equal(t, basics.Balance(0), l.Held(origin))
}

func TestReleaseKeepsFinalStateOfOpenMeters(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Charged: 10}))
	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.NoError(t, b.Charge(meter.Usage{Refunded: 3}))

	root.Release()

	require.Equal(t, contractA, a.Contract())
	require.Equal(t, basics.Balance(100), a.Limit())
	require.Equal(t, uint32(1), a.Depth())
	// b was discarded before a, so a no longer carries b's refund
	require.Equal(t, meter.Usage{Charged: 10}, a.TotalUsage())
	require.Equal(t, meter.Usage{Charged: 10}, a.OwnUsage())

	require.Equal(t, contractB, b.Contract())
	require.Equal(t, basics.Balance(90), b.Limit())
	require.Equal(t, uint32(2), b.Depth())
	require.Equal(t, meter.Usage{Refunded: 3}, b.OwnUsage())

	err = a.Charge(meter.Usage{Charged: 1})
	require.ErrorIs(t, err, meter.ErrFrameClosed)
	require.Contains(t, err.Error(), contractA.String())
}

func TestDiscardWithOpenDescendants(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.Charge(meter.Usage{Charged: 10}))
	b, err := a.Nested(contractB)
	require.NoError(t, err)
	require.NoError(t, b.Charge(meter.Usage{Charged: 20}))

	require.NoError(t, a.Absorb(false))
	require.True(t, root.TotalUsage().IsZero())
	require.Equal(t, meter.Usage{Charged: 20}, b.TotalUsage())
	require.ErrorIs(t, b.Absorb(true), meter.ErrFrameClosed)
	require.Empty(t, l.Settlements())

	_, err = root.Nested(contractX)
	require.NoError(t, err)
}

func TestCallDiscardsOpenDescendants(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)
	defer root.Release()

	boom := errors.New("boom")
	err := meter.Call(root, contractA, func(a *meter.NestedMeter) error {
		if err := a.Charge(meter.Usage{Charged: 10}); err != nil {
			return err
		}
		b, err := a.Nested(contractB)
		if err != nil {
			return err
		}
		if err := b.Charge(meter.Usage{Charged: 20}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.True(t, root.TotalUsage().IsZero())

	// returning success with a nested meter left open cannot commit
	err = meter.Call(root, contractA, func(a *meter.NestedMeter) error {
		b, err := a.Nested(contractB)
		if err != nil {
			return err
		}
		return b.Charge(meter.Usage{Charged: 5})
	})
	require.ErrorIs(t, err, meter.ErrFrameBusy)
	require.True(t, root.TotalUsage().IsZero())
	require.Empty(t, l.Settlements())

	require.NoError(t, meter.Call(root, contractB, func(b *meter.NestedMeter) error {
		return b.Charge(meter.Usage{Charged: 1})
	}))
	require.Equal(t, meter.Usage{Charged: 1}, root.TotalUsage())
}

func TestDiscardAfterSaturatedTotals(t *testing.T) {
	partitiontest.PartitionTest(t)

	l := makeLedger()
	root := newRoot(t, l, 100)

	near := basics.MaxBalance - 10
	require.NoError(t, meter.Call(root, contractA, func(a *meter.NestedMeter) error {
		return a.Charge(meter.Usage{Charged: near, Refunded: near})
	}))
	before := root.TotalUsage()
	require.Equal(t, meter.Usage{Charged: near, Refunded: near}, before)
	require.Equal(t, basics.Balance(100), root.Available())

	b, err := root.Nested(contractB)
	require.NoError(t, err)
	require.Equal(t, basics.Balance(100), b.Limit())
	require.NoError(t, b.Charge(meter.Usage{Charged: 100}))
	require.Equal(t, basics.MaxBalance, root.TotalUsage().Charged)
	require.NoError(t, b.Absorb(false))
	require.Equal(t, before, root.TotalUsage())

	root.Release()
	require.Equal(t, []ledgertesting.Release{{Origin: origin, Limit: 100, Usage: before}}, l.Releases())
	require.Equal(t, meter.ChargeOf(0), l.Releases()[0].Usage.Cost())
}

func TestChargeDeltaClamped(t *testing.T) {
	partitiontest.PartitionTest(t)

	var buf bytes.Buffer
	log := logging.NewLogger()
	log.SetOutput(&buf)
	log.SetLevel(logging.Warn)

	l := makeLedger()
	root := newRoot(t, l, 100, meter.WithLogger(log))
	defer root.Release()

	a, err := root.Nested(contractA)
	require.NoError(t, err)
	require.NoError(t, a.ChargeDelta(meter.StorageDelta{BytesRemoved: ^uint64(0)}))
	require.Equal(t, meter.Usage{Refunded: basics.MaxBalance}, a.OwnUsage())
	require.Contains(t, buf.String(), "clamped")
}

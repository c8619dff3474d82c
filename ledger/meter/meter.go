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

// Package meter meters the storage deposit consumed by a tree of nested
// contract calls.
//
// A RootMeter is opened per top-level call and reserves the origin's limit
// with the ledger. Each nested call opens a NestedMeter whose limit is what
// its parent has left. Usage charged on a nested meter is applied to every
// ancestor immediately, so no meter on the path can be oversold even
// transiently. When a nested call returns, Absorb either settles the net cost
// of the callee with the ledger (persist) or unwinds its usage from the
// ancestors (discard). Releasing the root returns the reservation exactly once.
//
// Meters are not safe for concurrent use. Calls are strictly depth-first: only
// the most recently opened meter may be charged, and it must be absorbed
// before its parent is used again.
package meter

import (
	"errors"
	"fmt"

	"github.com/algorand/go-storagemeter/config"
	"github.com/algorand/go-storagemeter/data/basics"
	"github.com/algorand/go-storagemeter/logging"
)

// Frame is the part of a meter shared by roots and nested meters.
type Frame interface {
	// Limit is the ceiling on the net charge of this meter and its descendants.
	Limit() basics.Balance
	// TotalUsage aggregates this meter and every descendant not discarded.
	TotalUsage() Usage
	// OwnUsage is the usage charged directly on this meter. Always zero for a root.
	OwnUsage() Usage
	// Available is what a nested meter opened now would be granted.
	Available() basics.Balance
	// Depth is 0 for the root and parent depth + 1 for nested meters.
	Depth() uint32
	// Nested opens a meter for a call into contract.
	Nested(contract basics.Address) (*NestedMeter, error)
}

type handle int

const noParent handle = -1

type frame struct {
	parent    handle
	gen       uint64
	contract  basics.Address
	limit     basics.Balance
	total     Usage
	own       Usage
	depth     uint32
	childOpen bool

	// ancestors holds the totals of frames[0:depth] when this frame was
	// opened; discarding restores them.
	ancestors []Usage
}

// available is limit + refunded - charged, computed on the net so that
// saturated totals do not distort it.
func (f *frame) available() basics.Balance {
	if f.total.Refunded >= f.total.Charged {
		return f.limit.Add(f.total.Refunded - f.total.Charged)
	}
	return f.limit.Sub(f.total.Charged - f.total.Refunded)
}

// arena stores the live path of a call tree. frames[0] is the root; since
// meters are opened and absorbed LIFO, frames[i].parent is i-1 and the last
// entry is the only meter that may be charged. Handles are indexes, and
// generations tell a live nested meter apart from a stale one whose slot was
// reused.
type arena struct {
	frames  []frame
	nextGen uint64

	// retired keeps, by generation, the final state of nested meters that
	// were discarded from above rather than absorbed through their handle.
	retired map[uint64]frame

	origin basics.Address
	ext    Ext
	params config.StorageParams
	log    logging.Logger
	tracer Tracer
	met    *Metrics
}

// Option customizes a root meter.
type Option func(*arena)

// WithLogger sets the logger used by the meter and all of its nested meters.
func WithLogger(log logging.Logger) Option {
	return func(a *arena) {
		if log != nil {
			a.log = log
		}
	}
}

// WithTracer attaches a tracer to the call tree.
func WithTracer(tracer Tracer) Option {
	return func(a *arena) {
		if tracer != nil {
			a.tracer = tracer
		}
	}
}

// WithParams sets the storage params (deposit prices, call depth).
func WithParams(params config.StorageParams) Option {
	return func(a *arena) {
		a.params = params
	}
}

// WithMetrics records meter events into m.
func WithMetrics(m *Metrics) Option {
	return func(a *arena) {
		a.met = m
	}
}

func (a *arena) push(parent handle, contract basics.Address) (*NestedMeter, error) {
	p := &a.frames[parent]
	if p.childOpen {
		return nil, fmt.Errorf("%w: cannot open meter for %v at depth %d", ErrFrameBusy, contract, p.depth+1)
	}
	depth := p.depth + 1
	if a.params.MaxCallDepth != 0 && depth > a.params.MaxCallDepth {
		return nil, &CallDepthError{Depth: depth, Max: a.params.MaxCallDepth}
	}

	limit := p.available()
	ancestors := make([]Usage, len(a.frames))
	for i := range a.frames {
		ancestors[i] = a.frames[i].total
	}
	p.childOpen = true
	a.nextGen++
	a.frames = append(a.frames, frame{
		parent:    parent,
		gen:       a.nextGen,
		contract:  contract,
		limit:     limit,
		depth:     depth,
		ancestors: ancestors,
	})

	a.met.nested()
	a.tracer.AfterNested(depth, contract, limit)
	a.log.Debugf("opened nested meter for %v at depth %d with limit %d", contract, depth, limit)
	return &NestedMeter{a: a, h: handle(len(a.frames) - 1), gen: a.nextGen}, nil
}

// pop removes the top frame, which must be h.
func (a *arena) pop(h handle) frame {
	f := a.frames[h]
	a.frames = a.frames[:h]
	if f.parent != noParent {
		a.frames[f.parent].childOpen = false
	}
	return f
}

// RootMeter meters a whole call tree on behalf of its origin. It never
// accrues usage of its own; it only aggregates its descendants.
type RootMeter struct {
	a        *arena
	limit    basics.Balance
	final    Usage
	released bool
}

// NewRootMeter reserves limit from origin's balance and returns a meter
// holding that reservation. The caller must call Release exactly once; see
// WithRootMeter for the scoped form. If the ledger refuses the reservation
// no meter exists and there is nothing to release.
func NewRootMeter(ext Ext, origin basics.Address, limit basics.Balance, opts ...Option) (*RootMeter, error) {
	a := &arena{
		origin: origin,
		ext:    ext,
		params: config.DefaultStorageParams,
		log:    logging.Base(),
		tracer: NullTracer{},
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = a.log.With("origin", origin.String())

	err := ext.ReserveLimit(origin, limit)
	a.met.reserve(uint64(limit), err)
	a.tracer.AfterReserve(origin, limit, err)
	if err != nil {
		a.log.Infof("reservation of %d refused: %v", limit, err)
		return nil, &ReservationError{Origin: origin, Limit: limit, Err: err}
	}
	a.log.Debugf("reserved limit %d", limit)

	a.frames = append(make([]frame, 0, 8), frame{parent: noParent, limit: limit})
	return &RootMeter{a: a, limit: limit}, nil
}

// WithRootMeter reserves limit, runs fn with the root meter and releases the
// reservation when fn returns, including when it returns an error or panics.
func WithRootMeter(ext Ext, origin basics.Address, limit basics.Balance, fn func(*RootMeter) error, opts ...Option) error {
	root, err := NewRootMeter(ext, origin, limit, opts...)
	if err != nil {
		return err
	}
	defer root.Release()
	return fn(root)
}

// Origin is the account funding the call tree.
func (r *RootMeter) Origin() basics.Address {
	return r.a.origin
}

// Limit implements Frame.
func (r *RootMeter) Limit() basics.Balance {
	return r.limit
}

// TotalUsage implements Frame.
func (r *RootMeter) TotalUsage() Usage {
	if r.released {
		return r.final
	}
	return r.a.frames[0].total
}

// OwnUsage implements Frame. A root never charges directly.
func (r *RootMeter) OwnUsage() Usage {
	if r.released {
		return Usage{}
	}
	return r.a.frames[0].own
}

// Available implements Frame.
func (r *RootMeter) Available() basics.Balance {
	if r.released {
		return 0
	}
	return r.a.frames[0].available()
}

// Depth implements Frame.
func (r *RootMeter) Depth() uint32 {
	return 0
}

// Nested implements Frame.
func (r *RootMeter) Nested(contract basics.Address) (*NestedMeter, error) {
	if r.released {
		return nil, fmt.Errorf("%w: root meter already released", ErrFrameClosed)
	}
	return r.a.push(0, contract)
}

// Released reports whether Release has run.
func (r *RootMeter) Released() bool {
	return r.released
}

// Release returns the reservation to the origin, reporting the aggregate
// usage of the tree. Only the first call has an effect. Nested meters still
// open at this point are discarded first, as if absorbed without persisting.
func (r *RootMeter) Release() {
	if r.released {
		return
	}
	r.released = true
	a := r.a

	a.discardAbove(0, "releasing root meter")

	root := &a.frames[0]
	if !root.own.IsZero() {
		a.log.Errorf("root meter accrued own usage %v", root.own)
	}
	r.final = root.total
	a.frames = a.frames[:0]

	a.ext.UnreserveLimit(a.origin, r.limit, r.final)
	a.met.release(uint64(r.limit))
	a.tracer.AfterRelease(a.origin, r.limit, r.final)
	a.log.Debugf("released limit %d with usage %v", r.limit, r.final)
}

// NestedMeter meters one contract call below a root. It is consumed by Absorb.
type NestedMeter struct {
	a   *arena
	h   handle
	gen uint64

	closed bool
	final  frame
}

func (m *NestedMeter) isLive() bool {
	return !m.closed && int(m.h) < len(m.a.frames) && m.a.frames[m.h].gen == m.gen
}

func (m *NestedMeter) live() (*frame, error) {
	if !m.isLive() {
		return nil, fmt.Errorf("%w: nested meter for %v", ErrFrameClosed, m.state().contract)
	}
	return &m.a.frames[m.h], nil
}

// state returns the frame if live, or its last state once closed.
func (m *NestedMeter) state() *frame {
	if m.isLive() {
		return &m.a.frames[m.h]
	}
	if !m.closed {
		// discarded by an ancestor's Absorb(false) or by the root's Release
		m.final = m.a.retired[m.gen]
		m.closed = true
		delete(m.a.retired, m.gen)
	}
	return &m.final
}

// Contract is the callee being metered.
func (m *NestedMeter) Contract() basics.Address {
	return m.state().contract
}

// Limit implements Frame.
func (m *NestedMeter) Limit() basics.Balance {
	return m.state().limit
}

// TotalUsage implements Frame.
func (m *NestedMeter) TotalUsage() Usage {
	return m.state().total
}

// OwnUsage implements Frame.
func (m *NestedMeter) OwnUsage() Usage {
	return m.state().own
}

// Available implements Frame.
func (m *NestedMeter) Available() basics.Balance {
	return m.state().available()
}

// Depth implements Frame.
func (m *NestedMeter) Depth() uint32 {
	return m.state().depth
}

// Nested implements Frame.
func (m *NestedMeter) Nested(contract basics.Address) (*NestedMeter, error) {
	if _, err := m.live(); err != nil {
		return nil, err
	}
	return m.a.push(m.h, contract)
}

// Charge records delta against this meter and, immediately, every ancestor.
// It fails with ErrStorageExhausted if the net charge of this meter or of any
// ancestor now exceeds its limit. The usage stays recorded on failure: the
// caller is expected to discard this meter with Absorb(false).
func (m *NestedMeter) Charge(delta Usage) error {
	f, err := m.live()
	if err != nil {
		return err
	}
	if f.childOpen {
		return fmt.Errorf("%w: cannot charge %v at depth %d", ErrFrameBusy, f.contract, f.depth)
	}

	a := m.a
	f.own = f.own.Combine(delta)
	for h := m.h; h != noParent; h = a.frames[h].parent {
		a.frames[h].total = a.frames[h].total.Combine(delta)
	}

	var evalError error
	for h := m.h; h != noParent; h = a.frames[h].parent {
		g := &a.frames[h]
		cost := g.total.Cost()
		if cost.IsCharge() && cost.Amount() > g.limit {
			evalError = &StorageExhaustedError{
				Contract: g.contract,
				Depth:    g.depth,
				Limit:    g.limit,
				Charged:  cost.Amount(),
			}
			break
		}
	}

	a.tracer.AfterCharge(f.depth, f.contract, delta, f.total, evalError)
	if evalError != nil {
		a.met.storageExhausted()
		a.log.Warnf("charge %v on %v rejected: %v", delta, f.contract, evalError)
		return evalError
	}
	return nil
}

// ChargeDelta prices a storage delta with the meter's params and charges it.
func (m *NestedMeter) ChargeDelta(delta StorageDelta) error {
	usage, clamped := UsageFromDelta(m.a.params, delta)
	if clamped {
		m.a.log.Warnf("deposit for %+v on %v clamped to %v", delta, m.state().contract, usage)
	}
	return m.Charge(usage)
}

// Absorb closes the meter. With persist, the net cost of the usage charged
// directly on this meter is settled between origin and contract; ancestors
// already carry the usage, and no nested meter may still be open. Without
// persist, nested meters still open are discarded first, then every ancestor
// is restored to its state before this meter was opened. The meter cannot be
// used afterwards.
func (m *NestedMeter) Absorb(persist bool) error {
	f, err := m.live()
	if err != nil {
		return err
	}
	if persist && f.childOpen {
		return fmt.Errorf("%w: cannot absorb %v at depth %d", ErrFrameBusy, f.contract, f.depth)
	}

	a := m.a
	if persist {
		cost := f.own.Cost()
		a.ext.Charge(a.origin, f.contract, cost)
		m.final = a.pop(m.h)
		m.closed = true
		a.met.absorb(true)
		a.tracer.AfterAbsorb(m.final.depth, m.final.contract, true, cost)
		a.log.Debugf("committed %v at depth %d: %v", m.final.contract, m.final.depth, cost)
		return nil
	}

	a.discardAbove(m.h, "discarding nested meter")
	m.final = a.discard(m.h)
	m.closed = true
	return nil
}

// discardAbove discards every frame opened below h, innermost first, and
// keeps their final state for the handles still pointing at them.
func (a *arena) discardAbove(h handle, reason string) {
	for top := handle(len(a.frames) - 1); top > h; top-- {
		a.log.Warnf("%s with nested meter for %v still open at depth %d; discarding it", reason, a.frames[top].contract, a.frames[top].depth)
		f := a.discard(top)
		if a.retired == nil {
			a.retired = make(map[uint64]frame)
		}
		a.retired[f.gen] = f
	}
}

// discard restores the ancestors of the top frame h to their totals from
// when it was opened, then pops it.
func (a *arena) discard(h handle) frame {
	for i, total := range a.frames[h].ancestors {
		a.frames[i].total = total
	}
	f := a.pop(h)
	a.met.absorb(false)
	a.tracer.AfterAbsorb(f.depth, f.contract, false, Cost{})
	a.log.Debugf("discarded %v at depth %d: %v", f.contract, f.depth, f.total)
	return f
}

// Call runs fn inside a nested meter for contract opened on parent. The
// meter is committed if fn returns nil and discarded if fn returns an error
// or panics.
func Call(parent Frame, contract basics.Address, fn func(*NestedMeter) error) (err error) {
	child, err := parent.Nested(contract)
	if err != nil {
		return err
	}
	persist := false
	defer func() {
		absorbErr := child.Absorb(persist)
		if absorbErr != nil && persist {
			// fn left a nested meter open; the call cannot be committed
			absorbErr = errors.Join(absorbErr, child.Absorb(false))
		}
		if absorbErr != nil {
			err = errors.Join(err, absorbErr)
		}
	}()
	err = fn(child)
	persist = err == nil
	return err
}

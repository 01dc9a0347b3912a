// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package memory

import (
	"fmt"
	"math/bits"
	"slices"
)

// LogPageLen is the log2 of the number of words held in a single page.
const LogPageLen = 14

// PageLen is the number of words held in a single page.
const PageLen = 1 << LogPageLen

// WordRegionStart is the first address of the word-indexed region of memory.
// Addresses below this hold registers, and are indexed individually.
// Addresses from this point onwards must be word aligned.
const WordRegionStart = 0x40

const pageMask = PageLen - 1

// Paged is a sparse map from 32bit addresses to values, partitioned into fixed
// size pages keyed by the high bits of the (word) address.  This allows the
// full 32bit address space to be represented without allocating storage
// proportional to its size.  A page is only materialised when something is
// first inserted into it.
type Paged[V any] struct {
	// Page holding the register region.
	low *page[V]
	// Pages of the word-indexed region.
	pages map[uint32]*page[V]
	// Number of occupied addresses.
	count uint
}

type page[V any] struct {
	values  [PageLen]V
	present [PageLen / 64]uint64
}

func (p *page[V]) has(offset uint32) bool {
	return p.present[offset>>6]&(1<<(offset&63)) != 0
}

func (p *page[V]) mark(offset uint32, present bool) {
	if present {
		p.present[offset>>6] |= 1 << (offset & 63)
	} else {
		p.present[offset>>6] &^= 1 << (offset & 63)
	}
}

func (p *page[V]) empty() bool {
	for _, w := range p.present {
		if w != 0 {
			return false
		}
	}
	//
	return true
}

// NewPaged constructs an empty paged memory.
func NewPaged[V any]() *Paged[V] {
	return &Paged[V]{pages: make(map[uint32]*page[V])}
}

// Len returns the number of occupied addresses.
func (p *Paged[V]) Len() uint {
	return p.count
}

// Get returns the value held at a given address, or false if the address is
// vacant.
func (p *Paged[V]) Get(addr uint32) (V, bool) {
	var (
		empty      V
		pg, offset = p.lookup(addr)
	)
	//
	if pg == nil || !pg.has(offset) {
		return empty, false
	}
	//
	return pg.values[offset], true
}

// Contains checks whether a given address is occupied.
func (p *Paged[V]) Contains(addr uint32) bool {
	_, ok := p.Get(addr)
	return ok
}

// Insert a value at a given address, returning the previous value (if any).
func (p *Paged[V]) Insert(addr uint32, value V) (V, bool) {
	var (
		old        V
		pg, offset = p.materialise(addr)
		existed    = pg.has(offset)
	)
	//
	if existed {
		old = pg.values[offset]
	} else {
		pg.mark(offset, true)
		p.count++
	}
	//
	pg.values[offset] = value
	//
	return old, existed
}

// Remove the value at a given address, returning it (if it existed).  Pages
// which become empty are released.
func (p *Paged[V]) Remove(addr uint32) (V, bool) {
	var (
		empty      V
		pg, offset = p.lookup(addr)
	)
	//
	if pg == nil || !pg.has(offset) {
		return empty, false
	}
	//
	old := pg.values[offset]
	pg.values[offset] = empty
	pg.mark(offset, false)
	p.count--
	// Release empty pages
	if addr >= WordRegionStart && pg.empty() {
		delete(p.pages, pageIndex(addr))
	}
	//
	return old, true
}

// Entry returns a handle onto the given address, which is either occupied or
// vacant.
func (p *Paged[V]) Entry(addr uint32) Entry[V] {
	value, ok := p.Get(addr)
	//
	return Entry[V]{p, addr, value, ok}
}

// Keys returns all occupied addresses in ascending order.
func (p *Paged[V]) Keys() []uint32 {
	var (
		keys    = make([]uint32, 0, p.count)
		indices = make([]uint32, 0, len(p.pages))
	)
	//
	if p.low != nil {
		keys = appendKeys(keys, p.low, func(offset uint32) uint32 { return offset })
	}
	//
	for index := range p.pages {
		indices = append(indices, index)
	}
	//
	slices.Sort(indices)
	//
	for _, index := range indices {
		base := index << LogPageLen
		keys = appendKeys(keys, p.pages[index], func(offset uint32) uint32 { return (base | offset) << 2 })
	}
	//
	return keys
}

// Clone returns a deep copy of this memory.
func (p *Paged[V]) Clone() *Paged[V] {
	var clone = &Paged[V]{pages: make(map[uint32]*page[V], len(p.pages)), count: p.count}
	//
	if p.low != nil {
		low := *p.low
		clone.low = &low
	}
	//
	for index, pg := range p.pages {
		copied := *pg
		clone.pages[index] = &copied
	}
	//
	return clone
}

func (p *Paged[V]) String() string {
	return fmt.Sprintf("paged memory (%d addresses, %d pages)", p.count, len(p.pages))
}

// Locate the page and offset for a given address, or nil if the page does not
// yet exist.
func (p *Paged[V]) lookup(addr uint32) (*page[V], uint32) {
	if addr < WordRegionStart {
		return p.low, addr
	}
	//
	checkAligned(addr)
	//
	return p.pages[pageIndex(addr)], pageOffset(addr)
}

// Locate the page and offset for a given address, creating the page if it
// does not yet exist.
func (p *Paged[V]) materialise(addr uint32) (*page[V], uint32) {
	if addr < WordRegionStart {
		if p.low == nil {
			p.low = new(page[V])
		}
		//
		return p.low, addr
	}
	//
	checkAligned(addr)
	//
	index := pageIndex(addr)
	pg, ok := p.pages[index]
	//
	if !ok {
		pg = new(page[V])
		p.pages[index] = pg
	}
	//
	return pg, pageOffset(addr)
}

func appendKeys[V any](keys []uint32, pg *page[V], fn func(uint32) uint32) []uint32 {
	for i, w := range pg.present {
		for w != 0 {
			bit := uint32(bits.TrailingZeros64(w))
			keys = append(keys, fn(uint32(i)*64+bit))
			w &= w - 1
		}
	}
	//
	return keys
}

func pageIndex(addr uint32) uint32 {
	return (addr >> 2) >> LogPageLen
}

func pageOffset(addr uint32) uint32 {
	return (addr >> 2) & pageMask
}

func checkAligned(addr uint32) {
	if addr%4 != 0 {
		panic(fmt.Sprintf("unaligned memory address %08x", addr))
	}
}

// Entry is a handle onto a single address of a paged memory, which may be
// occupied or vacant.
type Entry[V any] struct {
	mem      *Paged[V]
	addr     uint32
	value    V
	occupied bool
}

// Addr returns the address of this entry.
func (p Entry[V]) Addr() uint32 {
	return p.addr
}

// Occupied checks whether this entry holds a value.
func (p Entry[V]) Occupied() bool {
	return p.occupied
}

// Value returns the value held by this entry, which is only meaningful when
// the entry is occupied.
func (p Entry[V]) Value() V {
	return p.value
}

// Insert a value at the address of this entry.
func (p *Entry[V]) Insert(value V) {
	p.mem.Insert(p.addr, value)
	p.value = value
	p.occupied = true
}

// OrInsert returns the value of this entry if it is occupied, otherwise
// inserts the given value and returns that.
func (p *Entry[V]) OrInsert(value V) V {
	if !p.occupied {
		p.Insert(value)
	}
	//
	return p.value
}

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

import "fmt"

// Cell is the versioned state of a single memory address: the value it holds,
// together with the shard and timestamp of its most recent access.  For a given
// address, the (shard, timestamp) pairs observed across successive accesses are
// non-decreasing.
type Cell struct {
	Value     uint32
	Shard     uint32
	Timestamp uint32
}

// Before checks whether this cell was last accessed strictly before another.
func (p Cell) Before(other Cell) bool {
	return p.Shard < other.Shard || (p.Shard == other.Shard && p.Timestamp < other.Timestamp)
}

func (p Cell) String() string {
	return fmt.Sprintf("%08x@%d:%d", p.Value, p.Shard, p.Timestamp)
}

// Position identifies one of the distinct memory access slots available within
// a single cycle.  The timestamp of an access is the cycle's clock plus its
// position, hence accesses made by the same instruction remain ordered.  An
// instruction must access its operands in position order whenever two of them
// may name the same register (e.g. "ADD x8, x8, x8" reads C, then B, then
// writes A).
type Position uint32

// Access positions within a cycle.
const (
	PositionMemory Position = iota
	PositionC
	PositionB
	PositionA
	PositionS1
	PositionS2
)

// ReadRecord captures a read of some address, including the state of the
// address before the read.
type ReadRecord struct {
	Value         uint32
	Shard         uint32
	Timestamp     uint32
	PrevShard     uint32
	PrevTimestamp uint32
}

// NewReadRecord constructs a read record from the current and previous states
// of the address being read.
func NewReadRecord(current Cell, prev Cell) ReadRecord {
	return ReadRecord{current.Value, current.Shard, current.Timestamp, prev.Shard, prev.Timestamp}
}

// WriteRecord captures a write to some address, including the state of the
// address before the write.
type WriteRecord struct {
	Value         uint32
	Shard         uint32
	Timestamp     uint32
	PrevValue     uint32
	PrevShard     uint32
	PrevTimestamp uint32
}

// NewWriteRecord constructs a write record from the current and previous
// states of the address being written.
func NewWriteRecord(current Cell, prev Cell) WriteRecord {
	return WriteRecord{current.Value, current.Shard, current.Timestamp, prev.Value, prev.Shard, prev.Timestamp}
}

// Record is either a read or write record.
type Record interface {
	// Current state of the address after the access.
	Current() Cell
	// Previous state of the address before the access.
	Previous() Cell
}

// Current implementation for the Record interface.
func (p ReadRecord) Current() Cell {
	return Cell{p.Value, p.Shard, p.Timestamp}
}

// Previous implementation for the Record interface.
func (p ReadRecord) Previous() Cell {
	return Cell{p.Value, p.PrevShard, p.PrevTimestamp}
}

// Current implementation for the Record interface.
func (p WriteRecord) Current() Cell {
	return Cell{p.Value, p.Shard, p.Timestamp}
}

// Previous implementation for the Record interface.
func (p WriteRecord) Previous() Cell {
	return Cell{p.PrevValue, p.PrevShard, p.PrevTimestamp}
}

// LocalEvent summarises all accesses to an address within a single shard, by
// recording the state of the address before the first access and after the
// last access.
type LocalEvent struct {
	Addr    uint32
	Initial Cell
	Final   Cell
}

// InitializeFinalizeEvent records either the initial state of an address at
// the start of execution, or its final state at the end.
type InitializeFinalizeEvent struct {
	Addr      uint32
	Value     uint32
	Shard     uint32
	Timestamp uint32
	Used      bool
}

// Initialize constructs an event recording the initial value of an address.
func Initialize(addr uint32, value uint32, used bool) InitializeFinalizeEvent {
	return InitializeFinalizeEvent{Addr: addr, Value: value, Shard: 1, Timestamp: 1, Used: used}
}

// Finalize constructs an event recording the final state of an address.
func Finalize(addr uint32, cell Cell) InitializeFinalizeEvent {
	return InitializeFinalizeEvent{Addr: addr, Value: cell.Value, Shard: cell.Shard, Timestamp: cell.Timestamp, Used: true}
}

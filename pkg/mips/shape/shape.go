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
package shape

import (
	"fmt"
	"math"
	"math/bits"
	"strings"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"gopkg.in/yaml.v3"
)

// Category groups together those opcodes whose events are proven by the same
// arithmetic table, and hence share the same capacity.
type Category uint8

// Opcode categories.
const (
	AddSub Category = iota
	Mul
	Bitwise
	ShiftLeft
	ShiftRight
	DivRem
	Lt
	CloClz
)

// NumCategories is the number of distinct opcode categories.
const NumCategories = uint(CloClz) + 1

var categoryNames = [NumCategories]string{
	"AddSub", "Mul", "Bitwise", "ShiftLeft", "ShiftRight", "DivRem", "Lt", "CloClz",
}

func (p Category) String() string {
	if uint(p) < NumCategories {
		return categoryNames[p]
	}
	//
	return fmt.Sprintf("category%d", uint8(p))
}

// ParseCategory parses the name of a category.
func ParseCategory(name string) (Category, error) {
	for i, n := range categoryNames {
		if strings.EqualFold(n, name) {
			return Category(i), nil
		}
	}
	//
	return 0, fmt.Errorf("unknown opcode category %q", name)
}

// CategoryOf returns the category of a given ALU opcode, or false if the opcode
// does not belong to any category.
func CategoryOf(op opcode.Opcode) (Category, bool) {
	switch op {
	case opcode.ADD, opcode.SUB:
		return AddSub, true
	case opcode.MUL, opcode.MULT, opcode.MULTU:
		return Mul, true
	case opcode.XOR, opcode.OR, opcode.NOR, opcode.AND:
		return Bitwise, true
	case opcode.SLL:
		return ShiftLeft, true
	case opcode.SRL, opcode.SRA:
		return ShiftRight, true
	case opcode.DIV, opcode.DIVU:
		return DivRem, true
	case opcode.SLT, opcode.SLTU:
		return Lt, true
	case opcode.CLZ, opcode.CLO:
		return CloClz, true
	default:
		return 0, false
	}
}

// Counts records the number of events in each category.
type Counts [NumCategories]uint64

// CountsOf aggregates per-opcode event counts into per-category counts.
func CountsOf(events *[opcode.NumOpcodes]uint64) Counts {
	var counts Counts
	//
	for op, n := range events {
		if c, ok := CategoryOf(opcode.Opcode(op)); ok {
			counts[c] += n
		}
	}
	//
	return counts
}

func (p Counts) String() string {
	var builder strings.Builder
	//
	for i, n := range p {
		if i != 0 {
			builder.WriteString(", ")
		}
		//
		fmt.Fprintf(&builder, "%s=%d", Category(i), Log2Ceil(n))
	}
	//
	return builder.String()
}

// Shape assigns a log2 capacity to each category.  A shard fits a shape when,
// for every category, the number of events does not exceed the capacity.
type Shape [NumCategories]uint8

// Capacity returns the (absolute) capacity of a given category.
func (p Shape) Capacity(c Category) uint64 {
	return uint64(1) << p[c]
}

// Distance returns the minimum over all categories of the remaining capacity
// (i.e. capacity less count), or false if some category exceeds its capacity.
func (p Shape) Distance(counts Counts) (uint64, bool) {
	var distance uint64 = math.MaxUint64
	//
	for c, n := range counts {
		capacity := p.Capacity(Category(c))
		//
		if n > capacity {
			return 0, false
		}
		//
		distance = min(distance, capacity-n)
	}
	//
	return distance, true
}

// FitsAny checks whether there is at least one shape with a distance of at
// least margin for the given counts.
func FitsAny(shapes []Shape, counts Counts, margin uint64) bool {
	for _, s := range shapes {
		if d, ok := s.Distance(counts); ok && d >= margin {
			return true
		}
	}
	//
	return false
}

// UnmarshalYAML reads a shape written as a mapping from category names to log2
// capacities.  Every category must be given.
func (p *Shape) UnmarshalYAML(node *yaml.Node) error {
	var (
		raw  map[string]uint8
		seen [NumCategories]bool
	)
	//
	if err := node.Decode(&raw); err != nil {
		return err
	}
	//
	for name, log2 := range raw {
		c, err := ParseCategory(name)
		//
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		} else if log2 >= 64 {
			return fmt.Errorf("line %d: capacity 2^%d too large", node.Line, log2)
		}
		//
		p[c] = log2
		seen[c] = true
	}
	//
	for c, ok := range seen {
		if !ok {
			return fmt.Errorf("line %d: missing category %s", node.Line, Category(c))
		}
	}
	//
	return nil
}

// MarshalYAML implementation for the yaml.Marshaler interface.
func (p Shape) MarshalYAML() (any, error) {
	var raw = make(map[string]uint8, NumCategories)
	//
	for c, log2 := range p {
		raw[Category(c).String()] = log2
	}
	//
	return raw, nil
}

// Log2Ceil returns the smallest k such that 2^k >= n.
func Log2Ceil(n uint64) uint {
	if n <= 1 {
		return 0
	}
	//
	return uint(bits.Len64(n - 1))
}

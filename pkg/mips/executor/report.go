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
package executor

import (
	"cmp"
	"slices"
	"strings"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultReportWidth is the width at which reports are rendered, when no other
// width is known.
const DefaultReportWidth = 60

// Report summarises an execution.  Counts exclude anything executed within an
// unconstrained scope.
type Report struct {
	// Number of times each opcode was executed.
	OpcodeCounts [opcode.NumOpcodes]uint64
	// Number of times each system call was made.
	SyscallCounts map[syscall.Code]uint64
	// Number of cycles spent within each tracked region.
	CycleTracker map[string]uint64
	// Number of distinct addresses (including registers) accessed.
	TouchedMemoryAddresses uint64
}

// NewReport constructs an empty report.
func NewReport() *Report {
	return &Report{
		SyscallCounts: make(map[syscall.Code]uint64),
		CycleTracker:  make(map[string]uint64),
	}
}

// TotalInstructions returns the number of instructions executed.
func (p *Report) TotalInstructions() uint64 {
	var total uint64
	//
	for _, n := range p.OpcodeCounts {
		total += n
	}
	//
	return total
}

// TotalSyscalls returns the number of system calls made.
func (p *Report) TotalSyscalls() uint64 {
	var total uint64
	//
	for _, n := range p.SyscallCounts {
		total += n
	}
	//
	return total
}

// Merge another report into this one.
func (p *Report) Merge(other *Report) {
	for i, n := range other.OpcodeCounts {
		p.OpcodeCounts[i] += n
	}
	//
	for code, n := range other.SyscallCounts {
		p.SyscallCounts[code] += n
	}
	//
	for name, n := range other.CycleTracker {
		p.CycleTracker[name] += n
	}
	//
	p.TouchedMemoryAddresses = max(p.TouchedMemoryAddresses, other.TouchedMemoryAddresses)
}

func (p *Report) String() string {
	return p.Render(DefaultReportWidth)
}

// Render this report, with counts right aligned to a given width.  Counts are
// listed in descending order, with ties broken by name.
func (p *Report) Render(width int) string {
	var (
		builder strings.Builder
		printer = message.NewPrinter(language.English)
		ops     []reportRow
		calls   []reportRow
		tracked []reportRow
	)
	//
	for i, n := range p.OpcodeCounts {
		if n != 0 {
			ops = append(ops, reportRow{opcode.Opcode(i).Mnemonic(), n})
		}
	}
	//
	for code, n := range p.SyscallCounts {
		if n != 0 {
			calls = append(calls, reportRow{code.String(), n})
		}
	}
	//
	for name, n := range p.CycleTracker {
		tracked = append(tracked, reportRow{name, n})
	}
	//
	builder.WriteString(printer.Sprintf("opcode counts (%d instructions):\n", p.TotalInstructions()))
	writeRows(&builder, printer, ops, width)
	builder.WriteString(printer.Sprintf("syscall counts (%d syscalls):\n", p.TotalSyscalls()))
	writeRows(&builder, printer, calls, width)
	//
	if len(tracked) > 0 {
		builder.WriteString("cycle tracker:\n")
		writeRows(&builder, printer, tracked, width)
	}
	//
	builder.WriteString(printer.Sprintf("touched memory addresses: %d\n", p.TouchedMemoryAddresses))
	//
	return builder.String()
}

type reportRow struct {
	name  string
	count uint64
}

func writeRows(builder *strings.Builder, printer *message.Printer, rows []reportRow, width int) {
	slices.SortFunc(rows, func(l, r reportRow) int {
		if c := cmp.Compare(r.count, l.count); c != 0 {
			return c
		}
		//
		return cmp.Compare(l.name, r.name)
	})
	//
	for _, row := range rows {
		var (
			count = printer.Sprintf("%d", row.count)
			name  = "  " + row.name + " "
			// Pad with dots, leaving at least two
			dots = max(2, width-len(name)-len(count)-1)
		)
		//
		builder.WriteString(name)
		builder.WriteString(strings.Repeat(".", dots))
		builder.WriteString(" ")
		builder.WriteString(count)
		builder.WriteString("\n")
	}
}

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
	"context"
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/hook"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/program"
	"github.com/consensys/go-zkmips/pkg/mips/register"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
	"github.com/consensys/go-zkmips/pkg/util"
	log "github.com/sirupsen/logrus"
)

// cancelCheckPeriod is the number of cycles between checks for cancellation.
const cancelCheckPeriod = 1024

// progressPeriod is the number of cycles between progress messages.
const progressPeriod = 10_000_000

// Executor executes a program one instruction at a time, producing (depending
// on its mode) nothing, checkpoints from which batches of shards can be
// replayed, or a complete trace of every shard.  An executor is not safe for
// concurrent use.
type Executor struct {
	program *program.Program
	opts    Options
	mode    Mode
	// Clock budget of a shard.
	shardSize uint32
	// Largest number of extra cycles of any system call.
	maxSyscallCycles uint32
	syscalls         syscall.Table
	hooks            *hook.Registry
	verifier         SubproofVerifier
	state            *State
	// Indicates execution is within an unconstrained scope.
	unconstrained bool
	fork          forkState
	// Record of the shard being executed.
	record *event.ExecutionRecord
	// Records sealed during the current batch.
	records []*event.ExecutionRecord
	// Records retained across batches (when running to completion in trace
	// mode).
	history []*event.ExecutionRecord
	// Memory accesses of the current cycle.
	accesses event.AccessRecord
	// Local memory events of the current shard.
	localMemory map[uint32]*memory.LocalEvent
	// State of every address before it was first accessed in the current batch.
	memoryCheckpoint *memory.Paged[savedCell]
	// Whether each address first accessed in the current batch had an initial
	// value.
	uninitializedCheckpoint *memory.Paged[bool]
	// Events expected for the current shard, indexed by opcode.
	eventCounts [opcode.NumOpcodes]uint64
	report      *Report
	streams     map[uint32]*outputStream
	// Start of each open cycle tracker.
	cycleTracker map[string]uint64
}

// New constructs an executor for a given program, with the default system
// calls and hooks.  This fails if the options are invalid.
func New(prog *program.Program, opts Options) (*Executor, error) {
	var syscalls = syscall.Default()
	//
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	//
	return &Executor{
		program:                 prog,
		opts:                    opts,
		mode:                    Trace,
		shardSize:               opts.ShardSize * 4,
		maxSyscallCycles:        syscalls.MaxExtraCycles(),
		syscalls:                syscalls,
		hooks:                   hook.Default(),
		verifier:                &DefaultVerifier{},
		state:                   NewState(prog.PcStart),
		record:                  event.NewRecord(prog),
		localMemory:             make(map[uint32]*memory.LocalEvent),
		memoryCheckpoint:        memory.NewPaged[savedCell](),
		uninitializedCheckpoint: memory.NewPaged[bool](),
		report:                  NewReport(),
		streams:                 make(map[uint32]*outputStream),
		cycleTracker:            make(map[string]uint64),
	}, nil
}

// Recover constructs an executor which resumes from a checkpoint.
func Recover(prog *program.Program, checkpoint *Checkpoint, opts Options) (*Executor, error) {
	var state = checkpoint.State
	//
	e, err := New(prog, opts)
	//
	if err != nil {
		return nil, err
	}
	//
	e.state = &state
	//
	return e, nil
}

// WithSyscalls replaces the system call table.
func (p *Executor) WithSyscalls(table syscall.Table) *Executor {
	p.syscalls = table
	p.maxSyscallCycles = table.MaxExtraCycles()
	//
	return p
}

// WithHooks replaces the hook registry.
func (p *Executor) WithHooks(hooks *hook.Registry) *Executor {
	p.hooks = hooks
	return p
}

// WithVerifier replaces the verifier of deferred proofs.
func (p *Executor) WithVerifier(verifier SubproofVerifier) *Executor {
	p.verifier = verifier
	return p
}

// WithHints appends buffers to the hint stream.
func (p *Executor) WithHints(hints ...[]byte) *Executor {
	p.state.InputStream = append(p.state.InputStream, hints...)
	return p
}

// WithProofs appends proofs to the deferred proof stream.
func (p *Executor) WithProofs(proofs ...[]byte) *Executor {
	p.state.ProofStream = append(p.state.ProofStream, proofs...)
	return p
}

// RunFast executes the program to completion without producing any events.
func (p *Executor) RunFast(ctx context.Context) error {
	p.mode = Simple
	//
	for {
		done, err := p.execute(ctx)
		// Nothing of interest is recorded
		p.records = nil
		//
		if err != nil || done {
			return err
		}
	}
}

// Run executes the program to completion, retaining every record produced.
func (p *Executor) Run(ctx context.Context) error {
	p.mode = Trace
	//
	for {
		done, err := p.execute(ctx)
		p.history = append(p.history, p.records...)
		p.records = nil
		//
		if err != nil || done {
			return err
		}
	}
}

// ExecuteRecord executes a single batch of shards, returning the records
// produced and whether the program has terminated.  On error, any records
// sealed before the error are still returned.
func (p *Executor) ExecuteRecord(ctx context.Context) ([]*event.ExecutionRecord, bool, error) {
	p.mode = Trace
	//
	done, err := p.execute(ctx)
	records := p.records
	p.records = nil
	//
	return records, done, err
}

// ExecuteState executes a single batch of shards, returning a checkpoint from
// which the batch can be replayed and whether the program has terminated.
func (p *Executor) ExecuteState(ctx context.Context) (*Checkpoint, bool, error) {
	p.mode = CheckpointMode
	//
	var checkpoint = Checkpoint{*p.state.shallowClone()}
	//
	done, err := p.execute(ctx)
	p.records = nil
	//
	if err != nil {
		return nil, done, err
	}
	//
	if done {
		p.fullCheckpoint(&checkpoint.State)
	} else {
		p.minimalCheckpoint(&checkpoint.State)
	}
	//
	return &checkpoint, done, nil
}

// minimalCheckpoint fills in only those addresses touched during the batch,
// with their values as they were before the batch.
func (p *Executor) minimalCheckpoint(state *State) {
	state.Memory = memory.NewPaged[memory.Cell]()
	state.UninitializedMemory = memory.NewPaged[uint32]()
	//
	for _, addr := range p.memoryCheckpoint.Keys() {
		if saved, _ := p.memoryCheckpoint.Get(addr); saved.present {
			state.Memory.Insert(addr, saved.cell)
		}
	}
	//
	for _, addr := range p.uninitializedCheckpoint.Keys() {
		if had, _ := p.uninitializedCheckpoint.Get(addr); had {
			value, _ := p.state.UninitializedMemory.Get(addr)
			state.UninitializedMemory.Insert(addr, value)
		}
	}
}

// fullCheckpoint fills in all of memory, with touched addresses reset to their
// values before the batch.  This is needed so the final batch can emit global
// memory events when replayed.
func (p *Executor) fullCheckpoint(state *State) {
	state.Memory = p.state.Memory.Clone()
	state.UninitializedMemory = p.state.UninitializedMemory.Clone()
	//
	for _, addr := range p.memoryCheckpoint.Keys() {
		if saved, _ := p.memoryCheckpoint.Get(addr); saved.present {
			state.Memory.Insert(addr, saved.cell)
		} else {
			state.Memory.Remove(addr)
		}
	}
	// Values staged during the batch are staged again on replay
	for _, addr := range p.uninitializedCheckpoint.Keys() {
		if had, _ := p.uninitializedCheckpoint.Get(addr); !had {
			state.UninitializedMemory.Remove(addr)
		}
	}
}

// execute runs a single batch of shards, returning whether the program has
// terminated.
func (p *Executor) execute(ctx context.Context) (bool, error) {
	var (
		stats      = util.NewPerfStats()
		startShard = p.state.CurrentShard
		startClk   = p.state.GlobalClk
		shard      = startShard
		executed   uint
		done       = p.exhausted()
		err        error
	)
	//
	p.memoryCheckpoint = memory.NewPaged[savedCell]()
	p.uninitializedCheckpoint = memory.NewPaged[bool]()
	//
	if p.state.GlobalClk == 0 {
		p.initialize()
	}
	//
	for !done {
		if p.state.GlobalClk%cancelCheckPeriod == 0 {
			if err = ctx.Err(); err != nil {
				break
			}
		}
		//
		if done, err = p.cycle(); err != nil {
			break
		}
		//
		if p.opts.ShardBatchSize > 0 && shard != p.state.CurrentShard {
			executed++
			shard = p.state.CurrentShard
			//
			if executed == p.opts.ShardBatchSize {
				break
			}
		}
	}
	//
	if err == nil && done {
		p.postprocess()
		p.bumpRecord()
	} else if len(p.record.CpuEvents) > 0 && err == nil {
		p.bumpRecord()
	}
	//
	p.sealPublicValues(startShard)
	stats.LogCycles(p.mode.String()+" batch", p.state.GlobalClk-startClk)
	//
	return done, err
}

// initialize loads the memory image.
func (p *Executor) initialize() {
	p.state.Clk = 0
	//
	log.Debugf("loading memory image (%d words)", len(p.program.Image))
	//
	for addr, value := range p.program.Image {
		p.state.Memory.Insert(addr, memory.Cell{Value: value})
	}
}

// cycle executes a single instruction, returning whether the program has
// terminated.
func (p *Executor) cycle() (bool, error) {
	var insn = p.program.Fetch(p.state.Pc)
	//
	log.Tracef("0x%08x %s", p.state.Pc, insn.String())
	//
	if err := p.executeInstruction(insn); err != nil {
		return false, err
	}
	//
	p.state.GlobalClk++
	//
	if p.state.GlobalClk%progressPeriod == 0 {
		log.Debugf("executed %d cycles (shard %d)", p.state.GlobalClk, p.state.CurrentShard)
	}
	//
	if !p.unconstrained {
		p.checkShard()
	}
	//
	if p.opts.MaxCycles > 0 && p.state.GlobalClk >= p.opts.MaxCycles {
		return false, &CycleLimitError{p.opts.MaxCycles}
	}
	//
	done := p.terminated()
	//
	if done && p.unconstrained {
		log.Errorf("program ended in unconstrained mode after %d cycles", p.state.GlobalClk)
		return false, ErrEndInUnconstrained
	}
	//
	return done, nil
}

// terminated checks whether the program has finished, either by halting or by
// leaving the program text.  This is only checked after a cycle, since a
// program may begin at address 0.
func (p *Executor) terminated() bool {
	return p.state.Pc == 0 || p.exhausted()
}

// exhausted checks whether there is no next instruction to execute.  A program
// resumed after halting at address 0 is also exhausted.
func (p *Executor) exhausted() bool {
	if p.state.GlobalClk > 0 && p.state.Pc == 0 {
		return true
	}
	//
	return p.state.Exited || !p.program.Contains(p.state.Pc)
}

// sealPublicValues assigns the public values of every record sealed in the
// current batch.
func (p *Executor) sealPublicValues(startShard uint32) {
	var (
		values   = p.record.PublicValues
		nextPc   uint32
		exitCode uint32
	)
	//
	values.CommittedValueDigest = p.state.CommittedValueDigest
	values.DeferredProofsDigest = p.state.DeferredProofsDigest
	//
	for i, record := range p.records {
		record.Program = p.program
		record.PublicValues = values
		record.PublicValues.ExecutionShard = startShard + uint32(i)
		//
		if n := len(record.CpuEvents); n == 0 {
			record.PublicValues.StartPc = nextPc
			record.PublicValues.NextPc = nextPc
			record.PublicValues.ExitCode = exitCode
		} else {
			record.PublicValues.StartPc = record.CpuEvents[0].Pc
			record.PublicValues.NextPc = record.CpuEvents[n-1].NextPc
			record.PublicValues.ExitCode = record.CpuEvents[n-1].ExitCode
			nextPc = record.PublicValues.NextPc
			exitCode = record.PublicValues.ExitCode
		}
	}
}

// Mode returns the mode of the most recent execution.
func (p *Executor) Mode() Mode {
	return p.mode
}

// State returns the current state of this executor.
func (p *Executor) State() *State {
	return p.state
}

// Records returns the records retained by Run.
func (p *Executor) Records() []*event.ExecutionRecord {
	return p.history
}

// Report returns the report of everything executed so far.
func (p *Executor) Report() *Report {
	return p.report
}

// Output returns everything the program wrote to a given standard stream.
func (p *Executor) Output(fd uint32) []byte {
	if stream := p.streams[fd]; stream != nil {
		return stream.all.Bytes()
	}
	//
	return nil
}

// Register returns the current value of a register, without affecting
// execution.
func (p *Executor) Register(reg register.Id) uint32 {
	cell, _ := p.state.Memory.Get(reg.Addr())
	return cell.Value
}

// Registers returns the current values of all registers.
func (p *Executor) Registers() [register.NumRegisters]uint32 {
	var registers [register.NumRegisters]uint32
	//
	for i := range registers {
		registers[i] = p.Register(register.Id(i))
	}
	//
	return registers
}

// ExitCode returns the exit code of the program.
func (p *Executor) ExitCode() uint32 {
	return p.state.ExitCode
}

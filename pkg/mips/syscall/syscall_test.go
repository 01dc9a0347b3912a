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
package syscall

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/consensys/go-zkmips/pkg/mips/hook"
	"github.com/consensys/go-zkmips/pkg/mips/register"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext is a minimal machine for exercising handlers in isolation.
type testContext struct {
	registers     [register.NumRegisters]uint32
	memory        map[uint32]uint32
	staged        map[uint32]uint32
	hints         [][]byte
	output        map[uint32][]byte
	publicValues  []byte
	hooks         *hook.Registry
	nextPc        uint32
	exitCode      uint32
	unconstrained bool
	committed     [DigestWords]uint32
	deferred      [DigestWords]uint32
	verified      [][2][DigestWords]uint32
}

func newTestContext() *testContext {
	return &testContext{
		memory: make(map[uint32]uint32),
		staged: make(map[uint32]uint32),
		output: make(map[uint32][]byte),
		hooks:  hook.Empty(),
		nextPc: 0x1004,
	}
}

func (p *testContext) Register(reg register.Id) uint32 { return p.registers[reg] }
func (p *testContext) WriteRegister(reg register.Id, value uint32) { p.registers[reg] = value }
func (p *testContext) Word(addr uint32) uint32 { return p.memory[addr] }
func (p *testContext) Pc() uint32 { return 0x1000 }
func (p *testContext) Clk() uint32 { return 0 }
func (p *testContext) GlobalClk() uint64 { return 0 }
func (p *testContext) SetNextPc(pc uint32) { p.nextPc = pc }
func (p *testContext) SetExitCode(code uint32) { p.exitCode = code }
func (p *testContext) Unconstrained() bool { return p.unconstrained }
func (p *testContext) EnterUnconstrained() { p.unconstrained = true }
func (p *testContext) Output(fd uint32, bytes []byte) { p.output[fd] = append(p.output[fd], bytes...) }
func (p *testContext) WritePublicValues(bytes []byte) { p.publicValues = append(p.publicValues, bytes...) }
func (p *testContext) PushHint(hint []byte) { p.hints = append(p.hints, hint) }
func (p *testContext) InsertHints(hints [][]byte) { p.hints = append(hints, p.hints...) }
func (p *testContext) Hook(fd uint32) (hook.Hook, bool) { return p.hooks.Get(fd) }
func (p *testContext) HookEnv() hook.Env { return hook.Env{Pc: 0x1000} }
func (p *testContext) CommitWord(index uint32, word uint32) { p.committed[index] = word }
func (p *testContext) CommitDeferredWord(index uint32, word uint32) { p.deferred[index] = word }

func (p *testContext) Byte(addr uint32) uint8 {
	return uint8(p.memory[addr&^3] >> (8 * (addr & 3)))
}

func (p *testContext) ExitUnconstrained() bool {
	was := p.unconstrained
	p.unconstrained = false
	//
	return was
}

func (p *testContext) PeekHint() ([]byte, bool) {
	if len(p.hints) == 0 {
		return nil, false
	}
	//
	return p.hints[0], true
}

func (p *testContext) NextHint() ([]byte, bool) {
	hint, ok := p.PeekHint()
	//
	if ok {
		p.hints = p.hints[1:]
	}
	//
	return hint, ok
}

func (p *testContext) StageWord(addr uint32, value uint32) error {
	if _, ok := p.memory[addr]; ok {
		return &StageError{addr, false}
	} else if _, ok := p.staged[addr]; ok {
		return &StageError{addr, true}
	}
	//
	p.staged[addr] = value
	//
	return nil
}

func (p *testContext) VerifyDeferredProof(vkey [DigestWords]uint32, pvDigest [DigestWords]uint32) error {
	if vkey[0] == 0 {
		return errors.New("invalid verifying key")
	}
	//
	p.verified = append(p.verified, [2][DigestWords]uint32{vkey, pvDigest})
	//
	return nil
}

func (p *testContext) storeBytes(addr uint32, bytes []byte) {
	for i, b := range bytes {
		a := addr + uint32(i)
		p.memory[a&^3] |= uint32(b) << (8 * (a & 3))
	}
}

func execute(t *testing.T, ctx Context, code Code, arg1, arg2 uint32) (uint32, bool) {
	handler, ok := Default()[code]
	require.True(t, ok, "no handler for %s", code)
	//
	value, returned, err := handler.Execute(ctx, code, arg1, arg2)
	require.NoError(t, err)
	//
	return value, returned
}

// ============================================================================
// Codes
// ============================================================================

func Test_Code_01(t *testing.T) {
	assert.True(t, KECCAK_PERMUTE.ShouldSend())
	assert.Equal(t, uint32(0x09), KECCAK_PERMUTE.ID())
	assert.Equal(t, uint32(0x30), SHA_EXTEND.NumCycles())
	assert.False(t, HALT.ShouldSend())
	assert.False(t, SYSWRITE.ShouldSend())
	assert.Equal(t, uint32(4004), SYSWRITE.ID())
}

func Test_Code_02(t *testing.T) {
	assert.Equal(t, HALT, SYSEXITGROUP.CountKey())
	assert.Equal(t, WRITE, SYSWRITE.CountKey())
	assert.True(t, SYSEXITGROUP.IsHalt())
	assert.Equal(t, "SYSMMAP2", SYSMMAP2.String())
	assert.Equal(t, "syscall(0x00000077)", Code(0x77).String())
}

func Test_Table_01(t *testing.T) {
	table := Default()
	//
	assert.Equal(t, uint32(0), table.MaxExtraCycles())
	assert.Equal(t, HALT, table.Codes()[0])
	assert.True(t, AllowedInUnconstrained(WRITE))
	assert.False(t, AllowedInUnconstrained(SYSWRITE))
	assert.False(t, AllowedInUnconstrained(HINT_READ))
}

// ============================================================================
// Handlers
// ============================================================================

func Test_Halt_01(t *testing.T) {
	ctx := newTestContext()
	_, returned := execute(t, ctx, HALT, 3, 0)
	//
	assert.False(t, returned)
	assert.Equal(t, uint32(3), ctx.exitCode)
	assert.Equal(t, uint32(0), ctx.nextPc)
}

func Test_Write_01(t *testing.T) {
	ctx := newTestContext()
	ctx.storeBytes(0x2000, []byte("hello\n"))
	ctx.registers[register.A2] = 6
	//
	_, returned := execute(t, ctx, WRITE, FdStdout, 0x2000)
	//
	assert.False(t, returned)
	assert.Equal(t, []byte("hello\n"), ctx.output[FdStdout])
}

func Test_Write_02(t *testing.T) {
	ctx := newTestContext()
	ctx.storeBytes(0x2001, []byte{1, 2, 3})
	ctx.registers[register.A2] = 3
	ctx.registers[register.A3] = 7
	//
	n, returned := execute(t, ctx, SYSWRITE, FdPublicValues, 0x2001)
	//
	assert.True(t, returned)
	assert.Equal(t, uint32(3), n)
	assert.Equal(t, uint32(0), ctx.registers[register.A3])
	assert.Equal(t, []byte{1, 2, 3}, ctx.publicValues)
}

func Test_Write_03(t *testing.T) {
	ctx := newTestContext()
	ctx.hints = [][]byte{{9}}
	ctx.hooks.Register(7, func(env hook.Env, input []byte) [][]byte {
		return [][]byte{input, {byte(env.Pc)}}
	})
	ctx.storeBytes(0x2000, []byte{0xaa, 0xbb})
	ctx.registers[register.A2] = 2
	//
	execute(t, ctx, WRITE, 7, 0x2000)
	//
	assert.Equal(t, [][]byte{{0xaa, 0xbb}, {0x00}, {9}}, ctx.hints)
}

func Test_Write_04(t *testing.T) {
	ctx := newTestContext()
	ctx.storeBytes(0x2000, []byte{4, 5})
	ctx.registers[register.A2] = 2
	ctx.hints = [][]byte{{1}}
	//
	execute(t, ctx, WRITE, FdHint, 0x2000)
	execute(t, ctx, WRITE, 99, 0x2000)
	//
	assert.Equal(t, [][]byte{{1}, {4, 5}}, ctx.hints)
}

func Test_Write_05(t *testing.T) {
	var (
		ctx     = newTestContext()
		handler = &Write{}
	)
	//
	ctx.registers[register.A2] = 0xffffffff
	_, _, err := handler.Execute(ctx, WRITE, FdStdout, 0x2000)
	assert.Error(t, err)
	// Wraps around the end of memory
	ctx.registers[register.A2] = 16
	_, _, err = handler.Execute(ctx, WRITE, FdStdout, 0xfffffff8)
	assert.Error(t, err)
	//
	assert.Empty(t, ctx.output[FdStdout])
}

func Test_Hint_01(t *testing.T) {
	ctx := newTestContext()
	//
	n, returned := execute(t, ctx, HINT_LEN, 0, 0)
	assert.True(t, returned)
	assert.Equal(t, uint32(0xffffffff), n)
	//
	ctx.hints = [][]byte{{1, 2, 3, 4, 5}}
	n, _ = execute(t, ctx, HINT_LEN, 0, 0)
	assert.Equal(t, uint32(5), n)
	//
	execute(t, ctx, HINT_READ, 0x3000, 5)
	//
	assert.Equal(t, binary.LittleEndian.Uint32([]byte{1, 2, 3, 4}), ctx.staged[0x3000])
	assert.Equal(t, uint32(5), ctx.staged[0x3004])
	assert.Empty(t, ctx.hints)
}

func Test_Hint_02(t *testing.T) {
	var (
		ctx     = newTestContext()
		handler = HandlerFunc(HintRead)
	)
	//
	ctx.hints = [][]byte{{1, 2}, {3, 4}, {5, 6, 7, 8}}
	// misaligned
	_, _, err := handler.Execute(ctx, HINT_READ, 0x3001, 2)
	assert.Error(t, err)
	// wrong length
	_, _, err = handler.Execute(ctx, HINT_READ, 0x3000, 4)
	assert.Error(t, err)
	// already initialised
	ctx.memory[0x3000] = 1
	_, _, err = handler.Execute(ctx, HINT_READ, 0x3000, 2)
	//
	var stageErr *StageError
	//
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, uint32(0x3000), stageErr.Addr)
	assert.False(t, stageErr.Staged)
	// exhausted
	_, _, err = handler.Execute(ctx, HINT_READ, 0x4000, 4)
	assert.NoError(t, err)
	_, _, err = handler.Execute(ctx, HINT_READ, 0x4000, 4)
	assert.Error(t, err)
}

func Test_Unconstrained_01(t *testing.T) {
	ctx := newTestContext()
	//
	v, _ := execute(t, ctx, ENTER_UNCONSTRAINED, 0, 0)
	assert.Equal(t, uint32(1), v)
	assert.True(t, ctx.unconstrained)
	//
	v, _ = execute(t, ctx, EXIT_UNCONSTRAINED, 0, 0)
	assert.Equal(t, uint32(0), v)
	assert.False(t, ctx.unconstrained)
}

func Test_Commit_01(t *testing.T) {
	ctx := newTestContext()
	//
	execute(t, ctx, COMMIT, 2, 0xdead)
	execute(t, ctx, COMMIT_DEFERRED_PROOFS, 7, 0xbeef)
	//
	assert.Equal(t, uint32(0xdead), ctx.committed[2])
	assert.Equal(t, uint32(0xbeef), ctx.deferred[7])
	//
	_, _, err := HandlerFunc(Commit).Execute(ctx, COMMIT, DigestWords, 0)
	assert.Error(t, err)
}

func Test_Verify_01(t *testing.T) {
	ctx := newTestContext()
	//
	for i := range uint32(8) {
		ctx.memory[0x5000+4*i] = i + 1
		ctx.memory[0x6000+4*i] = 100 + i
	}
	//
	execute(t, ctx, VERIFY, 0x5000, 0x6000)
	//
	require.Len(t, ctx.verified, 1)
	assert.Equal(t, [DigestWords]uint32{1, 2, 3, 4, 5, 6, 7, 8}, ctx.verified[0][0])
	assert.Equal(t, uint32(107), ctx.verified[0][1][7])
	//
	_, _, err := HandlerFunc(Verify).Execute(ctx, VERIFY, 0x7000, 0x6000)
	assert.Error(t, err)
}

func Test_Mmap_01(t *testing.T) {
	ctx := newTestContext()
	ctx.registers[register.HEAP] = 0x10000
	//
	v, _ := execute(t, ctx, SYSMMAP, 0, 5000)
	assert.Equal(t, uint32(0x10000), v)
	assert.Equal(t, uint32(0x10000+8192), ctx.registers[register.HEAP])
	//
	v, _ = execute(t, ctx, SYSMMAP2, 0x4000, 4096)
	assert.Equal(t, uint32(0x4000), v)
	assert.Equal(t, uint32(0x10000+8192), ctx.registers[register.HEAP])
	assert.Equal(t, uint32(0), ctx.registers[register.A3])
}

func Test_Brk_01(t *testing.T) {
	ctx := newTestContext()
	ctx.registers[register.BRK] = 0x8000
	//
	v, _ := execute(t, ctx, SYSBRK, 0x100, 0)
	assert.Equal(t, uint32(0x8000), v)
	//
	v, _ = execute(t, ctx, SYSBRK, 0x9000, 0)
	assert.Equal(t, uint32(0x9000), v)
	//
	v, _ = execute(t, ctx, SYSCLONE, 0, 0)
	assert.Equal(t, uint32(1), v)
}

func Test_Read_01(t *testing.T) {
	ctx := newTestContext()
	//
	v, _ := execute(t, ctx, SYSREAD, FdStdin, 0)
	assert.Equal(t, uint32(0), v)
	assert.Equal(t, uint32(0), ctx.registers[register.A3])
	//
	v, _ = execute(t, ctx, SYSREAD, 3, 0)
	assert.Equal(t, uint32(0xffffffff), v)
	assert.Equal(t, uint32(EBADF), ctx.registers[register.A3])
}

func Test_Fcntl_01(t *testing.T) {
	ctx := newTestContext()
	//
	tests := []struct{ fd, cmd, value, errno uint32 }{
		{0, 3, 0, 0},
		{1, 3, 1, 0},
		{2, 3, 1, 0},
		{4, 3, 0xffffffff, EBADF},
		{2, 1, 2, 0},
		{5, 1, 0xffffffff, EBADF},
		{0, 2, 0xffffffff, EBADF},
	}
	//
	for _, tt := range tests {
		v, _ := execute(t, ctx, SYSFCNTL, tt.fd, tt.cmd)
		assert.Equal(t, tt.value, v, "fcntl(%d, %d)", tt.fd, tt.cmd)
		assert.Equal(t, tt.errno, ctx.registers[register.A3], "fcntl(%d, %d)", tt.fd, tt.cmd)
	}
}

func Test_SetThreadArea_01(t *testing.T) {
	ctx := newTestContext()
	//
	v, _ := execute(t, ctx, SYSSETTHREADAREA, 0xcafe0000, 0)
	//
	assert.Equal(t, uint32(0), v)
	assert.Equal(t, uint32(0xcafe0000), ctx.registers[register.LOCAL_USER])
}

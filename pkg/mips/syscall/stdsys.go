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
	"github.com/consensys/go-zkmips/pkg/mips/register"
)

// PageSize is the granularity of mmap allocations.
const PageSize = 1 << 12

// EBADF is the MIPS error number for a bad file descriptor.
const EBADF = 9

// Fcntl commands.
const (
	fGetFd = 1
	fGetFl = 3
)

// The Linux style calls below follow the MIPS O32 convention of returning
// their result in V0, with an error number in A3.

func linuxResult(ctx Context, v0 uint32, errno uint32) (uint32, bool, error) {
	ctx.WriteRegister(register.A3, errno)
	//
	return v0, true, nil
}

// Mmap allocates size bytes (rounded up to a whole number of pages).  Without
// an address hint, memory is allocated from the heap.  Otherwise, the hint is
// returned as is.
func Mmap(ctx Context, _ Code, hint uint32, size uint32) (uint32, bool, error) {
	if size%PageSize != 0 {
		size += PageSize - (size % PageSize)
	}
	//
	if hint != 0 {
		return linuxResult(ctx, hint, 0)
	}
	//
	heap := ctx.Register(register.HEAP)
	ctx.WriteRegister(register.HEAP, heap+size)
	//
	return linuxResult(ctx, heap, 0)
}

// Brk returns the larger of the requested break and the current break.
func Brk(ctx Context, _ Code, brk uint32, _ uint32) (uint32, bool, error) {
	return linuxResult(ctx, max(brk, ctx.Register(register.BRK)), 0)
}

// Clone pretends to create a new thread.
func Clone(ctx Context, _ Code, _ uint32, _ uint32) (uint32, bool, error) {
	return linuxResult(ctx, 1, 0)
}

// Read always reads nothing from stdin, and fails on other descriptors.
func Read(ctx Context, _ Code, fd uint32, _ uint32) (uint32, bool, error) {
	if fd == FdStdin {
		return linuxResult(ctx, 0, 0)
	}
	//
	return linuxResult(ctx, 0xffffffff, EBADF)
}

// Fcntl supports querying the flags (F_GETFL) and descriptor (F_GETFD) of the
// standard streams.
func Fcntl(ctx Context, _ Code, fd uint32, cmd uint32) (uint32, bool, error) {
	switch {
	case cmd == fGetFl && fd == FdStdin:
		// O_RDONLY
		return linuxResult(ctx, 0, 0)
	case cmd == fGetFl && (fd == FdStdout || fd == FdStderr):
		// O_WRONLY
		return linuxResult(ctx, 1, 0)
	case cmd == fGetFd && fd <= FdStderr:
		return linuxResult(ctx, fd, 0)
	default:
		return linuxResult(ctx, 0xffffffff, EBADF)
	}
}

// SetThreadArea sets the thread pointer.
func SetThreadArea(ctx Context, _ Code, addr uint32, _ uint32) (uint32, bool, error) {
	ctx.WriteRegister(register.LOCAL_USER, addr)
	//
	return linuxResult(ctx, 0, 0)
}

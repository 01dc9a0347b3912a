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
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/register"
	log "github.com/sirupsen/logrus"
)

// MaxWriteLength is the largest buffer which can be written in a single call.
const MaxWriteLength = 1 << 24

// Write sends a buffer from memory to a file descriptor.  The first argument
// is the descriptor, the second the address of the buffer, and its length is
// held in register A2.  Output to the standard streams and public values are
// collected by the executor, writing to the hint descriptor appends a new hint
// and writing to a descriptor with a registered hook invokes that hook (whose
// responses are inserted as the next hints to be read).
type Write struct {
	// ReturnCount indicates the number of bytes written is returned to the
	// caller (as for the Linux style call).
	ReturnCount bool
}

// Execute implementation for the Handler interface.
func (p *Write) Execute(ctx Context, code Code, fd uint32, ptr uint32) (uint32, bool, error) {
	var n = ctx.Register(register.A2)
	//
	if n > MaxWriteLength {
		return 0, false, fmt.Errorf("%s: buffer of %d bytes exceeds maximum of %d", code, n, MaxWriteLength)
	} else if ptr+n < ptr {
		return 0, false, fmt.Errorf("%s: buffer at 0x%08x of %d bytes overflows memory", code, ptr, n)
	}
	//
	var bytes = make([]byte, n)
	//
	for i := range n {
		bytes[i] = ctx.Byte(ptr + i)
	}
	//
	switch fd {
	case FdStdout, FdStderr:
		ctx.Output(fd, bytes)
	case FdPublicValues:
		ctx.WritePublicValues(bytes)
	case FdHint:
		ctx.PushHint(bytes)
	default:
		if hook, ok := ctx.Hook(fd); ok {
			ctx.InsertHints(hook(ctx.HookEnv(), bytes))
		} else {
			log.Warnf("%s: ignoring %d bytes written to unknown file descriptor %d", code, n, fd)
		}
	}
	//
	if p.ReturnCount {
		ctx.WriteRegister(register.A3, 0)
		return n, true, nil
	}
	//
	return 0, false, nil
}

// ExtraCycles implementation for the Handler interface.
func (p *Write) ExtraCycles() uint32 {
	return 0
}

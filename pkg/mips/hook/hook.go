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
package hook

import (
	"slices"

	"github.com/ethereum/go-ethereum/crypto"
	log "github.com/sirupsen/logrus"
)

// FdEcrecover is the file descriptor of the default public key recovery hook.
const FdEcrecover = 5

// Env provides a hook with information about the executing program at the
// point the hook was invoked.
type Env struct {
	// Program counter of the write which invoked the hook.
	Pc uint32
	// Number of cycles executed so far.
	GlobalClk uint64
}

// Hook is a host-side callback, invoked when a program writes to the file
// descriptor it is registered against.  A hook receives the bytes written, and
// returns zero or more buffers which are made available to the program as
// hints (in order).
type Hook func(env Env, input []byte) [][]byte

// Registry maps file descriptors to hooks.
type Registry struct {
	hooks map[uint32]Hook
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{make(map[uint32]Hook)}
}

// Empty constructs a registry without any hooks.
func Empty() *Registry {
	return NewRegistry()
}

// Default constructs a registry containing the default hooks.
func Default() *Registry {
	var registry = NewRegistry()
	//
	registry.Register(FdEcrecover, Ecrecover)
	//
	return registry
}

// Register a hook against a given file descriptor, replacing any hook already
// registered against it.
func (p *Registry) Register(fd uint32, hook Hook) {
	if _, ok := p.hooks[fd]; ok {
		log.Debugf("replacing hook on file descriptor %d", fd)
	}
	//
	p.hooks[fd] = hook
}

// Remove the hook registered against a given file descriptor (if any).
func (p *Registry) Remove(fd uint32) {
	delete(p.hooks, fd)
}

// Get the hook registered against a given file descriptor.
func (p *Registry) Get(fd uint32) (Hook, bool) {
	h, ok := p.hooks[fd]
	return h, ok
}

// Fds returns the file descriptors with registered hooks, in ascending order.
func (p *Registry) Fds() []uint32 {
	var fds = make([]uint32, 0, len(p.hooks))
	//
	for fd := range p.hooks {
		fds = append(fds, fd)
	}
	//
	slices.Sort(fds)
	//
	return fds
}

// Ecrecover recovers the uncompressed secp256k1 public key from a message hash
// and signature.  The input is the 32 byte hash followed by the 65 byte
// signature in [R || S || V] form, with V being 0 or 1.  The hook responds
// with a single status byte (1 on success, 0 on failure) followed, on success,
// by the 65 byte public key.
func Ecrecover(_ Env, input []byte) [][]byte {
	if len(input) != 32+crypto.SignatureLength {
		log.Warnf("ecrecover hook: expected %d bytes, got %d", 32+crypto.SignatureLength, len(input))
		return [][]byte{{0}}
	}
	//
	pubkey, err := crypto.Ecrecover(input[:32], input[32:])
	//
	if err != nil {
		log.Debugf("ecrecover hook: %s", err)
		return [][]byte{{0}}
	}
	//
	return [][]byte{{1}, pubkey}
}

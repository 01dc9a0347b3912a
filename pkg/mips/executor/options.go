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
	"errors"
	"fmt"
	"os"

	"github.com/consensys/go-zkmips/pkg/mips/shape"
	"gopkg.in/yaml.v3"
)

// SplitOptions determine how many invocations of a given system call are
// grouped together for the purposes of computing syscall nonces.
type SplitOptions struct {
	Deferred    uint64 `yaml:"deferred"`
	Keccak      uint64 `yaml:"keccak"`
	ShaExtend   uint64 `yaml:"sha_extend"`
	ShaCompress uint64 `yaml:"sha_compress"`
}

// Options configures an executor.
type Options struct {
	// Maximum number of cycles in a shard.
	ShardSize uint32 `yaml:"shard_size"`
	// Number of shards executed in a single batch.  When zero, batches are
	// unbounded (i.e. execution continues until the program terminates).
	ShardBatchSize uint `yaml:"shard_batch_size"`
	// Maximum number of cycles to execute in total, where zero indicates no
	// limit.
	MaxCycles uint64 `yaml:"max_cycles"`
	// Minimum remaining capacity a shape must have for the current shard to
	// continue.
	ShapeMargin uint64 `yaml:"shape_margin"`
	// Number of cycles between shape checks.
	ShapeCheckPeriod uint64 `yaml:"shape_check_period"`
	// Maximal shapes which a shard must fit.  When empty, no shape checks are
	// performed.
	Shapes []shape.Shape `yaml:"shapes"`
	// Determines whether deferred proofs are passed to the verifier.
	DeferredProofVerification bool `yaml:"deferred_proof_verification"`
	// Determines whether global memory events are emitted into the final
	// record.
	EmitGlobalMemoryEvents bool `yaml:"emit_global_memory_events"`
	// Syscall nonce grouping.
	Split SplitOptions `yaml:"split"`
}

// DefaultOptions returns the default executor options.
func DefaultOptions() Options {
	return Options{
		ShardSize:                 1 << 22,
		ShardBatchSize:            16,
		ShapeMargin:               32,
		ShapeCheckPeriod:          16,
		DeferredProofVerification: true,
		EmitGlobalMemoryEvents:    true,
		Split: SplitOptions{
			Deferred:    1 << 19,
			Keccak:      8192,
			ShaExtend:   32768,
			ShaCompress: 32768,
		},
	}
}

// ParseOptions reads options from YAML.  Any option not given retains its
// default value.
func ParseOptions(bytes []byte) (Options, error) {
	var opts = DefaultOptions()
	//
	if err := yaml.Unmarshal(bytes, &opts); err != nil {
		return opts, fmt.Errorf("malformed options: %w", err)
	}
	//
	return opts, opts.Validate()
}

// LoadOptions reads options from a YAML file.
func LoadOptions(filename string) (Options, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return DefaultOptions(), err
	}
	//
	opts, err := ParseOptions(bytes)
	//
	if err != nil {
		return opts, fmt.Errorf("%s: %w", filename, err)
	}
	//
	return opts, nil
}

// Validate checks these options are sensible.
func (p Options) Validate() error {
	switch {
	case p.ShardSize == 0:
		return errors.New("shard size cannot be zero")
	case p.ShardSize > 1<<29:
		return fmt.Errorf("shard size %d too large", p.ShardSize)
	case p.ShapeCheckPeriod == 0:
		return errors.New("shape check period cannot be zero")
	case p.Split.Deferred == 0 || p.Split.Keccak == 0 || p.Split.ShaExtend == 0 || p.Split.ShaCompress == 0:
		return errors.New("split thresholds cannot be zero")
	}
	//
	return nil
}

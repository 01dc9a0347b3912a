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
package program

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Word is a 32bit value which can be written in YAML using any integer
// notation accepted by Go (e.g. "0x241d0005", "42" or "0b101").
type Word uint32

// UnmarshalYAML implementation for the yaml.Unmarshaler interface.
func (p *Word) UnmarshalYAML(node *yaml.Node) error {
	val, err := strconv.ParseUint(node.Value, 0, 32)
	//
	if err != nil {
		return fmt.Errorf("line %d: invalid word %q", node.Line, node.Value)
	}
	//
	*p = Word(val)
	//
	return nil
}

// MarshalYAML implementation for the yaml.Marshaler interface.
func (p Word) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%08x", uint32(p)), nil
}

// File is the on-disk (YAML) representation of a program.  This is a simple
// stand-in for an ELF loader, consisting of the raw program text and any
// additional initial memory.
type File struct {
	PcStart Word          `yaml:"pc_start"`
	PcBase  *Word         `yaml:"pc_base,omitempty"`
	Text    []Word        `yaml:"text"`
	Image   map[Word]Word `yaml:"image,omitempty"`
}

// Program decodes this file into a program.  When no base is given, the
// program text is assumed to start at the entry point.
func (p *File) Program() *Program {
	var (
		base  = p.PcStart
		words = make([]uint32, len(p.Text))
		image = make(map[uint32]uint32, len(p.Image))
	)
	//
	if p.PcBase != nil {
		base = *p.PcBase
	}
	//
	for i, w := range p.Text {
		words[i] = uint32(w)
	}
	//
	for k, v := range p.Image {
		image[uint32(k)] = uint32(v)
	}
	//
	return FromWords(words, uint32(p.PcStart), uint32(base), image)
}

// ParseFile parses the YAML representation of a program.
func ParseFile(bytes []byte) (*Program, error) {
	var file File
	//
	if err := yaml.Unmarshal(bytes, &file); err != nil {
		return nil, fmt.Errorf("parsing program: %w", err)
	}
	//
	if len(file.Text) == 0 {
		return nil, fmt.Errorf("parsing program: empty program text")
	}
	//
	if file.PcStart%4 != 0 {
		return nil, fmt.Errorf("parsing program: unaligned entry point 0x%08x", uint32(file.PcStart))
	} else if file.PcBase != nil && *file.PcBase%4 != 0 {
		return nil, fmt.Errorf("parsing program: unaligned base 0x%08x", uint32(*file.PcBase))
	}
	//
	for addr := range file.Image {
		if addr%4 != 0 {
			return nil, fmt.Errorf("parsing program: unaligned image address 0x%08x", uint32(addr))
		}
	}
	//
	return file.Program(), nil
}

// ReadFile reads and parses a program file.
func ReadFile(filename string) (*Program, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	return ParseFile(bytes)
}

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
	"bytes"
	"strings"

	"github.com/consensys/go-zkmips/pkg/mips/syscall"
	log "github.com/sirupsen/logrus"
)

// Prefixes of the stdout lines used to delimit regions of interest.
const (
	cycleTrackerStart = "cycle-tracker-start:"
	cycleTrackerEnd   = "cycle-tracker-end:"
)

// writeOutput appends bytes written by the program to a standard stream.
// Complete lines are logged, whilst the raw bytes are retained.
func (p *Executor) writeOutput(fd uint32, data []byte) {
	var stream = p.streams[fd]
	//
	if stream == nil {
		stream = &outputStream{}
		p.streams[fd] = stream
	}
	//
	stream.all.Write(data)
	stream.pending = append(stream.pending, data...)
	//
	for {
		i := bytes.IndexByte(stream.pending, '\n')
		//
		if i < 0 {
			break
		}
		//
		p.emitLine(fd, string(stream.pending[:i]))
		stream.pending = stream.pending[i+1:]
	}
}

// flushOutput emits any incomplete lines remaining at the end of execution.
func (p *Executor) flushOutput() {
	for _, fd := range []uint32{syscall.FdStdout, syscall.FdStderr} {
		if stream := p.streams[fd]; stream != nil && len(stream.pending) > 0 {
			p.emitLine(fd, string(stream.pending))
			stream.pending = nil
		}
	}
}

func (p *Executor) emitLine(fd uint32, line string) {
	if fd == syscall.FdStdout {
		if name, ok := strings.CutPrefix(line, cycleTrackerStart); ok {
			p.startTracking(strings.TrimSpace(name))
			return
		} else if name, ok := strings.CutPrefix(line, cycleTrackerEnd); ok {
			p.endTracking(strings.TrimSpace(name))
			return
		}
		//
		log.Infof("stdout: %s", line)
	} else {
		log.Warnf("stderr: %s", line)
	}
}

func (p *Executor) startTracking(name string) {
	p.cycleTracker[name] = p.state.GlobalClk
}

func (p *Executor) endTracking(name string) {
	start, ok := p.cycleTracker[name]
	//
	if !ok {
		log.Warnf("cycle tracker %q ended without being started", name)
		return
	}
	//
	delete(p.cycleTracker, name)
	cycles := p.state.GlobalClk - start
	p.report.CycleTracker[name] += cycles
	log.Debugf("%s took %d cycles", name, cycles)
}

// outputStream holds everything written to a standard stream, along with any
// incomplete line.
type outputStream struct {
	all     bytes.Buffer
	pending []byte
}

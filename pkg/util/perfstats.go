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
package util

import (
	"runtime"
	"time"

	log "github.com/sirupsen/logrus"
)

// PerfStats provides a snapshot of memory allocation at a given point in time.
type PerfStats struct {
	// Starting time
	startTime time.Time
	// Starting total memory allocation
	startMem uint64
	// Starting number of gc events
	startGc uint32
}

// NewPerfStats creates a new snapshot of the current amount of memory allocated.
func NewPerfStats() *PerfStats {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return &PerfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

// Log logs the difference between the state now and as it was when the
// PerfStats object was created.
func (p *PerfStats) Log(prefix string) {
	exectime, alloc, gcs := p.delta()
	//
	log.Debugf("%s took %0.2fs using %v Mb (%v GC events)", prefix, exectime, alloc, gcs)
}

// LogCycles logs as for Log, along with the rate at which cycles were executed.
func (p *PerfStats) LogCycles(prefix string, cycles uint64) {
	exectime, alloc, gcs := p.delta()
	rate := float64(cycles) / max(exectime, 1e-9)
	//
	log.Debugf("%s executed %d cycles in %0.2fs (%0.0f cycles/s) using %v Mb (%v GC events)", prefix, cycles,
		exectime, rate, alloc, gcs)
}

func (p *PerfStats) delta() (float64, uint64, uint32) {
	var m runtime.MemStats
	//
	runtime.ReadMemStats(&m)
	//
	return time.Since(p.startTime).Seconds(), (m.TotalAlloc - p.startMem) / 1024 / 1024, m.NumGC - p.startGc
}

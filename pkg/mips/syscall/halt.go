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

// Halt terminates execution with the exit code given in the first argument.
// The program counter is set to zero, which ends execution once the current
// cycle completes.
func Halt(ctx Context, _ Code, exitCode uint32, _ uint32) (uint32, bool, error) {
	ctx.SetExitCode(exitCode)
	ctx.SetNextPc(0)
	//
	return 0, false, nil
}

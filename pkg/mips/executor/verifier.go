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
	"sync"

	log "github.com/sirupsen/logrus"
)

// SubproofVerifier checks proofs whose verification was deferred by the
// program.  A proof is checked against the verifying key and public values
// digest the program supplied for it.
type SubproofVerifier interface {
	VerifyDeferredProof(proof []byte, vkey [8]uint32, pvDigest [8]uint32) error
}

// DefaultVerifier accepts every proof, since proofs are checked when the
// program itself is proven.  It warns once, on first use.
type DefaultVerifier struct {
	once sync.Once
}

// VerifyDeferredProof implementation for the SubproofVerifier interface.
func (p *DefaultVerifier) VerifyDeferredProof(_ []byte, _ [8]uint32, _ [8]uint32) error {
	p.once.Do(func() {
		log.Warn("deferred proofs are not verified during execution")
	})
	//
	return nil
}

// NoOpVerifier accepts every proof silently.
type NoOpVerifier struct{}

// VerifyDeferredProof implementation for the SubproofVerifier interface.
func (p NoOpVerifier) VerifyDeferredProof(_ []byte, _ [8]uint32, _ [8]uint32) error {
	return nil
}

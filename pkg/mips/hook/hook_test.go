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
	"bytes"
	"slices"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func Test_Registry_01(t *testing.T) {
	var (
		registry = NewRegistry()
		called   = false
	)
	//
	registry.Register(10, func(env Env, input []byte) [][]byte {
		called = true
		return [][]byte{input}
	})
	//
	h, ok := registry.Get(10)
	//
	if !ok {
		t.Fatalf("hook not registered")
	}
	//
	if res := h(Env{}, []byte{1, 2}); !called || len(res) != 1 || !bytes.Equal(res[0], []byte{1, 2}) {
		t.Errorf("unexpected hook result %v", res)
	}
	//
	registry.Remove(10)
	//
	if _, ok := registry.Get(10); ok {
		t.Errorf("hook not removed")
	}
}

func Test_Registry_02(t *testing.T) {
	registry := Default()
	registry.Register(9, func(Env, []byte) [][]byte { return nil })
	//
	if fds := registry.Fds(); !slices.Equal(fds, []uint32{FdEcrecover, 9}) {
		t.Errorf("unexpected file descriptors %v", fds)
	}
}

func Test_Ecrecover_01(t *testing.T) {
	key, err := crypto.GenerateKey()
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	hash := crypto.Keccak256([]byte("hello zkmips"))
	sig, err := crypto.Sign(hash, key)
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	res := Ecrecover(Env{}, append(slices.Clone(hash), sig...))
	//
	if len(res) != 2 || res[0][0] != 1 {
		t.Fatalf("unexpected response %v", res)
	}
	//
	if !bytes.Equal(res[1], crypto.FromECDSAPub(&key.PublicKey)) {
		t.Errorf("recovered wrong public key")
	}
}

func Test_Ecrecover_02(t *testing.T) {
	if res := Ecrecover(Env{}, make([]byte, 10)); len(res) != 1 || res[0][0] != 0 {
		t.Errorf("unexpected response %v", res)
	}
}

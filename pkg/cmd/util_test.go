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
package cmd

import (
	"strconv"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseHint_01(t *testing.T) {
	bytes, err := parseHint("0x0102ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 0xff}, bytes)
	//
	bytes, err = parseHint("hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), bytes)
	//
	_, err = parseHint("0xzz")
	require.Error(t, err)
}

func Test_ReadOptions_01(t *testing.T) {
	cmd := &cobra.Command{Use: "execute"}
	addExecuteFlags(cmd)
	//
	require.NoError(t, cmd.Flags().Set("shard-size", "1024"))
	require.NoError(t, cmd.Flags().Set("batch-size", "2"))
	//
	opts, err := readOptions(cmd)
	require.NoError(t, err)
	assert.Equal(t, uint32(1024), opts.ShardSize)
	assert.Equal(t, uint(2), opts.ShardBatchSize)
}

func Test_ReadOptions_02(t *testing.T) {
	cmd := &cobra.Command{Use: "execute"}
	addExecuteFlags(cmd)
	// Does not fit in 32 bits
	require.NoError(t, cmd.Flags().Set("shard-size", strconv.FormatUint(1<<32+16, 10)))
	//
	_, err := readOptions(cmd)
	require.Error(t, err)
	// Zero is rejected
	require.NoError(t, cmd.Flags().Set("shard-size", "0"))
	//
	_, err = readOptions(cmd)
	require.Error(t, err)
}

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
	"fmt"
	"os"
	"strconv"

	"github.com/consensys/go-zkmips/pkg/mips/instruction"
	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode [flags] word...",
	Short: "decode machine words into instructions.",
	Long: `Decode one or more 32bit machine words into their instructions, as
	understood by the executor.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		for _, arg := range args {
			word, err := strconv.ParseUint(arg, 0, 32)
			if err != nil {
				fmt.Printf("invalid word \"%s\"\n", arg)
				os.Exit(2)
			}
			//
			fmt.Printf("0x%08x  %s\n", word, instruction.Decode(uint32(word)).String())
		}
	},
}

func init() {
	rootCmd.AddCommand(decodeCmd)
}

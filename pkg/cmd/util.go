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
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or exits if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned integer flag, or exits if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected 64bit unsigned integer flag, or exits if an error
// arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or exits if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or exits if an error
// arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// configureLogging sets the log level from the verbosity flags, and tags every
// subsequent log entry with a fresh run identifier (which is returned).
func configureLogging(cmd *cobra.Command) uuid.UUID {
	var run = uuid.New()
	//
	switch {
	case GetFlag(cmd, "trace"):
		log.SetLevel(log.TraceLevel)
	case GetFlag(cmd, "verbose"):
		log.SetLevel(log.DebugLevel)
	}
	//
	log.AddHook(&runHook{run})
	//
	return run
}

// runHook attaches the identifier of the current run to every log entry.
type runHook struct {
	run uuid.UUID
}

func (p *runHook) Levels() []log.Level {
	return log.AllLevels
}

func (p *runHook) Fire(entry *log.Entry) error {
	entry.Data["run"] = p.run.String()
	return nil
}

// parseHint parses a hint given on the command line.  Hints prefixed with "0x"
// are hex encoded bytes, and otherwise the hint is taken as is.
func parseHint(hint string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(hint, "0x"); ok {
		bytes, err := hex.DecodeString(rest)
		//
		if err != nil {
			return nil, fmt.Errorf("invalid hint %q: %w", hint, err)
		}
		//
		return bytes, nil
	}
	//
	return []byte(hint), nil
}

// terminalWidth returns the width of stdout when it is a terminal, or the
// given default otherwise.
func terminalWidth(def int) int {
	var fd = int(os.Stdout.Fd())
	//
	if !term.IsTerminal(fd) {
		return def
	}
	//
	if width, _, err := term.GetSize(fd); err == nil && width > 0 {
		return width
	}
	//
	return def
}

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
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"

	"github.com/consensys/go-zkmips/pkg/mips/checkpoint"
	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/executor"
	"github.com/consensys/go-zkmips/pkg/mips/program"
	"github.com/consensys/go-zkmips/pkg/util"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// maxReportWidth bounds the width of the report on wide terminals.
const maxReportWidth = 100

var executeCmd = &cobra.Command{
	Use:   "execute [flags] program_file",
	Short: "execute a program.",
	Long: `Execute a program given as a YAML file, reporting its exit code
	and public values.  Depending on the mode, execution produces no events,
	a complete trace of every shard or checkpoints from which each batch of
	shards can be replayed.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		run := configureLogging(cmd)
		stats := util.NewPerfStats()
		//
		opts, err := readOptions(cmd)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		prog, err := program.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Debugf("loaded %d instructions from %s", prog.Len(), args[0])
		//
		e, err := executor.New(prog, opts)
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		for _, h := range GetStringArray(cmd, "hint") {
			hint, err := parseHint(h)
			if err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
			//
			e.WithHints(hint)
		}
		// Interrupts cancel execution
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		//
		switch mode := GetString(cmd, "mode"); mode {
		case "simple":
			err = e.RunFast(ctx)
		case "trace":
			err = e.Run(ctx)
			printRecords(e.Records())
		case "checkpoint":
			err = executeCheckpoints(ctx, e, run, GetString(cmd, "checkpoint-db"))
		default:
			fmt.Printf("unknown mode \"%s\"\n", mode)
			os.Exit(2)
		}
		//
		stats.Log("execution")
		//
		if GetFlag(cmd, "report") {
			width := min(terminalWidth(executor.DefaultReportWidth), maxReportWidth)
			fmt.Print(e.Report().Render(width))
		}
		//
		os.Exit(reportOutcome(e, err))
	},
}

// readOptions reads the options file (if given), and then applies any options
// given explicitly on the command line.
func readOptions(cmd *cobra.Command) (executor.Options, error) {
	var (
		opts = executor.DefaultOptions()
		err  error
	)
	//
	if filename := GetString(cmd, "config"); filename != "" {
		if opts, err = executor.LoadOptions(filename); err != nil {
			return opts, err
		}
	}
	//
	if cmd.Flags().Changed("max-cycles") {
		opts.MaxCycles = GetUint64(cmd, "max-cycles")
	}
	//
	if cmd.Flags().Changed("shard-size") {
		size := GetUint(cmd, "shard-size")
		//
		if size > math.MaxUint32 {
			return opts, fmt.Errorf("shard size %d out of range", size)
		}
		//
		opts.ShardSize = uint32(size)
	}
	//
	if cmd.Flags().Changed("batch-size") {
		opts.ShardBatchSize = GetUint(cmd, "batch-size")
	}
	//
	return opts, opts.Validate()
}

// executeCheckpoints executes batch by batch, storing each checkpoint under the
// given run when a database is given.
func executeCheckpoints(ctx context.Context, e *executor.Executor, run uuid.UUID, db string) error {
	var store *checkpoint.Store
	//
	if db != "" {
		var err error
		//
		if store, err = checkpoint.Open(db); err != nil {
			return err
		}
		//
		defer store.Close()
	}
	//
	for batch := uint32(0); ; batch++ {
		cp, done, err := e.ExecuteState(ctx)
		//
		if err != nil {
			return err
		}
		//
		if store != nil {
			if err := store.Put(run, batch, cp); err != nil {
				return err
			}
		}
		//
		if done {
			log.Infof("executed %d batches (checkpoints stored under run %s)", batch+1, run)
			return nil
		}
	}
}

// printRecords summarises the records produced by a traced execution.
func printRecords(records []*event.ExecutionRecord) {
	for _, record := range records {
		fmt.Printf("shard %d: %d cpu events, %d syscall events, %d local memory events [%s]\n",
			record.PublicValues.ExecutionShard, len(record.CpuEvents), len(record.SyscallEvents),
			len(record.LocalMemoryAccess), record.Counts().String())
	}
}

// reportOutcome prints the result of execution, returning the exit code of
// this process.
func reportOutcome(e *executor.Executor, err error) int {
	var halt *executor.HaltError
	//
	switch {
	case errors.As(err, &halt):
		fmt.Printf("program halted with exit code %d\n", halt.ExitCode)
		return 3
	case errors.Is(err, context.Canceled):
		fmt.Printf("execution interrupted after %d cycles\n", e.State().GlobalClk)
		return 130
	case err != nil:
		fmt.Printf("execution failed after %d cycles: %s\n", e.State().GlobalClk, err)
		return 1
	}
	//
	fmt.Printf("exit code: %d\n", e.ExitCode())
	fmt.Printf("cycles: %d\n", e.State().GlobalClk)
	fmt.Printf("public values: 0x%x\n", e.State().PublicValuesStream)
	//
	return 0
}

func init() {
	rootCmd.AddCommand(executeCmd)
	addExecuteFlags(executeCmd)
}

// addExecuteFlags registers the flags of the execute command.
func addExecuteFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "read execution options from a YAML file")
	cmd.Flags().String("mode", "simple", "execution mode (simple, trace or checkpoint)")
	cmd.Flags().StringArray("hint", nil, "append a hint (hex if prefixed with 0x)")
	cmd.Flags().Uint64("max-cycles", 0, "maximum number of cycles to execute")
	cmd.Flags().Uint("shard-size", 0, "maximum number of cycles in a shard")
	cmd.Flags().Uint("batch-size", 0, "number of shards in a batch")
	cmd.Flags().String("checkpoint-db", "", "store checkpoints in a database (checkpoint mode)")
	cmd.Flags().Bool("report", false, "print an execution report")
}

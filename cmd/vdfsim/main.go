// Command vdfsim drives the round/tick state machine against a
// configurable process set and reports the resulting DAG, heaviest chain,
// and accepted set.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vdfsim",
	Short: "Run and inspect the chain-selection algebra over a simulated VDF round schedule",
	Long: `vdfsim drives a configurable set of well-behaved and Byzantine processes
through the round/tick state machine, then reports the resulting DAG, the
heaviest consistent chain, and the accepted message set.`,
}

func main() {
	rootCmd.AddCommand(runCmd(), checkCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

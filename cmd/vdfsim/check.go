package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func checkCmd() *cobra.Command {
	var (
		processes int
		byzantine int
		twb       uint64
		tadv      uint64
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a process/period configuration against the rate invariant without running it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildParameters(processes, byzantine, twb, tadv, 0)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				fmt.Printf("invalid: %v\n", err)
				return err
			}
			w := cfg.WellBehaved().Len()
			b := cfg.Byzantine.Len()
			fmt.Printf("valid: |W|=%d |B|=%d tWB=%d tAdv=%d (|W|*tAdv=%d > |B|*tWB=%d)\n",
				w, b, cfg.TWB, cfg.TAdv, uint64(w)*cfg.TAdv, uint64(b)*cfg.TWB)
			return nil
		},
	}

	cmd.Flags().IntVar(&processes, "processes", 3, "total number of processes")
	cmd.Flags().IntVar(&byzantine, "byzantine", 1, "number of processes to mark Byzantine")
	cmd.Flags().Uint64Var(&twb, "twb", 3, "ticks per well-behaved VDF period")
	cmd.Flags().Uint64Var(&tadv, "tadv", 2, "ticks per adversarial VDF period")

	return cmd
}

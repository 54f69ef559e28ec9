package main

import (
	"fmt"

	"github.com/nano-o/vdf-consensus/adversary"
	"github.com/nano-o/vdf-consensus/chainalg/accept"
	"github.com/nano-o/vdf-consensus/chainalg/weight"
	"github.com/nano-o/vdf-consensus/config"
	"github.com/nano-o/vdf-consensus/idset"
	"github.com/nano-o/vdf-consensus/logging"
	"github.com/nano-o/vdf-consensus/message"
	"github.com/nano-o/vdf-consensus/metrics"
	"github.com/nano-o/vdf-consensus/roundsm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var (
		processes int
		byzantine int
		twb       uint64
		tadv      uint64
		maxTick   uint64
		parallel  bool
		logLevel  string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulated schedule and report the final DAG, heaviest chain, and accepted set",
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := zerolog.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("parsing --log-level: %w", err)
			}
			log := logging.Setup(level)

			cfg, err := buildParameters(processes, byzantine, twb, tadv, maxTick)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			cfg.WarnIfWeakRateOnly(logging.For(log, "config"))

			met, err := metrics.New(prometheus.NewRegistry())
			if err != nil {
				return fmt.Errorf("registering metrics: %w", err)
			}

			sim := roundsm.NewSimulation(cfg, adversary.Default{}, logging.For(log, "clock"), met)

			if parallel {
				err = roundsm.RunParallel(sim, cfg.MaxTick)
			} else {
				err = sim.Run(cfg.MaxTick)
			}
			if err != nil {
				return fmt.Errorf("simulation halted: %w", err)
			}

			report(logging.For(log, "chain"), sim, met)
			return nil
		},
	}

	cmd.Flags().IntVar(&processes, "processes", 3, "total number of processes")
	cmd.Flags().IntVar(&byzantine, "byzantine", 1, "number of processes to mark Byzantine (the first N by id)")
	cmd.Flags().Uint64Var(&twb, "twb", 3, "ticks per well-behaved VDF period")
	cmd.Flags().Uint64Var(&tadv, "tadv", 2, "ticks per adversarial VDF period")
	cmd.Flags().Uint64Var(&maxTick, "max-tick", 60, "number of ticks to run")
	cmd.Flags().BoolVar(&parallel, "parallel", false, "drive processes with one goroutine each instead of the single-threaded loop")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "zerolog level: debug, info, warn, error")

	return cmd
}

func buildParameters(processes, byzantine int, twb, tadv, maxTick uint64) (config.Parameters, error) {
	if processes <= 0 {
		return config.Parameters{}, fmt.Errorf("--processes must be positive")
	}
	if byzantine < 0 || byzantine > processes {
		return config.Parameters{}, fmt.Errorf("--byzantine must be between 0 and --processes")
	}

	ids := make([]message.ProcessID, processes)
	for i := 0; i < processes; i++ {
		ids[i] = message.ProcessID(fmt.Sprintf("p%d", i+1))
	}

	return config.Parameters{
		Processes: idset.Of(ids...),
		Byzantine: idset.Of(ids[:byzantine]...),
		TWB:       twb,
		TAdv:      tadv,
		MaxTick:   maxTick,
	}, nil
}

func report(log zerolog.Logger, sim *roundsm.Simulation, met *metrics.Metrics) {
	dag := sim.DAG().All()
	chain, ok := weight.HeaviestConsistentChain(dag)
	accepted := accept.Accepted(dag)

	met.DAGSize.Set(float64(dag.Len()))
	met.AcceptedSize.Set(float64(accepted.Len()))

	log.Info().
		Int("dag_size", dag.Len()).
		Int("accepted_size", accepted.Len()).
		Msg("simulation complete")

	if !ok {
		log.Warn().Msg("no consistent chain found")
		return
	}
	r, _ := chain.MaxRound()
	log.Info().
		Int("heaviest_chain_weight", chain.Len()).
		Uint64("heaviest_chain_round", r).
		Msg("heaviest consistent chain")
}

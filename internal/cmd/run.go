package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/thetarby/rwsim/internal/config"
	"github.com/thetarby/rwsim/internal/event"
	"github.com/thetarby/rwsim/internal/logging"
	"github.com/thetarby/rwsim/internal/manifest"
	"github.com/thetarby/rwsim/internal/sim"
	"github.com/thetarby/rwsim/internal/trace"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <manifest>",
		Short: "Run a simulation from a manifest file",
		Long: `Load a manifest of readers and writers and run them against the
selected access policy, printing each participant's progress.

The manifest starts with the number of participants followed by one
"<R|W> <duration>" pair per participant:

  5
  R  3
  R  4
  W  3
  R  1
  W  4`,
		Args: cobra.ExactArgs(1),
		RunE: runSimulation,
	}

	f := cmd.Flags()
	f.StringP("policy", "p", "", "access policy: unrestricted, exclusive, reader-priority, fair")
	f.Int("max-ticks", 0, "clock tick budget (default 40)")
	f.Duration("tick", 0, "wall-clock length of one tick (default 250ms)")
	f.BoolP("verbose", "v", false, "also print when a participant starts waiting")
	f.Bool("check", true, "abort if the policy's exclusion guarantee is observed broken (--check=false to disable)")
	f.Bool("color", true, "colour the trace when writing to a terminal")
	_ = viper.BindPFlag("simulation.policy", f.Lookup("policy"))
	_ = viper.BindPFlag("simulation.max_ticks", f.Lookup("max-ticks"))
	_ = viper.BindPFlag("simulation.tick_interval", f.Lookup("tick"))
	_ = viper.BindPFlag("simulation.check_invariants", f.Lookup("check"))
	_ = viper.BindPFlag("output.verbose", f.Lookup("verbose"))
	_ = viper.BindPFlag("output.color", f.Lookup("color"))

	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	m, err := manifest.Load(args[0])
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(cfg.Logging.Dir, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer log.Close()

	bus := event.NewBus()
	bus.SetLogger(log)
	printer := trace.NewPrinter(cmd.OutOrStdout(), trace.Options{
		Verbose: cfg.Output.Verbose,
		Color:   cfg.Output.Color,
	})
	printer.PrintManifest(m)
	printer.Attach(bus)
	defer printer.Detach()

	s, err := sim.FromConfig(cfg, bus, log)
	if err != nil {
		return fmt.Errorf("failed to create simulation: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.Run(ctx, m); err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	return nil
}

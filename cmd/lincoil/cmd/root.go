package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/lincoil/internal/config"
	"github.com/OpenTraceLab/lincoil/internal/logging"
	"github.com/OpenTraceLab/lincoil/internal/phasespec"
	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose    bool
	configPath string
	overrides  []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "lincoil",
		Short: "lincoil - serpentine linear motor coils for KiCad boards",
		Long: `lincoil draws the stator winding of a PCB linear motor into a KiCad board:
one serpentine coil per phase, each on a pair of copper layers, joined by vias
and fed from connector pads.

Examples:
  lincoil params                                  # Show the resolved geometry
  lincoil generate board.kicad_pcb --clear        # Redraw the winding in place
  lincoil generate board.kicad_pcb --dry-run      # Count what would be drawn
  lincoil generate board.kicad_pcb --set motor.poles=12 -o out.kicad_pcb
  lincoil preview board.kicad_pcb                 # Look at it first`,
		Version:       "0.3.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default "+config.DefaultPath+" when present)")
	root.PersistentFlags().StringArrayVar(&opts.overrides, "set", nil,
		"override a config value, e.g. --set motor.poles=12 (repeatable)")

	root.AddCommand(
		newGenerateCmd(opts),
		newParamsCmd(opts),
		newNetsCmd(),
		newInspectCmd(),
		newPreviewCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func (o *rootOptions) logger(cmd *cobra.Command) *slog.Logger {
	return logging.NewWriter(cmd.ErrOrStderr(), logging.Level(o.verbose))
}

// load reads the configuration and resolves the geometry. Phase
// declarations given on the command line replace the configured ones.
func (o *rootOptions) load(phases []string) (*config.Config, *coil.Geometry, error) {
	cfg, err := config.Load(o.configPath, o.overrides)
	if err != nil {
		return nil, nil, err
	}

	if len(phases) > 0 {
		cfg.Phases = cfg.Phases[:0]
		for _, p := range phases {
			spec, err := phasespec.Parse(p)
			if err != nil {
				return nil, nil, fmt.Errorf("--phase %q: %w", p, err)
			}
			cfg.Phases = append(cfg.Phases, spec)
		}
	}

	geo, err := cfg.Geometry()
	if err != nil {
		return nil, nil, err
	}
	return cfg, geo, nil
}

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/lincoil/internal/design"
	"github.com/OpenTraceLab/lincoil/internal/metrics"
	"github.com/OpenTraceLab/lincoil/pkg/coil"
)

type generateOptions struct {
	output      string
	clear       bool
	dryRun      bool
	parallel    bool
	metricsPath string
	phases      []string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <board_file>",
		Short: "Draw the motor winding into a board",
		Long: `Generates every phase of the winding and writes the tracks and vias into
the board file. Connector pads and phase nets must already exist on the board.

Nothing is saved unless every phase succeeds.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default: overwrite the input)")
	f.BoolVar(&opts.clear, "clear", false, "remove existing tracks and vias on the phase nets first")
	f.BoolVar(&opts.dryRun, "dry-run", false, "generate and report without writing the board")
	f.BoolVar(&opts.parallel, "parallel", false, "build phases concurrently")
	f.StringVar(&opts.metricsPath, "metrics", "", "write Prometheus textfile metrics to this path")
	f.StringArrayVar(&opts.phases, "phase", nil,
		`phase declaration, replaces the configured phases (repeatable)
e.g. 'A: B.Cu -> In1.Cu shift -1 net "PHASE_A" pads J1.1 -> J1.2'`)

	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions, path string) error {
	log := root.logger(cmd)

	cfg, geo, err := root.load(opts.phases)
	if err != nil {
		return err
	}

	board, err := design.Open(path)
	if err != nil {
		return err
	}

	d := board.Design()
	if opts.dryRun {
		d.Sink = &coil.Recorder{}
		d.Clearer = nil
	}
	rec := metrics.New()
	d.Sink = rec.Sink(d.Sink)

	orch := coil.NewOrchestrator(geo, d, coil.Options{
		Clear:    opts.clear || cfg.Clear,
		Parallel: opts.parallel || cfg.Parallel,
		Logger:   log,
	})
	report, runErr := orch.Run(cmd.Context(), cfg.Phases)
	rec.ObserveReport(report)

	if report != nil {
		printReport(cmd.OutOrStdout(), cfg.Phases, report)
	}
	if opts.metricsPath != "" {
		if err := rec.WriteTextfile(opts.metricsPath); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}

	if runErr != nil {
		var partial *coil.PartialError
		if errors.As(runErr, &partial) {
			log.Warn("board not saved", "failed", len(partial.Failed))
		}
		return runErr
	}

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "Dry run: board not written")
		return nil
	}

	out := opts.output
	if out == "" {
		out = path
	}
	if err := board.Save(out); err != nil {
		return err
	}
	log.Info("board written", "path", out)
	return nil
}

func printReport(w io.Writer, phases []coil.PhaseSpec, report *coil.Report) {
	fmt.Fprintf(w, "%-8s %-20s %-18s %7s %5s  %s\n", "Phase", "Net", "Layers", "Tracks", "Vias", "Status")
	fmt.Fprintln(w, "──────────────────────────────────────────────────────────────────────")
	for i, res := range report.Phases {
		spec := phases[i]
		status := "ok"
		if res.Err != nil {
			status = res.Err.Error()
		}
		fmt.Fprintf(w, "%-8s %-20s %-18s %7d %5d  %s\n",
			res.Phase, spec.Net, string(spec.From)+" -> "+string(spec.To), res.Tracks, res.Vias, status)
	}
	tracks, vias := report.Totals()
	fmt.Fprintf(w, "\nTotal: %d tracks, %d vias\n", tracks, vias)
}

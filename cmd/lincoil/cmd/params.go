package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/lincoil/internal/phasespec"
)

func newParamsCmd(root *rootOptions) *cobra.Command {
	var phases []string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Show the resolved winding geometry",
		Long:  `Prints the derived pole, period and track dimensions without touching a board.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, geo, err := root.load(phases)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			lo, hi := geo.Extent()
			fmt.Fprintf(w, "Stator length:    %s mm\n", geo.Length)
			fmt.Fprintf(w, "Coil height:      %s mm\n", geo.Height)
			fmt.Fprintf(w, "Poles / periods:  %d / %d\n", geo.PoleCount, geo.PeriodCount)
			fmt.Fprintf(w, "Pole length:      %s mm\n", geo.PoleLength)
			fmt.Fprintf(w, "Period length:    %s mm\n", geo.PeriodLength)
			fmt.Fprintf(w, "Tracks per pole:  %d\n", geo.TracksPerPole)
			fmt.Fprintf(w, "Track width:      %s mm\n", geo.TrackWidth)
			fmt.Fprintf(w, "Track pitch:      %s mm\n", geo.Pitch)
			fmt.Fprintf(w, "Phase shift:      %s mm\n", geo.PhaseShift)
			fmt.Fprintf(w, "Via:              %s / %s mm\n", geo.ViaDiameter, geo.ViaDrill)
			fmt.Fprintf(w, "Extent:           %s - %s\n", lo, hi)
			fmt.Fprintf(w, "\nPhases (%d):\n", len(cfg.Phases))
			for _, p := range cfg.Phases {
				fmt.Fprintf(w, "  %s\n", phasespec.Format(p))
			}
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&phases, "phase", nil, "phase declaration, replaces the configured phases (repeatable)")
	return cmd
}

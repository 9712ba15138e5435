package cmd

import (
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/pcb"
)

func newNetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nets <board_file> [net_name]",
		Short: "Show PCB net information",
		Long: `Display information about nets in a PCB file.

Without net_name: Lists all nets with pad/track/via counts
With net_name: Shows detailed information for that specific net`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := pcb.ParseFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if len(args) >= 2 {
				return showNetDetails(w, board, args[1])
			}
			listAllNets(w, board)
			return nil
		},
	}
}

func listAllNets(w io.Writer, board *pcb.Board) {
	fmt.Fprintf(w, "Board: %d nets\n\n", len(board.Nets))
	fmt.Fprintf(w, "%-30s %6s %6s %6s\n", "Net Name", "Pads", "Tracks", "Vias")
	fmt.Fprintln(w, "─────────────────────────────────────────────────────────")

	names := board.GetAllNetNames()
	sort.Strings(names)

	for _, name := range names {
		if info := board.GetNetInfo(name); info != nil {
			fmt.Fprintf(w, "%-30s %6d %6d %6d\n", name, len(info.Pads), len(info.Tracks), len(info.Vias))
		}
	}
}

func showNetDetails(w io.Writer, board *pcb.Board, name string) error {
	info := board.GetNetInfo(name)
	if info == nil {
		return fmt.Errorf("net '%s' not found", name)
	}

	fmt.Fprintf(w, "Net: %s (number %d)\n\n", info.Net.Name, info.Net.Number)

	fmt.Fprintf(w, "Pads (%d):\n", len(info.Pads))
	for _, pad := range info.Pads {
		fmt.Fprintf(w, "  Pad %-4s: %s %.2f×%.2f mm\n", pad.Number, pad.Shape, pad.Size.Width, pad.Size.Height)
	}

	// Track length per layer is what a winding check usually wants.
	lengths := map[string]float64{}
	fmt.Fprintf(w, "\nTracks (%d):\n", len(info.Tracks))
	for _, t := range info.Tracks {
		lengths[t.Layer] += math.Hypot(t.End.X-t.Start.X, t.End.Y-t.Start.Y)
	}
	layers := make([]string, 0, len(lengths))
	for l := range lengths {
		layers = append(layers, l)
	}
	sort.Strings(layers)
	for _, l := range layers {
		fmt.Fprintf(w, "  %-10s %10.3f mm\n", l, lengths[l])
	}

	fmt.Fprintf(w, "\nVias (%d):\n", len(info.Vias))
	for i, via := range info.Vias {
		kind := via.Type
		if kind == "" {
			kind = "through"
		}
		fmt.Fprintf(w, "  Via %d: %s %.2f/%.2f mm at (%.3f, %.3f) %v\n",
			i+1, kind, via.Size, via.Drill, via.Position.X, via.Position.Y, via.Layers)
	}
	return nil
}

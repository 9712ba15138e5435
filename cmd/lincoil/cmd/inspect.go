package cmd

import (
	"fmt"
	"os"
	"sort"

	chewxy "github.com/chewxy/sexp"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/lincoil/pkg/kicad/sexp/kicadsexp"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <board_file>",
		Short: "Census of the raw s-expression tree",
		Long: `Counts the top-level node kinds of a KiCad file and cross-checks the
tree against an independent s-expression reader. Useful when a board from a
newer KiCad does not load.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			exprs, err := kicadsexp.ParseString(string(data))
			if err != nil {
				return err
			}
			if len(exprs) != 1 {
				return fmt.Errorf("expected one root expression, got %d", len(exprs))
			}
			root, ok := exprs[0].(*kicadsexp.List)
			if !ok || root.Len() == 0 {
				return fmt.Errorf("root expression is not a node")
			}

			fmt.Fprintf(w, "File size: %d bytes\n", len(data))
			fmt.Fprintf(w, "Root: %s with %d children\n\n", root.Key(), root.Len()-1)

			counts := map[string]int{}
			for _, e := range root.Elements()[1:] {
				if l, ok := e.(*kicadsexp.List); ok {
					counts[l.Key()]++
				}
			}
			kinds := make([]string, 0, len(counts))
			for k := range counts {
				kinds = append(kinds, k)
			}
			sort.Slice(kinds, func(i, j int) bool {
				if counts[kinds[i]] != counts[kinds[j]] {
					return counts[kinds[i]] > counts[kinds[j]]
				}
				return kinds[i] < kinds[j]
			})
			fmt.Fprintf(w, "%-20s %8s\n", "Node", "Count")
			fmt.Fprintln(w, "─────────────────────────────")
			for _, k := range kinds {
				fmt.Fprintf(w, "%-20s %8d\n", k, counts[k])
			}

			ref, err := chewxy.ParseString(string(data))
			if err != nil {
				fmt.Fprintf(w, "\nReference reader: %v\n", err)
				return nil
			}
			status := "match"
			if len(ref) != 1 || ref[0].LeafCount() != root.LeafCount() {
				status = "differs"
			}
			fmt.Fprintf(w, "\nReference reader: %d expressions (%s)\n", len(ref), status)
			return nil
		},
	}
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scireasoner/pkg/graph"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show node and edge counts of the latest reasoning graph",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		snap, err := store.LoadLatestGraph("reasoning")
		if err != nil {
			return err
		}
		if snap == nil {
			return fmt.Errorf("no graph built yet, run build first")
		}
		g, err := graph.Load(snap)
		if err != nil {
			return err
		}

		nodeCounts := make(map[string]int)
		for _, node := range g.Nodes() {
			nodeCounts[string(node.Type)]++
		}
		edgeCounts := make(map[string]int)
		for _, edge := range g.Edges() {
			edgeCounts[string(edge.Type)]++
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"num_nodes":   g.NumNodes(),
			"num_edges":   g.NumEdges(),
			"node_counts": nodeCounts,
			"edge_counts": edgeCounts,
		})
	},
}

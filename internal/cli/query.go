package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scireasoner/pkg/graph"
	"scireasoner/pkg/query"
)

var (
	queryMinSupport        int
	queryMaxContradictions int
)

var queryCmd = &cobra.Command{
	Use:   "query <type> [target]",
	Short: "Query the latest reasoning graph",
	Long: `Query types:
  hypothesis_support <id or text>
  entity_evolution <id or name>
  unvalidated_hypotheses
  claim_relationships <id or text>`,
	Args: cobra.RangeArgs(1, 2),
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

		target := ""
		if len(args) > 1 {
			target = args[1]
		}

		engine := query.NewEngine(g)
		var result any
		switch args[0] {
		case "hypothesis_support":
			result = engine.QueryHypothesisSupport(target)
		case "entity_evolution":
			result = engine.QueryEntityEvolution(target)
		case "unvalidated_hypotheses":
			result = engine.QueryUnvalidatedHypotheses(queryMinSupport, queryMaxContradictions)
		case "claim_relationships":
			result = engine.QueryClaimRelationships(target)
		default:
			return fmt.Errorf("unknown query type %q", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	queryCmd.Flags().IntVar(&queryMinSupport, "min-support", 2, "minimum supporting claims for validation")
	queryCmd.Flags().IntVar(&queryMaxContradictions, "max-contradictions", 1, "maximum tolerated contradicting claims")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scireasoner/internal/server"
	"scireasoner/internal/util"
	"scireasoner/pkg/common"
	"scireasoner/pkg/graph"
	"scireasoner/pkg/linking"
	"scireasoner/pkg/logger"
	"scireasoner/pkg/reasoning"
)

var (
	buildInfer         bool
	buildMinClaims     int
	buildMaxHypotheses int
)

var buildCmd = &cobra.Command{
	Use:   "build [doc_id...]",
	Short: "Build the reasoning graph from processed documents",
	Long:  "Build the reasoning graph from the named documents, or from every processed document when none are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		documents, err := store.ListDocuments()
		if err != nil {
			return err
		}
		if len(args) > 0 {
			wanted := make(map[string]bool, len(args))
			for _, id := range args {
				wanted[id] = true
			}
			filtered := documents[:0]
			for _, doc := range documents {
				if wanted[doc.DocID] {
					filtered = append(filtered, doc)
				}
			}
			documents = filtered
		}
		if len(documents) == 0 {
			return fmt.Errorf("no documents ingested")
		}

		entities := make([]common.Entity, 0)
		claims := make([]common.Claim, 0)
		hypotheses := make([]common.Hypothesis, 0)
		for _, doc := range documents {
			docEntities, err := store.LoadEntities(doc.DocID)
			if err != nil {
				return err
			}
			docClaims, err := store.LoadClaims(doc.DocID)
			if err != nil {
				return err
			}
			docHypotheses, err := store.LoadHypotheses(doc.DocID)
			if err != nil {
				return err
			}
			entities = append(entities, docEntities...)
			claims = append(claims, docClaims...)
			hypotheses = append(hypotheses, docHypotheses...)
		}

		ctx := cmd.Context()
		aiClient := server.NewAIClient()
		linker := linking.NewEntityLinker(aiClient, util.GetEnvNumeric("LINK_SIM_THRESHOLD", 0))
		entityLinks, err := linker.LinkEntities(ctx, entities)
		if err != nil {
			return err
		}

		g := graph.NewBuilder().Build(documents, entities, claims, hypotheses, entityLinks)

		if buildInfer {
			inferencer := reasoning.NewInferencer(aiClient)
			inferred := inferencer.Infer(ctx, g, buildMinClaims, buildMaxHypotheses)
			inferencer.Apply(g, inferred)
			logger.Info("Hypotheses inferred", "count", len(inferred))
		}

		snap, err := g.Snapshot()
		if err != nil {
			return err
		}
		path, err := store.SaveGraph("reasoning", snap)
		if err != nil {
			return err
		}
		logger.Info("Graph built",
			"documents", len(documents),
			"nodes", g.NumNodes(),
			"edges", g.NumEdges(),
			"snapshot", path,
		)
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildInfer, "infer", false, "run hypothesis inference after the build")
	buildCmd.Flags().IntVar(&buildMinClaims, "min-claims", 2, "minimum claims per inference cluster")
	buildCmd.Flags().IntVar(&buildMaxHypotheses, "max-hypotheses", 10, "maximum inferred hypotheses")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"scireasoner/internal/server"
	"scireasoner/internal/util"
	"scireasoner/pkg/extract"
	"scireasoner/pkg/logger"
)

var processCmd = &cobra.Command{
	Use:   "process <doc_id>...",
	Short: "Extract entities, claims and hypotheses from ingested documents",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		aiClient := server.NewAIClient()
		extractor, err := extract.NewExtractor(aiClient, int(util.GetEnvNumeric("AI_MAX_RETRIES", 3)))
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		for _, docID := range args {
			doc, err := store.LoadDocument(docID)
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document %s not found", docID)
			}
			sentences, err := store.LoadSentences(docID)
			if err != nil {
				return err
			}

			entities, err := extractor.ExtractEntities(ctx, sentences)
			if err != nil {
				return err
			}
			claims, err := extractor.ExtractClaims(ctx, sentences, entities)
			if err != nil {
				return err
			}
			hypotheses, err := extractor.DetectHypotheses(ctx, sentences, claims)
			if err != nil {
				return err
			}

			if err := store.SaveEntities(docID, entities); err != nil {
				return err
			}
			if err := store.SaveClaims(docID, claims); err != nil {
				return err
			}
			if err := store.SaveHypotheses(docID, hypotheses); err != nil {
				return err
			}
			logger.Info("Document processed",
				"doc_id", docID,
				"entities", len(entities),
				"claims", len(claims),
				"hypotheses", len(hypotheses),
			)
		}
		return nil
	},
}

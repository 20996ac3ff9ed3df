// Package cli implements the reasoner command line interface. It drives
// the same pipeline as the HTTP server against the local file store.
package cli

import (
	"github.com/spf13/cobra"

	"scireasoner/internal/storage"
	"scireasoner/internal/util"
	"scireasoner/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "reasoner",
	Short: "Build and query reasoning graphs over scientific documents",
	Long: `reasoner ingests scientific documents, extracts entities, claims and
hypotheses, builds a multi-document reasoning graph and answers
structured queries over it.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Command failed", "err", err)
	}
}

func openStore() (*storage.Store, error) {
	return storage.NewStore(util.GetEnvString("STORAGE_DIR", storage.DefaultBaseDir))
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(statsCmd)
}

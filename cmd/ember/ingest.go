package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbz/ember/internal/retrieval"
)

//nolint:gochecknoglobals // cobra command
var ingestCmd = &cobra.Command{
	Use:   "ingest <dir>",
	Short: "Load a documentation directory into the retriever",
	Long: `Load every .md and .txt file under a directory into the configured
retriever. Documents stored in Weaviate persist; the in-memory store only
reports what would be indexed.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := initLogging(!verbose); err != nil {
		return err
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}

	return container.Invoke(func(docs *documents) error {
		if docs.ingester == nil {
			return errors.New("retrieval is disabled (RETRIEVER_BACKEND=none)")
		}

		files, chunks, err := retrieval.IngestDir(cmd.Context(), docs.ingester, args[0])
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "ingested %d files as %d chunks\n", files, chunks)
		return err
	})
}

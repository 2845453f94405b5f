package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/davidbz/ember/internal/domain"
)

//nolint:gochecknoglobals // cobra command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Import or export cached question/answer pairs",
	Long: `Import or export cached question/answer pairs as CSV.

Files have a question,answer header. With CACHE_BACKEND=redis the cache
outlives the process, so import seeds the shared index and export dumps it.
With the in-memory backend import only validates the file.`,
}

//nolint:gochecknoglobals // cobra command
var cacheImportCmd = &cobra.Command{
	Use:   "import <csv>",
	Short: "Append the pairs of a CSV file to the cache",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheImport,
}

//nolint:gochecknoglobals // cobra command
var cacheExportCmd = &cobra.Command{
	Use:   "export <csv>",
	Short: "Write every cached pair to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runCacheExport,
}

func init() {
	cacheCmd.AddCommand(cacheImportCmd)
	cacheCmd.AddCommand(cacheExportCmd)
}

func runCacheImport(cmd *cobra.Command, args []string) error {
	return withCache(func(cache *domain.SemanticCacheService) error {
		ctx := cmd.Context()
		before, err := cache.Len(ctx)
		if err != nil {
			return err
		}
		if err := cache.LoadFromFile(ctx, args[0]); err != nil {
			return err
		}
		after, err := cache.Len(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d pairs from %s (%d cached)\n", after-before, args[0], after)
		return err
	})
}

func runCacheExport(cmd *cobra.Command, args []string) error {
	return withCache(func(cache *domain.SemanticCacheService) error {
		ctx := cmd.Context()
		if err := cache.SaveToFile(ctx, args[0]); err != nil {
			return err
		}
		n, err := cache.Len(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %d pairs to %s\n", n, args[0])
		return err
	})
}

// withCache resolves only the cache, leaving models and retrieval unbuilt.
func withCache(fn func(cache *domain.SemanticCacheService) error) error {
	if err := initLogging(!verbose); err != nil {
		return err
	}

	container, err := buildContainer()
	if err != nil {
		return err
	}
	return container.Invoke(fn)
}

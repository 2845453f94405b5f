package retrieval

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidbz/ember/internal/domain"
	"github.com/davidbz/ember/internal/observability"
)

//nolint:gochecknoglobals // extension allow-list
var documentExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".txt":      {},
}

// IngestDir walks dir and ingests every .md and .txt file, returning the
// number of files and chunks stored. Sources are paths relative to dir.
func IngestDir(ctx context.Context, ingester domain.Ingester, dir string) (int, int, error) {
	logger := observability.FromContext(ctx)

	var files, chunks int
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if _, ok := documentExtensions[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		source, err := filepath.Rel(dir, path)
		if err != nil {
			source = path
		}

		n, err := ingester.Ingest(ctx, filepath.ToSlash(source), string(content))
		if err != nil {
			return fmt.Errorf("ingesting %s: %w", source, err)
		}

		files++
		chunks += n
		logger.Debug("document ingested",
			observability.String("source", source),
			observability.Int("chunks", n))
		return nil
	})
	if err != nil {
		return files, chunks, err
	}

	logger.Info("documents ingested",
		observability.String("dir", dir),
		observability.Int("files", files),
		observability.Int("chunks", chunks))
	return files, chunks, nil
}

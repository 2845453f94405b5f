package retrieval_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/mocks"
	"github.com/davidbz/ember/internal/retrieval"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestIngestDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "intro.md"), "# Intro")
	writeFile(t, filepath.Join(dir, "nested", "faq.txt"), "FAQ")
	writeFile(t, filepath.Join(dir, "image.png"), "binary")

	ingester := mocks.NewMockIngester(t)
	ingester.EXPECT().Ingest(mock.Anything, "intro.md", "# Intro").Return(2, nil)
	ingester.EXPECT().Ingest(mock.Anything, "nested/faq.txt", "FAQ").Return(1, nil)

	files, chunks, err := retrieval.IngestDir(context.Background(), ingester, dir)
	require.NoError(t, err)
	require.Equal(t, 2, files)
	require.Equal(t, 3, chunks)
}

func TestIngestDir_PropagatesIngestError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "A")

	ingester := mocks.NewMockIngester(t)
	ingester.EXPECT().Ingest(mock.Anything, "a.txt", "A").Return(0, errors.New("store down"))

	_, _, err := retrieval.IngestDir(context.Background(), ingester, dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "store down")
}

func TestIngestDir_MissingDir(t *testing.T) {
	ingester := mocks.NewMockIngester(t)

	_, _, err := retrieval.IngestDir(context.Background(), ingester, filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

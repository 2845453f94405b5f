package domain_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/ember/internal/domain"
)

func TestEncodeDecodePairs(t *testing.T) {
	pairs := []domain.Pair{
		{Question: "plain", Answer: "answer"},
		{Question: "with, comma", Answer: "with \"quotes\""},
		{Question: "multi\nline", Answer: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, domain.EncodePairs(&buf, pairs))
	require.True(t, strings.HasPrefix(buf.String(), "question,answer\n"))

	decoded, err := domain.DecodePairs("buffer", &buf)
	require.NoError(t, err)
	require.Equal(t, pairs, decoded)
}

func TestDecodePairs_HeaderOnly(t *testing.T) {
	pairs, err := domain.DecodePairs("x.csv", strings.NewReader("question,answer\n"))
	require.NoError(t, err)
	require.Empty(t, pairs)
}

func TestDecodePairs_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantRow int
	}{
		{name: "empty file", input: "", wantRow: 1},
		{name: "wrong header", input: "q,a\nx,y\n", wantRow: 1},
		{name: "extra header column", input: "question,answer,extra\n", wantRow: 1},
		{name: "too few fields", input: "question,answer\nok,fine\nlonely\n", wantRow: 3},
		{name: "too many fields", input: "question,answer\na,b,c\n", wantRow: 2},
		{name: "empty question", input: "question,answer\n\" \",b\n", wantRow: 2},
		{name: "bad quoting", input: "question,answer\nok,fine\nstill ok,fine\n\"open,quote\n", wantRow: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := domain.DecodePairs("cache.csv", strings.NewReader(tt.input))
			require.Nil(t, pairs)

			var parseErr *domain.ParseError
			require.ErrorAs(t, err, &parseErr)
			require.Equal(t, tt.wantRow, parseErr.Row)
			require.Equal(t, "cache.csv", parseErr.Path)
			require.Contains(t, err.Error(), "cache.csv")
		})
	}
}

func TestWritePairsFile_ReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.csv")

	require.NoError(t, domain.WritePairsFile(path, []domain.Pair{{Question: "old", Answer: "a"}}))
	require.NoError(t, domain.WritePairsFile(path, []domain.Pair{{Question: "new", Answer: "b"}}))

	pairs, err := domain.ReadPairsFile(path)
	require.NoError(t, err)
	require.Equal(t, []domain.Pair{{Question: "new", Answer: "b"}}, pairs)

	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

package retrieval

// Backends accepted by Config.Backend.
const (
	BackendMemory   = "memory"
	BackendWeaviate = "weaviate"
	BackendNone     = "none"
)

// Config selects and tunes the document retriever.
type Config struct {
	Backend      string `env:"RETRIEVER_BACKEND"    envDefault:"memory"`
	TopK         int    `env:"RETRIEVER_TOP_K"      envDefault:"4"`
	DocsDir      string `env:"DOCS_DIR"`
	ChunkSize    int    `env:"INGEST_CHUNK_SIZE"    envDefault:"1000"`
	ChunkOverlap int    `env:"INGEST_CHUNK_OVERLAP" envDefault:"100"`
}

// Separator joins passages in a retrieval result.
const Separator = "\n\n"

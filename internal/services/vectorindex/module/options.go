package module

import (
	"time"

	"ytchat/internal/platform/config"
	"ytchat/internal/services/vectorindex/domain"
)

// Options configures the vectorindex module
type Options struct {
	EmbedBatch int
	LeaseTTL   time.Duration
	// HolderWait is how long to wait on another instance's ingestion
	HolderWait time.Duration
	Dims       int
	// StatementTimeout bounds each statement of the upsert transaction
	StatementTimeout time.Duration
	// EnsureSchema applies the schema on startup when pg is enabled
	EnsureSchema bool

	// Embedder is required; it must be the same model for ingestion and retrieval
	Embedder domain.Embedder
}

// FromConfig reads options from config.Conf
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_RAG_")
	oc := cfg.Prefix("CORE_OPENAI_")
	return Options{
		EmbedBatch:   oc.MayInt("EMBED_BATCH", 96),
		LeaseTTL:     rc.MayDuration("LEASE_TTL", 10*time.Minute),
		HolderWait:   rc.MayDuration("HOLDER_WAIT", 20*time.Second),
		Dims:         rc.MayInt("EMBED_DIMS", 1536),
		EnsureSchema: rc.MayBool("ENSURE_SCHEMA", true),

		StatementTimeout: cfg.Prefix("CORE_PG_").MayDuration("STATEMENT_TIMEOUT", 30*time.Second),
	}
}

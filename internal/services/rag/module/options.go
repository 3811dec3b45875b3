package module

import (
	"time"

	"ytchat/internal/adapters/llm/openai"
	"ytchat/internal/platform/config"
	"ytchat/internal/services/rag/domain"
	transcriptsmod "ytchat/internal/services/transcripts/module"
	vectorindexmod "ytchat/internal/services/vectorindex/module"
)

// Options configures the rag module and the modules it composes
type Options struct {
	TopK int

	OpenAI      openai.Options
	Transcripts transcriptsmod.Options
	VectorIndex vectorindexmod.Options

	// Embedder and Generator override the openai client when set
	Embedder  domain.Embedder
	Generator domain.Generator
}

// FromConfig reads options from config.Conf
// CORE_OPENAI_API_KEY is required unless both overrides are set later
func FromConfig(cfg config.Conf) Options {
	rc := cfg.Prefix("CORE_RAG_")
	oc := cfg.Prefix("CORE_OPENAI_")
	return Options{
		TopK: rc.MayInt("TOP_K", 4),
		OpenAI: openai.Options{
			APIKey:       oc.MayString("API_KEY", ""),
			BaseURL:      oc.MayString("BASE_URL", ""),
			ChatModel:    oc.MayString("CHAT_MODEL", "gpt-4o-mini"),
			EmbedModel:   oc.MayString("EMBED_MODEL", "text-embedding-3-small"),
			Temperature:  float32(oc.MayFloat64("TEMPERATURE", 0)),
			EmbedBatch:   oc.MayInt("EMBED_BATCH", 96),
			LLMTimeout:   oc.MayDuration("LLM_TIMEOUT", 25*time.Second),
			EmbedTimeout: oc.MayDuration("EMBED_TIMEOUT", 15*time.Second),
			MaxWait:      oc.MayDuration("MAX_WAIT", 45*time.Second),
			MaxTries:     uint(max(oc.MayInt("MAX_TRIES", 3), 1)),
		},
		Transcripts: transcriptsmod.FromConfig(cfg),
		VectorIndex: vectorindexmod.FromConfig(cfg),
	}
}

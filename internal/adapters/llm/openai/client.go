// Package openai implements the embedding and generation ports on the OpenAI API
package openai

import (
	"context"
	"errors"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	perr "ytchat/internal/platform/errors"
	"ytchat/internal/platform/logger"

	"github.com/cenkalti/backoff/v5"
	oai "github.com/sashabaranov/go-openai"
)

const (
	defaultChatModel  = "gpt-4o-mini"
	defaultEmbedModel = string(oai.SmallEmbedding3)

	// Dimensions of text-embedding-3-small, the vector column is sized to match
	Dimensions = 1536

	defaultBatch        = 96
	defaultMaxTries     = 3
	defaultLLMTimeout   = 25 * time.Second
	defaultEmbedTimeout = 15 * time.Second
	defaultRetryBase    = 500 * time.Millisecond
	defaultMaxWait      = 45 * time.Second
)

// Options configures the Client
type Options struct {
	APIKey  string
	BaseURL string

	ChatModel   string
	EmbedModel  string
	Temperature float32

	// EmbedBatch caps inputs per embeddings call
	EmbedBatch int

	// per attempt deadlines, both must be below MaxWait so a timed out attempt is retried
	LLMTimeout   time.Duration
	EmbedTimeout time.Duration

	MaxTries  uint
	RetryBase time.Duration
	// MaxWait caps one call across all attempts
	MaxWait time.Duration

	HTTPClient *http.Client
}

// Client is both an Embedder and a Generator
type Client struct {
	api  *oai.Client
	opts Options
	log  logger.Logger
}

// New builds a Client, APIKey is required
func New(o Options) (*Client, error) {
	if strings.TrimSpace(o.APIKey) == "" {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument, "openai: api key is required")
	}
	if o.ChatModel == "" {
		o.ChatModel = defaultChatModel
	}
	if o.EmbedModel == "" {
		o.EmbedModel = defaultEmbedModel
	}
	if o.EmbedBatch <= 0 {
		o.EmbedBatch = defaultBatch
	}
	if o.LLMTimeout <= 0 {
		o.LLMTimeout = defaultLLMTimeout
	}
	if o.EmbedTimeout <= 0 {
		o.EmbedTimeout = defaultEmbedTimeout
	}
	if o.MaxTries == 0 {
		o.MaxTries = defaultMaxTries
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.MaxWait <= 0 {
		o.MaxWait = defaultMaxWait
	}
	if o.LLMTimeout >= o.MaxWait || o.EmbedTimeout >= o.MaxWait {
		return nil, perr.Newf(perr.ErrorCodeInvalidArgument,
			"openai: attempt timeouts (llm %s, embed %s) must be below max wait %s", o.LLMTimeout, o.EmbedTimeout, o.MaxWait)
	}

	cfg := oai.DefaultConfig(o.APIKey)
	if o.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(o.BaseURL, "/")
	}
	if o.HTTPClient != nil {
		cfg.HTTPClient = o.HTTPClient
	}

	return &Client{
		api:  oai.NewClientWithConfig(cfg),
		opts: o,
		log:  *logger.Named("openai"),
	}, nil
}

// Embed returns one vector per input, in input order
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.opts.EmbedBatch {
		end := min(start+c.opts.EmbedBatch, len(texts))
		batch := texts[start:end]

		vecs, err := retry(ctx, c, "embeddings", c.opts.EmbedTimeout, func(ctx context.Context) ([][]float32, error) {
			resp, err := c.api.CreateEmbeddings(ctx, oai.EmbeddingRequestStrings{
				Input: batch,
				Model: oai.EmbeddingModel(c.opts.EmbedModel),
			})
			if err != nil {
				return nil, err
			}
			if len(resp.Data) != len(batch) {
				return nil, perr.Newf(perr.ErrorCodeUnknown,
					"openai embeddings returned %d vectors for %d inputs", len(resp.Data), len(batch))
			}
			sort.Slice(resp.Data, func(i, j int) bool { return resp.Data[i].Index < resp.Data[j].Index })
			vs := make([][]float32, len(resp.Data))
			for i, d := range resp.Data {
				vs[i] = d.Embedding
			}
			return vs, nil
		})
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// Generate sends prompt as a single user message and returns the reply text
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	temp := c.opts.Temperature
	if temp == 0 {
		// zero is dropped by omitempty and the api default is 1
		temp = math.SmallestNonzeroFloat32
	}
	return retry(ctx, c, "chat", c.opts.LLMTimeout, func(ctx context.Context) (string, error) {
		resp, err := c.api.CreateChatCompletion(ctx, oai.ChatCompletionRequest{
			Model:       c.opts.ChatModel,
			Temperature: temp,
			Messages: []oai.ChatCompletionMessage{
				{Role: oai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", perr.Newf(perr.ErrorCodeUnavailable, "openai chat returned no choices")
		}
		c.log.Debug().
			Str("model", resp.Model).
			Int("prompt_tokens", resp.Usage.PromptTokens).
			Int("completion_tokens", resp.Usage.CompletionTokens).
			Msg("chat completion")
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	})
}

// retry runs op with a per attempt deadline and exponential backoff
// errors are classified so only transient failures are retried
func retry[T any](ctx context.Context, c *Client, op string, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.opts.RetryBase

	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		actx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		v, err := fn(actx)
		if err == nil {
			return v, nil
		}
		var zero T
		if ctx.Err() != nil {
			return zero, backoff.Permanent(ctx.Err())
		}
		err = classify(op, err)
		if !perr.Retryable(err) {
			return zero, backoff.Permanent(err)
		}
		c.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("openai call failed, retrying")
		return zero, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.opts.MaxTries),
		backoff.WithMaxElapsedTime(c.opts.MaxWait),
	)
}

// classify maps go-openai errors onto platform codes
func classify(op string, err error) error {
	if _, ok := perr.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return perr.FromContext(err, "openai "+op)
	}

	status := 0
	var apiErr *oai.APIError
	var reqErr *oai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == http.StatusTooManyRequests:
		return perr.Wrapf(err, perr.ErrorCodeTooManyRequests, "openai %s rate limited", op)
	case status >= 500:
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai %s status %d", op, status)
	case status >= 400:
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "openai %s rejected with status %d", op, status)
	default:
		// transport level failure
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "openai %s failed", op)
	}
}

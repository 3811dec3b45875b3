package pg

import (
	"context"
	"fmt"

	"ytchat/internal/platform/logger"
	str "ytchat/internal/platform/strings"

	"github.com/pgvector/pgvector-go"
	"github.com/rs/zerolog"
)

// maxArgLen caps string args in trace lines, chunk text can be long
const maxArgLen = 120

// QueryEvent is one finished statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives an event per statement
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement on its own debug level logger so LOG_SQL works
// regardless of the root level
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if id := logger.RequestID(ctx); id != "" {
		evt = evt.Str("request_id", id)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", str.Compact(ev.SQL)).
		Strs("args", redact(ev.Args)).
		Err(ev.Err).
		Msg("pg query")
}

// redact renders args for logs, embeddings collapse to their dimension
func redact(args []any) []string {
	out := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case pgvector.Vector:
			out[i] = fmt.Sprintf("vector(%d)", len(v.Slice()))
		case []float32:
			out[i] = fmt.Sprintf("vector(%d)", len(v))
		case string:
			out[i] = str.Clip(v, maxArgLen)
		case []string:
			out[i] = fmt.Sprintf("text[%d]", len(v))
		default:
			out[i] = str.Clip(fmt.Sprint(v), maxArgLen)
		}
	}
	return out
}


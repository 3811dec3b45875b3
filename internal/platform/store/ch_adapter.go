package store

import (
	"context"
	"fmt"

	"ytchat/internal/platform/store/ch"
)

// chAdapter exposes *ch.CH as the Clickhouse seam
type chAdapter struct{ *ch.CH }

var _ Clickhouse = chAdapter{}

func newCHAdapter(c *ch.CH) Clickhouse { return chAdapter{c} }

// Insert takes a batch as [][]any or a single row as []any, columns in table order
func (a chAdapter) Insert(ctx context.Context, table string, data any) error {
	switch rows := data.(type) {
	case [][]any:
		return a.CH.Insert(ctx, table, rows)
	case []any:
		return a.CH.Insert(ctx, table, [][]any{rows})
	default:
		return fmt.Errorf("store: clickhouse insert into %s: unsupported shape %T", table, data)
	}
}

func (a chAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.CH.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r}, nil
}

func (a chAdapter) Ping(ctx context.Context) error {
	if a.CH == nil || a.Conn == nil {
		return fmt.Errorf("store: clickhouse not open")
	}
	return a.CH.Ping(ctx)
}

type chRows struct{ ch.Rows }

func (r chRows) Close() { _ = r.Rows.Close() }

package logger

import "context"

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyVideoID
)

// WithRequest stores the request id on ctx; empty ids are ignored
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithVideo stores the video being answered on ctx; empty ids are ignored
func WithVideo(ctx context.Context, videoID string) context.Context {
	if videoID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyVideoID, videoID)
}

// RequestID returns the id stored by WithRequest, or ""
func RequestID(ctx context.Context) string {
	s, _ := ctx.Value(keyRequestID).(string)
	return s
}

// C returns the root logger carrying whatever request_id and video_id ctx holds
func C(ctx context.Context) *Logger {
	zc := Get().With()
	if s := RequestID(ctx); s != "" {
		zc = zc.Str("request_id", s)
	}
	if s, _ := ctx.Value(keyVideoID).(string); s != "" {
		zc = zc.Str("video_id", s)
	}
	l := zc.Logger()
	return &l
}

// Package http serves the meta endpoints: liveness, readiness, build info and index probes
package http

import (
	"context"
	"net/http"
	"time"

	"ytchat/internal/core/version"
	"ytchat/internal/core/videoref"
	"ytchat/internal/modkit/httpkit"
	vidx "ytchat/internal/services/vectorindex/domain"
)

// Pinger is satisfied by every backend seam that can report readiness
type Pinger interface {
	Ping(context.Context) error
}

// PingFunc adapts a plain func to Pinger
type PingFunc func(context.Context) error

// Ping implements Pinger
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// Deps are what the meta handlers report on
// a nil backend was disabled by config and reports skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	KV          any

	// Index is optional, /index is only mounted when it is set
	Index vidx.Prober
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}
	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	if d.Index != nil {
		httpkit.Get(r, "/index", h.index)
	}
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"ytchat-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Now     string `json:"now"     example:"2026-10-01T13:05:00Z"`
}

// ReadyCheck is one backend probe, status is ok, fail, skipped or unknown
type ReadyCheck struct {
	Name   string `json:"name"            example:"redis"`
	Status string `json:"status"          example:"ok"`
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:6379: connect: connection refused"`
}

// ReadyResponse rolls the checks up into ok, degraded or fail
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"`
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2026-10-01T13:05:00Z"`
}

// ServiceResponse reports uptime in seconds
type ServiceResponse struct {
	Name    string `json:"name"    example:"ytchat-api"`
	Started string `json:"started" example:"2026-10-01T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) stamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// @Summary Liveness
// @Tags Meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(*http.Request) (any, error) {
	return HealthResponse{OK: true, Service: h.deps.ServiceName, Started: h.stamp(h.deps.StartedAt), Now: h.stamp(h.now())}, nil
}

// @Summary Readiness of postgres, clickhouse and redis
// @Tags Meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make([]ReadyCheck, 0, 3)
	for _, b := range []struct {
		name string
		seam any
	}{{"pg", h.deps.PG}, {"ch", h.deps.CH}, {"redis", h.deps.KV}} {
		checks = append(checks, probe(ctx, b.name, b.seam))
	}
	return ReadyResponse{Status: overall(checks), Checks: checks, Now: h.stamp(h.now())}, nil
}

func probe(ctx context.Context, name string, seam any) ReadyCheck {
	c := ReadyCheck{Name: name, Status: "unknown"}
	switch p := seam.(type) {
	case nil:
		c.Status = "skipped"
	case Pinger:
		c.Status = "ok"
		if err := p.Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
		}
	}
	return c
}

// overall is fail when any check failed and degraded when one could not be probed
// skipped backends are disabled on purpose and do not count against readiness
func overall(checks []ReadyCheck) string {
	out := "ok"
	for _, c := range checks {
		switch c.Status {
		case "fail":
			return "fail"
		case "unknown":
			out = "degraded"
		}
	}
	return out
}

// @Summary Build version and commit
// @Tags Meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(*http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name and uptime
// @Tags Meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(*http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.stamp(h.deps.StartedAt),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// @Summary What the vector index holds for a video
// @Tags Meta
// @Produce json
// @Param youtube_url query string true "watch or youtu.be url"
// @Success 200 {object} vidx.Stats
// @Failure 400 {object} httpkit.Envelope
// @Router /meta/index [get]
func (h *handlers) index(r *http.Request) (any, error) {
	id, err := videoref.Resolve(r.URL.Query().Get("youtube_url"))
	if err != nil {
		return nil, err
	}
	return h.deps.Index.Stats(r.Context(), id)
}

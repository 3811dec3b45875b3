package repo

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"ytchat/internal/core/videoref"
	"ytchat/internal/services/vectorindex/domain"
)

// Memory is an in process Repo used when postgres is disabled
// it holds everything in maps and does a linear cosine scan per query
type Memory struct {
	mu     sync.Mutex
	docs   map[videoref.ID]map[int]domain.Document
	leases map[videoref.ID]memLease
	now    func() time.Time
}

type memLease struct {
	holder   string
	state    string
	leasedAt time.Time
	segments int
}

// NewMemory returns an empty in process index
func NewMemory() *Memory {
	return &Memory{
		docs:   map[videoref.ID]map[int]domain.Document{},
		leases: map[videoref.ID]memLease{},
		now:    time.Now,
	}
}

var _ Repo = (*Memory)(nil)

// NamespaceExists implements domain.Index
func (m *Memory) NamespaceExists(_ context.Context, id videoref.ID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[id]) > 0, nil
}

// Upsert implements domain.Index
func (m *Memory) Upsert(_ context.Context, docs []domain.Document) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, d := range docs {
		ns := m.docs[d.VideoID]
		if ns == nil {
			ns = map[int]domain.Document{}
			m.docs[d.VideoID] = ns
		}
		if _, ok := ns[d.Seq]; ok {
			continue
		}
		ns[d.Seq] = d
		n++
	}
	return n, nil
}

// Query implements domain.Index
func (m *Memory) Query(_ context.Context, id videoref.ID, vec []float32, k int) ([]domain.Match, error) {
	if k <= 0 {
		k = domain.DefaultTopK
	}
	m.mu.Lock()
	out := make([]domain.Match, 0, len(m.docs[id]))
	for _, d := range m.docs[id] {
		out = append(out, domain.Match{Seq: d.Seq, Segment: d.Segment, Score: cosine(vec, d.Embedding)})
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Seq < out[j].Seq
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Acquire implements domain.Lease
func (m *Memory) Acquire(_ context.Context, id videoref.ID, holder string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if l, ok := m.leases[id]; ok {
		if l.state != domain.StateRunning || now.Sub(l.leasedAt) < ttl {
			return false, nil
		}
	}
	m.leases[id] = memLease{holder: holder, state: domain.StateRunning, leasedAt: now}
	return true, nil
}

// Complete implements domain.Lease
func (m *Memory) Complete(_ context.Context, id videoref.ID, holder string, segments int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leases[id]; ok && l.holder == holder {
		l.state, l.segments = domain.StateDone, segments
		m.leases[id] = l
	}
	return nil
}

// Release implements domain.Lease
func (m *Memory) Release(_ context.Context, id videoref.ID, holder string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leases[id]; ok && l.holder == holder && l.state == domain.StateRunning {
		delete(m.leases, id)
	}
	return nil
}

// Stats implements domain.Prober
func (m *Memory) Stats(_ context.Context, id videoref.ID) (domain.Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.docs[id])
	return domain.Stats{VideoID: id, Exists: n > 0, Segments: n, State: m.leases[id].state}, nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

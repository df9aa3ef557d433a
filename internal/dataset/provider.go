package dataset

import (
	"sync/atomic"
	"time"

	"insights/internal/model"
)

// Snapshot is an immutable view of the dataset at one point in time
type Snapshot struct {
	Records  []model.Record
	Source   string
	LoadedAt time.Time
}

// Areas returns the distinct area names in first-seen order
func (s *Snapshot) Areas() []string {
	return DistinctAreas(s.Records)
}

// Provider hands out the current dataset snapshot. Replacing the dataset swaps
// the whole snapshot so in-flight readers keep a consistent view.
type Provider struct {
	current atomic.Pointer[Snapshot]
}

// NewProvider creates a provider seeded with records
func NewProvider(records []model.Record, source string) *Provider {
	p := &Provider{}
	p.Replace(records, source)
	return p
}

// Snapshot returns the current dataset
func (p *Provider) Snapshot() *Snapshot {
	return p.current.Load()
}

// Records returns the current record slice. Callers must not modify it.
func (p *Provider) Records() []model.Record {
	return p.Snapshot().Records
}

// Replace installs a new dataset. The slice is copied so later changes by the
// caller are not visible to readers.
func (p *Provider) Replace(records []model.Record, source string) *Snapshot {
	snap := &Snapshot{
		Records:  append([]model.Record(nil), records...),
		Source:   source,
		LoadedAt: time.Now(),
	}
	p.current.Store(snap)
	return snap
}

// DistinctAreas returns area names in first-seen order, deduplicated case-insensitively
func DistinctAreas(records []model.Record) []string {
	seen := make(map[string]bool)
	areas := []string{}
	for _, r := range records {
		key := r.AreaKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		areas = append(areas, r.Area)
	}
	return areas
}

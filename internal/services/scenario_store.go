package services

import (
	"errors"
	"sync"
	"time"

	"revforecast-api/internal/models"
)

var ErrScenarioNotFound = errors.New("scenario not found")

// ScenarioStore keeps named snapshots for one session, in insertion order.
// Saving under an existing name replaces the snapshot in place.
type ScenarioStore struct {
	mu        sync.RWMutex
	order     []string
	snapshots map[string]models.Snapshot
	now       func() time.Time
}

func NewScenarioStore() *ScenarioStore {
	return &ScenarioStore{
		snapshots: make(map[string]models.Snapshot),
		now:       time.Now,
	}
}

// Save freezes cfg and projection under name and returns the stored copy.
func (s *ScenarioStore) Save(name string, cfg models.ScenarioConfig, mixCurve []float64, projection *models.Projection) models.Snapshot {
	snap := cloneSnapshot(models.Snapshot{
		Name:       name,
		Config:     cfg,
		MixCurve:   mixCurve,
		Projection: *projection,
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	snap.SavedAt = s.now()
	if _, exists := s.snapshots[name]; !exists {
		s.order = append(s.order, name)
	}
	s.snapshots[name] = snap
	return cloneSnapshot(snap)
}

// Put stores an already-built snapshot, e.g. one restored from the archive.
func (s *ScenarioStore) Put(snap models.Snapshot) {
	snap = cloneSnapshot(snap)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.snapshots[snap.Name]; !exists {
		s.order = append(s.order, snap.Name)
	}
	s.snapshots[snap.Name] = snap
}

// List returns scenario names in the order they were first saved.
func (s *ScenarioStore) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.order))
	copy(names, s.order)
	return names
}

func (s *ScenarioStore) Get(name string) (models.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.snapshots[name]
	if !ok {
		return models.Snapshot{}, ErrScenarioNotFound
	}
	return cloneSnapshot(snap), nil
}

func (s *ScenarioStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snapshots[name]; !ok {
		return ErrScenarioNotFound
	}
	delete(s.snapshots, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *ScenarioStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// cloneSnapshot copies every slice and pointer so callers never share
// memory with a stored snapshot.
func cloneSnapshot(in models.Snapshot) models.Snapshot {
	out := in
	out.Config = cloneConfig(in.Config)
	if in.MixCurve != nil {
		out.MixCurve = append([]float64(nil), in.MixCurve...)
	}
	if in.Projection.Rows != nil {
		out.Projection.Rows = append([]models.ProjectionRow(nil), in.Projection.Rows...)
	}
	if in.Projection.Warnings != nil {
		out.Projection.Warnings = append([]models.Warning(nil), in.Projection.Warnings...)
	}
	return out
}

func cloneConfig(in models.ScenarioConfig) models.ScenarioConfig {
	out := in
	if in.BaselineProfit != nil {
		v := *in.BaselineProfit
		out.BaselineProfit = &v
	}
	if in.Pricing.DesignMarginPct != nil {
		v := *in.Pricing.DesignMarginPct
		out.Pricing.DesignMarginPct = &v
	}
	return out
}

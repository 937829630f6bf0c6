package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"revforecast-api/internal/config"
	"revforecast-api/internal/models"
	"revforecast-api/internal/presets"
	"revforecast-api/internal/projection"
)

var ErrBatchTooLarge = errors.New("batch too large")

// ForecastService ties the projection engine to session stores, the
// archive and the preset catalog.
type ForecastService struct {
	config   *config.Config
	sessions *SessionRegistry
	archive  ScenarioArchive
	batch    *BatchProjector
	presets  *presets.Catalog
	logger   *logrus.Logger
}

func NewForecastService(
	cfg *config.Config,
	sessions *SessionRegistry,
	archive ScenarioArchive,
	catalog *presets.Catalog,
	logger *logrus.Logger,
) *ForecastService {
	return &ForecastService{
		config:   cfg,
		sessions: sessions,
		archive:  archive,
		batch:    NewBatchProjector(cfg.MaxConcurrentProjections),
		presets:  catalog,
		logger:   logger,
	}
}

// Project runs the engine for one request
func (s *ForecastService) Project(req models.ProjectionRequest) (*models.Projection, error) {
	p, err := projection.ProjectRequest(req)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"horizon_years": req.Config.HorizonYears,
		"volume_model":  req.Config.VolumeModel,
		"warnings":      len(p.Warnings),
	}).Debug("projection computed")
	return p, nil
}

// Compare projects the unshifted baseline and the requested scenario and
// diffs them.
func (s *ForecastService) Compare(req models.ProjectionRequest) (models.Comparison, error) {
	return projection.CompareShift(req)
}

// ProjectBatch runs every item of a batch request. Items failing check are
// reported in their result instead of being projected.
func (s *ForecastService) ProjectBatch(ctx context.Context, req models.BatchRequest, check RequestCheck) (*models.BatchResponse, error) {
	if len(req.Items) > s.config.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d items, limit is %d", ErrBatchTooLarge, len(req.Items), s.config.MaxBatchSize)
	}

	results, err := s.batch.Run(ctx, req.Items, check)
	if err != nil {
		return nil, fmt.Errorf("failed to run batch: %w", err)
	}

	return &models.BatchResponse{
		Results:     results,
		GeneratedAt: time.Now(),
	}, nil
}

// SaveScenario projects the request and stores the result under name,
// replacing any earlier snapshot with that name.
func (s *ForecastService) SaveScenario(sessionID, name string, req models.ProjectionRequest) (models.Snapshot, error) {
	p, err := projection.ProjectRequest(req)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap := s.sessions.Store(sessionID).Save(name, req.Config, req.MixCurve, p)
	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   name,
	}).Info("scenario saved")
	return snap, nil
}

func (s *ForecastService) ListScenarios(sessionID string) []string {
	store, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return []string{}
	}
	return store.List()
}

func (s *ForecastService) GetScenario(sessionID, name string) (models.Snapshot, error) {
	store, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return models.Snapshot{}, ErrScenarioNotFound
	}
	return store.Get(name)
}

func (s *ForecastService) DeleteScenario(sessionID, name string) error {
	store, ok := s.sessions.Lookup(sessionID)
	if !ok {
		return ErrScenarioNotFound
	}
	if err := store.Delete(name); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   name,
	}).Info("scenario deleted")
	return nil
}

// ExportScenario writes a saved snapshot to the archive
func (s *ForecastService) ExportScenario(ctx context.Context, sessionID, name string) error {
	snap, err := s.GetScenario(sessionID, name)
	if err != nil {
		return err
	}
	return s.archive.Export(ctx, sessionID, snap)
}

// ImportScenario restores an archived snapshot into the session's store
func (s *ForecastService) ImportScenario(ctx context.Context, sessionID, name string) (models.Snapshot, error) {
	snap, err := s.archive.Import(ctx, sessionID, name)
	if err != nil {
		return models.Snapshot{}, err
	}

	snap.Name = name
	s.sessions.Store(sessionID).Put(snap)
	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"scenario":   name,
	}).Info("scenario imported")
	return snap, nil
}

func (s *ForecastService) Presets() []presets.Preset {
	return s.presets.All()
}

func (s *ForecastService) Preset(name string) (presets.Preset, error) {
	return s.presets.Get(name)
}

// RefreshSessions drops idle session stores
func (s *ForecastService) RefreshSessions() int {
	return s.sessions.Purge()
}

func (s *ForecastService) ActiveSessions() int {
	return s.sessions.Active()
}

func (s *ForecastService) ArchiveEnabled() bool {
	return s.archive.Enabled()
}

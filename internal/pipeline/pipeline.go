// Package pipeline runs the image to mesh conversion end to end.
//
// A run decodes the input, classifies it, resolves the depth strategy for
// the category, estimates a height field, builds the mesh and, when asked,
// the analysis report. Every entry point goes through the same resolve
// step, so the strategy choice for a category is made in one place.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/heightmesh/internal/analysis"
	"github.com/ironsheep/heightmesh/internal/classify"
	"github.com/ironsheep/heightmesh/internal/config"
	"github.com/ironsheep/heightmesh/internal/depth"
	"github.com/ironsheep/heightmesh/internal/detection"
	apperrors "github.com/ironsheep/heightmesh/internal/errors"
	"github.com/ironsheep/heightmesh/internal/imaging"
	"github.com/ironsheep/heightmesh/internal/journal"
	"github.com/ironsheep/heightmesh/internal/logger"
	"github.com/ironsheep/heightmesh/internal/mesh"
)

// Journal stage names.
const (
	StageClassify      = "classify"
	StageEstimateDepth = "estimate_depth"
	StageBuildMesh     = "build_mesh"
	StageAnalyze       = "analyze"
)

// Result is everything one run produced.
type Result struct {
	Category classify.Category `json:"category"`
	Signals  classify.Signals  `json:"signals"`

	// Strategy names the depth strategy that produced Field.
	Strategy string         `json:"strategy"`
	Field    *imaging.Field `json:"-"`
	Mesh     *mesh.Mesh     `json:"mesh"`

	// Report is nil unless the run asked for analysis.
	Report *analysis.Report `json:"analysis,omitempty"`
}

// Pipeline wires the classifier, estimator, builder and reporter together.
// It keeps no state between runs and is safe for concurrent use.
type Pipeline struct {
	classifier *classify.Classifier
	estimator  *depth.Estimator
	builder    *mesh.Builder
	reporter   *analysis.Reporter
	journal    *journal.Store
	defaults   config.Settings
	detectors  map[string]detection.Detector
}

// New creates a Pipeline with the built-in detectors configured by cfg.
// A nil cfg uses DefaultConfig.
func New(cfg *config.Config) *Pipeline {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	detectors := analysis.DefaultDetectors(cfg.Detectors.FaceCascadePath, cfg.Detectors.OCRLanguage)
	p := NewWithComponents(
		classify.NewClassifier(cfg.Thresholds, classify.DefaultDetectors(cfg.Detectors.FaceCascadePath)),
		depth.NewEstimator(depth.NewRegistry(nil)),
		analysis.NewReporter(detectors, cfg.Detectors.MinObjectArea),
		cfg.Settings,
	)
	p.WithDetector(FeatureFaces, detectors.Faces).
		WithDetector(FeaturePeople, detectors.People).
		WithDetector(FeatureObjects, detectors.Contours).
		WithDetector(FeatureText, detectors.Text)
	return p
}

// NewWithComponents creates a Pipeline from explicit collaborators. defaults
// fills any setting a caller leaves unset.
func NewWithComponents(classifier *classify.Classifier, estimator *depth.Estimator, reporter *analysis.Reporter, defaults config.Settings) *Pipeline {
	if estimator == nil {
		estimator = depth.NewEstimator(nil)
	}
	return &Pipeline{
		classifier: classifier,
		estimator:  estimator,
		builder:    mesh.NewBuilder(),
		reporter:   reporter,
		defaults:   defaults.WithDefaults(),
		detectors:  make(map[string]detection.Detector),
	}
}

// Features served by Detect.
const (
	FeatureFaces   = "faces"
	FeaturePeople  = "people"
	FeatureObjects = "objects"
	FeatureText    = "text"
)

// WithDetector installs d as the detector for feature. Passing nil removes
// it.
func (p *Pipeline) WithDetector(feature string, d detection.Detector) *Pipeline {
	if d == nil {
		delete(p.detectors, feature)
		return p
	}
	p.detectors[feature] = d
	return p
}

// Detect decodes data and runs the detector installed for feature. A
// detector that cannot run yields no boxes rather than an error; an unknown
// feature is a validation error.
func (p *Pipeline) Detect(ctx context.Context, data []byte, feature string) ([]detection.Box, error) {
	d, ok := p.detectors[feature]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown feature %q", feature), nil)
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	boxes := detection.Safe(d, img)
	if boxes == nil {
		boxes = []detection.Box{}
	}
	return boxes, nil
}

// WithJournal attaches a journal; every stage of later runs is recorded in
// it. Passing nil detaches it.
func (p *Pipeline) WithJournal(j *journal.Store) *Pipeline {
	p.journal = j
	return p
}

// Registry exposes the depth strategy registry so callers can install
// category strategies.
func (p *Pipeline) Registry() *depth.Registry {
	return p.estimator.Registry()
}

// resolve is the single place a category is mapped to a depth strategy.
func (p *Pipeline) resolve(category classify.Category) depth.Strategy {
	return p.estimator.Registry().Resolve(category)
}

// GenerateMesh converts image bytes into a mesh.
func (p *Pipeline) GenerateMesh(ctx context.Context, data []byte, settings config.Settings) (*Result, error) {
	return p.run(ctx, data, settings, false)
}

// Analyze converts image bytes into a mesh and its analysis report.
func (p *Pipeline) Analyze(ctx context.Context, data []byte, settings config.Settings) (*Result, error) {
	return p.run(ctx, data, settings, true)
}

// Run is Analyze with analysis optional.
func (p *Pipeline) Run(ctx context.Context, data []byte, settings config.Settings, withAnalysis bool) (*Result, error) {
	return p.run(ctx, data, settings, withAnalysis)
}

func (p *Pipeline) run(ctx context.Context, data []byte, settings config.Settings, withAnalysis bool) (*Result, error) {
	settings = settings.Merge(p.defaults)
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{}

	err = p.stage(ctx, StageClassify, nil, func() (map[string]any, error) {
		res.Category, res.Signals = p.classifier.ClassifyWithSignals(img)
		return map[string]any{"category": res.Category, "signals": res.Signals}, nil
	})
	if err != nil {
		return nil, err
	}

	strategy := p.resolve(res.Category)
	params := depth.Params{DetailLevel: settings.DetailLevel, Sensitivity: settings.Sensitivity}
	err = p.stage(ctx, StageEstimateDepth, map[string]any{
		"category":     res.Category,
		"strategy":     strategy.Name(),
		"detail_level": params.DetailLevel,
		"sensitivity":  params.Sensitivity,
	}, func() (map[string]any, error) {
		est, err := p.estimator.Run(strategy, img, params)
		if err != nil {
			return nil, apperrors.NewProcessingError("depth estimation failed", err)
		}
		res.Field = est.Field
		res.Strategy = est.Strategy
		return map[string]any{"strategy": est.Strategy, "fell_back": est.FellBack}, nil
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageBuildMesh, map[string]any{
		"polygons":                settings.Polygons,
		"color_mode":              settings.ColorMode,
		"discontinuity_threshold": settings.DiscontinuityThreshold,
	}, func() (map[string]any, error) {
		m, err := p.builder.Build(res.Field, img, settings, res.Category)
		if err != nil {
			return nil, apperrors.NewProcessingError("mesh building failed", err)
		}
		res.Mesh = m
		return map[string]any{
			"vertices_count": m.Metadata.VerticesCount,
			"faces_count":    m.Metadata.FacesCount,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	if withAnalysis && p.reporter != nil {
		err = p.stage(ctx, StageAnalyze, nil, func() (map[string]any, error) {
			res.Report = p.reporter.Report(img, res.Category, res.Mesh.Metadata)
			return map[string]any{"objects_detected": res.Report.Analysis.ObjectsDetected}, nil
		})
		if err != nil {
			return nil, err
		}
	}

	logger.WithFields(logrus.Fields{
		"category": res.Category,
		"strategy": res.Strategy,
		"vertices": res.Mesh.Metadata.VerticesCount,
		"faces":    res.Mesh.Metadata.FacesCount,
	}).Info("pipeline run complete")

	return res, nil
}

// Classify decodes data and returns its category without building a mesh.
func (p *Pipeline) Classify(ctx context.Context, data []byte) (classify.Category, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return p.classifier.Classify(img), nil
}

// EstimateDepth decodes data, classifies it and returns its height field.
func (p *Pipeline) EstimateDepth(ctx context.Context, data []byte, settings config.Settings) (*imaging.Field, classify.Category, error) {
	settings = settings.Merge(p.defaults)
	if err := settings.Validate(); err != nil {
		return nil, "", err
	}
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, "", err
	}
	category := p.classifier.Classify(img)
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	est, err := p.estimator.Run(p.resolve(category), img,
		depth.Params{DetailLevel: settings.DetailLevel, Sensitivity: settings.Sensitivity})
	if err != nil {
		return nil, "", apperrors.NewProcessingError("depth estimation failed", err)
	}
	return est.Field, category, nil
}

// stage runs fn after checking ctx, and journals the outcome when a journal
// is attached. Results fn returns are merged into the journaled parameters.
func (p *Pipeline) stage(ctx context.Context, name string, params map[string]any, fn func() (map[string]any, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	out, err := fn()
	elapsed := time.Since(start)

	logger.WithFields(logrus.Fields{
		"stage":      name,
		"elapsed_ms": elapsed.Milliseconds(),
		"success":    err == nil,
	}).Debug("pipeline stage finished")

	if p.journal == nil {
		return err
	}

	if params == nil {
		params = map[string]any{}
	}
	for k, v := range out {
		params[k] = v
	}
	op := journal.Operation{
		Timestamp:       start,
		Algorithm:       name,
		Parameters:      params,
		Success:         err == nil,
		ExecutionTimeMs: elapsed.Milliseconds(),
	}
	if err != nil {
		op.ErrorMessage = err.Error()
	}
	if _, jerr := p.journal.Record(ctx, op); jerr != nil {
		logger.WithError(jerr).WithField("stage", name).Warn("failed to journal pipeline stage")
	}
	return err
}

// ErrorPayload is the payload returned instead of a mesh or report when a
// run fails.
type ErrorPayload struct {
	Error string `json:"error"`
}

// NewErrorPayload renders err as an ErrorPayload.
func NewErrorPayload(err error) ErrorPayload {
	if err == nil {
		return ErrorPayload{Error: "unknown error"}
	}
	return ErrorPayload{Error: err.Error()}
}

// MarshalError renders err as the JSON error payload {"error": "..."}.
func MarshalError(err error) []byte {
	data, _ := json.Marshal(NewErrorPayload(err))
	return data
}

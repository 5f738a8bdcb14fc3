// Package analysis owns a triage session over one record set and synthesizes
// threat reports from the correlation and scoring engines.
package analysis

import (
	"go.uber.org/zap"

	"github.com/forensica/triage/internal/classify"
	"github.com/forensica/triage/internal/config"
	"github.com/forensica/triage/internal/correlate"
	"github.com/forensica/triage/internal/detect"
	"github.com/forensica/triage/internal/graph"
	"github.com/forensica/triage/internal/models"
	"github.com/forensica/triage/internal/similarity"
)

// Session holds one record set and its derived analysis state. The tag index
// and relationship graph are computed lazily on first use and cached for the
// session; replacing the record set invalidates both. A session is used by
// one caller at a time and performs no I/O.
type Session struct {
	logger     *zap.Logger
	classifier *classify.Classifier
	detector   *detect.Detector
	analyzer   *similarity.Analyzer
	topCentral int

	records      []models.Record
	partition    *classify.Partition
	correlations *correlate.Correlations
	relGraph     *graph.Graph
}

// NewSession creates an empty session. A nil cfg selects defaults; a nil
// logger disables logging.
func NewSession(cfg *config.AnalysisConfig, logger *zap.Logger) *Session {
	if cfg == nil {
		cfg = &config.AnalysisConfig{}
	}
	threshold := cfg.SimilarityThreshold
	topCentral := cfg.TopCentralNodes
	if topCentral <= 0 {
		topCentral = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		logger:     logger,
		classifier: classify.NewClassifier(),
		detector:   detect.NewDetector(),
		analyzer:   similarity.NewAnalyzer(threshold),
		topCentral: topCentral,
	}
}

// SetRecords replaces the session's record set, classifies it, and invalidates
// all cached analysis state. A malformed record aborts with no state change.
func (s *Session) SetRecords(records []models.Record) error {
	partition, err := s.classifier.Classify(records)
	if err != nil {
		return err
	}
	s.records = records
	s.partition = partition
	s.Invalidate()

	s.logger.Info("records loaded",
		zap.Int("total", len(records)),
		zap.Int("threats", len(partition.Threat)),
		zap.Int("safe", len(partition.Safe)),
	)
	return nil
}

// Invalidate discards the cached tag index and relationship graph. They are
// rebuilt lazily on next use.
func (s *Session) Invalidate() {
	s.correlations = nil
	s.relGraph = nil
}

// Records returns the session's record set.
func (s *Session) Records() []models.Record {
	return s.records
}

// Partition returns the threat/safe partition computed by SetRecords, or nil
// if no records are loaded.
func (s *Session) Partition() *classify.Partition {
	return s.partition
}

// Correlations returns the tag correlation results, computing and caching
// them on first use.
func (s *Session) Correlations() *correlate.Correlations {
	if s.correlations == nil {
		s.correlations = correlate.Analyze(s.records)
		s.logger.Debug("tag correlations computed",
			zap.Int("shared_tags", len(s.correlations.SharedTags)),
			zap.Int("cooccurring_pairs", len(s.correlations.Cooccurrence)),
		)
	}
	return s.correlations
}

// Graph returns the file/tag relationship graph, computing and caching it on
// first use.
func (s *Session) Graph() *graph.Graph {
	if s.relGraph == nil {
		s.relGraph = graph.Build(s.records, s.isThreat)
		s.logger.Debug("relationship graph built",
			zap.Int("nodes", s.relGraph.NodeCount()),
			zap.Int("edges", s.relGraph.EdgeCount()),
		)
	}
	return s.relGraph
}

// Similarities computes the pairwise content-similarity edges for the record
// set. The scan is quadratic and recomputed per call.
func (s *Session) Similarities() []models.SimilarityEdge {
	return s.analyzer.Compare(s.records)
}

// AnalyzeTexts runs keyword/entity detection on every record's text.
func (s *Session) AnalyzeTexts() []models.TextAnalysis {
	out := make([]models.TextAnalysis, 0, len(s.records))
	for i := range s.records {
		out = append(out, s.detector.Analyze(s.records[i].Path, s.records[i].Text()))
	}
	return out
}

func (s *Session) isThreat(i int) bool {
	return s.partition != nil && s.partition.IsThreat(i)
}

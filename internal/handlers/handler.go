package handlers

import (
	"github.com/soltixdb/statcalc/internal/compression"
	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/queue"
	"github.com/soltixdb/statcalc/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger   *logging.Logger
	analysis *services.AnalysisService

	// Job submission; nil publisher disables /v1/jobs
	queuePublisher queue.Publisher
	compressor     compression.Compressor
	requestSubject string
}

// New creates a new handler instance. Jobs are framed with the worker's
// compression so either side can be reconfigured independently.
func New(logger *logging.Logger, analysis *services.AnalysisService,
	queuePublisher queue.Publisher, workerCfg config.WorkerConfig,
) (*Handler, error) {
	algo, err := compression.ParseAlgorithm(workerCfg.Compression)
	if err != nil {
		return nil, err
	}
	compressor, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}

	return &Handler{
		logger:         logger,
		analysis:       analysis,
		queuePublisher: queuePublisher,
		compressor:     compressor,
		requestSubject: workerCfg.RequestSubject,
	}, nil
}

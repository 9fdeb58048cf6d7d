// Package worker consumes analysis jobs from the queue and publishes one
// reply per job.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/soltixdb/statcalc/internal/compression"
	"github.com/soltixdb/statcalc/internal/config"
	"github.com/soltixdb/statcalc/internal/logging"
	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/queue"
	"github.com/soltixdb/statcalc/internal/services"
	"github.com/soltixdb/statcalc/internal/utils"
)

// Worker runs queued jobs against an AnalysisService
type Worker struct {
	logger     *logging.Logger
	queue      queue.Queue
	analysis   *services.AnalysisService
	compressor compression.Compressor
	cfg        config.WorkerConfig
}

// New creates a worker. Replies are compressed with the configured
// algorithm; requests are accepted in any framing.
func New(q queue.Queue, analysis *services.AnalysisService, cfg config.WorkerConfig, logger *logging.Logger) (*Worker, error) {
	if q == nil {
		return nil, fmt.Errorf("queue is nil")
	}
	if analysis == nil {
		return nil, fmt.Errorf("analysis service is nil")
	}
	if logger == nil {
		logger = logging.Global()
	}

	algo, err := compression.ParseAlgorithm(cfg.Compression)
	if err != nil {
		return nil, err
	}
	compressor, err := compression.GetCompressor(algo)
	if err != nil {
		return nil, err
	}

	return &Worker{
		logger:     logger,
		queue:      q,
		analysis:   analysis,
		compressor: compressor,
		cfg:        cfg,
	}, nil
}

// Start subscribes to the request subject
func (w *Worker) Start() error {
	if err := w.queue.Subscribe(w.cfg.RequestSubject, w.handleJobMessage); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", w.cfg.RequestSubject, err)
	}
	w.logger.Info("Worker subscribed",
		"request_subject", w.cfg.RequestSubject,
		"reply_subject", w.cfg.ReplySubject,
		"compression", w.compressor.Algorithm().String())
	return nil
}

// Stop unsubscribes from the request subject. The queue itself is closed
// by its owner.
func (w *Worker) Stop() error {
	if err := w.queue.Unsubscribe(w.cfg.RequestSubject); err != nil {
		return err
	}
	w.logger.Info("Worker stopped")
	return nil
}

// handleJobMessage runs one job. Messages that cannot be parsed are
// dropped; a job with an id always gets a reply, failed or not. Only a
// failed reply publish asks for redelivery.
func (w *Worker) handleJobMessage(ctx context.Context, data []byte) error {
	payload, err := compression.Decode(data)
	if err != nil {
		w.logger.Error("Failed to decode job payload", "error", err, "data_len", len(data))
		return queue.Permanent(err)
	}

	var req models.JobRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		w.logger.Error("Failed to parse job message",
			"error", err,
			"data_preview", string(payload[:min(200, len(payload))]))
		return queue.Permanent(err)
	}
	if req.ID == "" {
		w.logger.Error("Dropping job without id", "operation", req.Operation)
		return queue.Permanent(errors.New("job without id"))
	}

	ctx = logging.WithLogger(logging.WithMessageID(ctx, req.ID), w.logger)

	var reply models.JobReply
	if err := req.Validate(); err != nil {
		reply = models.NewJobError(req, err.Error())
	} else {
		jobCtx, cancel := context.WithTimeout(ctx, utils.JobTimeout)
		result, err := Dispatch(jobCtx, w.analysis, req)
		cancel()
		if err != nil {
			reply = models.NewJobError(req, err.Error())
		} else {
			reply = models.NewJobResult(req, result)
		}
	}

	if !reply.Success {
		logging.Ctx(ctx).Warn("Job failed", "operation", req.Operation, "error", reply.Error)
	}
	return w.publishReply(ctx, reply)
}

// publishReply frames and publishes reply. On a backend that knows the
// reply subject has no consumer, the reply is dropped.
func (w *Worker) publishReply(ctx context.Context, reply models.JobReply) error {
	if l, ok := w.queue.(queue.Listener); ok && !l.HasSubscriber(w.cfg.ReplySubject) {
		logging.Ctx(ctx).Debug("No reply consumer, dropping reply", "reply_subject", w.cfg.ReplySubject)
		return nil
	}
	body, err := json.Marshal(reply)
	if err != nil {
		return queue.Permanent(fmt.Errorf("failed to encode reply: %w", err))
	}
	framed, err := compression.Encode(w.compressor, body)
	if err != nil {
		return queue.Permanent(err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, utils.ReplyTimeout)
	defer cancel()
	if err := w.queue.Publish(pubCtx, w.cfg.ReplySubject, framed); err != nil {
		logging.Ctx(ctx).Error("Failed to publish reply", "error", err)
		return err
	}

	logging.Ctx(ctx).Debug("Job completed", "operation", reply.Operation, "success", reply.Success)
	return nil
}

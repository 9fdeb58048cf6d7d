package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/soltixdb/statcalc/internal/compression"
	"github.com/soltixdb/statcalc/internal/models"
	"github.com/soltixdb/statcalc/internal/queue"
	"github.com/soltixdb/statcalc/internal/utils"
)

// MaxJobBatch bounds the number of jobs in one batch submission
const MaxJobBatch = 1000

// QueueUnavailableMessage is returned when no queue is configured
const QueueUnavailableMessage = "Job queue is not configured"

// SubmitJob handles POST /v1/jobs. The job is queued for the worker, whose
// reply is published on the reply subject under the same id.
func (h *Handler) SubmitJob(c *fiber.Ctx) error {
	if h.queuePublisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.NewErrorResponse(QueueUnavailableMessage))
	}

	var job models.JobRequest
	if err := parseBody(c, &job); err != nil {
		return invalidJSON(c, err)
	}

	data, err := h.prepareJob(&job)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.PublishTimeout)
	defer cancel()

	if err := h.queuePublisher.Publish(ctx, h.requestSubject, data); err != nil {
		h.logger.WithContext(ctx).Error("Failed to publish job", "job_id", job.ID, "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.NewErrorResponse("Failed to queue job"))
	}

	h.logger.WithContext(ctx).Debug("Job queued", "job_id", job.ID, "operation", job.Operation)
	return c.Status(fiber.StatusAccepted).JSON(models.JobAccepted{
		ID:      job.ID,
		Subject: h.requestSubject,
		Status:  "queued",
	})
}

// SubmitJobBatch handles POST /v1/jobs/batch with a JSON array of jobs. The
// whole batch is rejected if any job is invalid.
func (h *Handler) SubmitJobBatch(c *fiber.Ctx) error {
	if h.queuePublisher == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.NewErrorResponse(QueueUnavailableMessage))
	}

	var jobs []models.JobRequest
	if err := parseBody(c, &jobs); err != nil {
		return invalidJSON(c, err)
	}
	if len(jobs) == 0 {
		return badRequest(c, "batch is empty")
	}
	if len(jobs) > MaxJobBatch {
		return badRequest(c, fmt.Sprintf("batch exceeds %d jobs", MaxJobBatch))
	}

	messages := make([]queue.BatchMessage, len(jobs))
	ids := make([]string, len(jobs))
	for i := range jobs {
		data, err := h.prepareJob(&jobs[i])
		if err != nil {
			return badRequest(c, fmt.Sprintf("job %d: %v", i, err))
		}
		messages[i] = queue.BatchMessage{Subject: h.requestSubject, Data: data}
		ids[i] = jobs[i].ID
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), utils.PublishTimeout)
	defer cancel()

	accepted, err := h.queuePublisher.PublishBatch(ctx, messages)
	if err != nil {
		h.logger.WithContext(ctx).Error("Failed to publish job batch", "jobs", len(jobs), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.NewErrorResponse("Failed to queue jobs"))
	}

	h.logger.WithContext(ctx).Debug("Job batch queued", "jobs", len(jobs), "accepted", accepted)
	return c.Status(fiber.StatusAccepted).JSON(models.JobBatchAccepted{
		IDs:      ids,
		Accepted: accepted,
		Subject:  h.requestSubject,
	})
}

// prepareJob assigns a missing id, validates the envelope and frames it
func (h *Handler) prepareJob(job *models.JobRequest) ([]byte, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if err := job.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(job)
	if err != nil {
		return nil, err
	}
	return compression.Encode(h.compressor, body)
}

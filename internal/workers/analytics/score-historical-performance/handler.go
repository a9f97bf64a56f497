// internal/workers/analytics/score-historical-performance/handler.go
package scorehistoricalperformance

import (
	"context"
	"time"

	"jobsearch-analytics/internal/analytics/historical"
	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/errors"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "score-historical-performance"
)

type Handler struct {
	config    *Config
	service   *historical.Service
	validator *validation.SchemaValidator
	responder *camunda.Responder
	clock     func() time.Time
	logger    logger.Logger
}

func NewHandler(config *Config, service *historical.Service, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		service:   service,
		validator: validator,
		responder: camunda.NewResponder(TaskType, obs, log),
		clock:     time.Now,
		logger:    log,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := camunda.DecodeVariables(job, TaskType, h.validator, &input); err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.responder.Fail(ctx, client, job, err)
		return
	}

	h.responder.Complete(ctx, client, job, output)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.UserID == "" {
		return nil, errors.NewInvalidInputError("userId is required")
	}
	now, err := camunda.ResolveNow(input.AsOf, h.clock)
	if err != nil {
		return nil, err
	}

	res := h.service.Score(ctx, input.UserID, now)

	h.logger.Info("historical performance scored", map[string]interface{}{
		"userId": input.UserID,
		"score":  res.Score,
		"status": res.Status,
		"trend":  res.Trend,
	})

	return &Output{HistoricalPerformance: res}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

// internal/workers/analytics/synthesize-recommendations/handler.go
package synthesizerecommendations

import (
	"context"

	"jobsearch-analytics/internal/analytics/recommendation"
	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"
	"jobsearch-analytics/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "synthesize-recommendations"
)

type Handler struct {
	config    *Config
	validator *validation.SchemaValidator
	responder *camunda.Responder
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validation.SchemaValidator, obs *observability.Observability, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		validator: validator,
		responder: camunda.NewResponder(TaskType, obs, log),
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	recs := recommendation.Synthesize(input.OverallProbability, input.OverallConfidence, input.Factors)
	if recs == nil {
		recs = []models.Recommendation{}
	}

	h.logger.Info("recommendations synthesized", map[string]interface{}{
		"factors": len(input.Factors),
		"count":   len(recs),
	})

	return &Output{
		Recommendations:     recs,
		RecommendationCount: len(recs),
	}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

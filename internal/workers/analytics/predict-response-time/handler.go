// internal/workers/analytics/predict-response-time/handler.go
package predictresponsetime

import (
	"context"
	stderrors "errors"
	"time"

	"jobsearch-analytics/internal/analytics/responsetime"
	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/errors"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "predict-response-time"
)

type ApplicationReader interface {
	GetApplication(ctx context.Context, userID, applicationID string) (*models.Application, error)
}

type Handler struct {
	config       *Config
	applications ApplicationReader
	predictor    *responsetime.Predictor
	validator    *validation.SchemaValidator
	responder    *camunda.Responder
	clock        func() time.Time
	logger       logger.Logger
}

func NewHandler(
	config *Config,
	applications ApplicationReader,
	predictor *responsetime.Predictor,
	validator *validation.SchemaValidator,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		applications: applications,
		predictor:    predictor,
		validator:    validator,
		responder:    camunda.NewResponder(TaskType, obs, log),
		clock:        time.Now,
		logger:       log,
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
	if input.Application == nil && input.ApplicationID == "" {
		return nil, errors.NewInvalidInputError("applicationId or application is required")
	}
	now, err := camunda.ResolveNow(input.AsOf, h.clock)
	if err != nil {
		return nil, err
	}

	app, err := h.loadApplication(ctx, input)
	if err != nil {
		return nil, err
	}

	prediction, err := h.predictor.Predict(ctx, *app, now)
	if err != nil {
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, errors.NewQueryTimeoutError(string(models.QueryTypeCohortResponseStats))
		}
		if stdErr, ok := errors.AsStandardError(err); ok {
			return nil, stdErr.WithMetadata("applicationId", app.ID)
		}
		return nil, errors.NewCohortLookupFailedError(app.CohortKey().String(), err).
			WithMetadata("applicationId", app.ID)
	}

	fields := map[string]interface{}{
		"userId":        input.UserID,
		"applicationId": app.ID,
		"hasPrediction": prediction != nil,
	}
	if prediction != nil {
		fields["lowerDays"] = prediction.LowerDays
		fields["upperDays"] = prediction.UpperDays
		fields["isOverdue"] = prediction.IsOverdue
	}
	h.logger.Info("response time predicted", fields)

	return &Output{
		HasPrediction:          prediction != nil,
		ResponseTimePrediction: prediction,
	}, nil
}

func (h *Handler) loadApplication(ctx context.Context, input *Input) (*models.Application, error) {
	if input.Application != nil {
		app := *input.Application
		if app.UserID == "" {
			app.UserID = input.UserID
		}
		return &app, nil
	}

	app, err := h.applications.GetApplication(ctx, input.UserID, input.ApplicationID)
	switch {
	case err == nil:
		return app, nil
	case repository.IsNotFound(err):
		return nil, errors.NewRecordNotFoundError("application", input.ApplicationID)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, errors.NewQueryTimeoutError(string(models.QueryTypeApplication))
	default:
		return nil, errors.NewQueryExecutionFailedError(string(models.QueryTypeApplication), err)
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

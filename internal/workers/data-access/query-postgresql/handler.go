// internal/workers/data-access/query-postgresql/handler.go
package querypostgresql

import (
	"context"
	stderrors "errors"
	"time"

	"jobsearch-analytics/internal/common/camunda"
	"jobsearch-analytics/internal/common/errors"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"
	"jobsearch-analytics/internal/workers/data-access/query-postgresql/queries"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "query-postgresql"
)

type Handler struct {
	config    *Config
	deps      queries.Deps
	validator *validation.SchemaValidator
	responder *camunda.Responder
	clock     func() time.Time
	logger    logger.Logger
}

func NewHandler(
	config *Config,
	records queries.Records,
	cohorts repository.CohortStatsProvider,
	validator *validation.SchemaValidator,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:    config,
		deps:      queries.Deps{Records: records, Cohorts: cohorts},
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
	queryType := models.QueryType(input.QueryType)
	if !queryType.Valid() {
		return nil, errors.NewInvalidQueryTypeError(input.QueryType)
	}

	params, err := h.params(input)
	if err != nil {
		return nil, err
	}

	data, rowCount, elapsed, err := queries.Execute(ctx, h.deps, queryType, params)
	if err != nil {
		return nil, h.mapError(ctx, queryType, input, err)
	}

	h.logger.Info("query executed", map[string]interface{}{
		"queryType":     queryType,
		"userId":        input.UserID,
		"rowCount":      rowCount,
		"executionTime": elapsed,
	})

	return &Output{
		Data:               data,
		RowCount:           rowCount,
		QueryExecutionTime: elapsed,
	}, nil
}

func (h *Handler) params(input *Input) (queries.Params, error) {
	p := queries.Params{
		UserID:        input.UserID,
		ApplicationID: input.ApplicationID,
		Cohort: models.CohortKey{
			Industry:    input.Industry,
			JobType:     input.JobType,
			CompanySize: input.CompanySize,
		},
	}

	if input.Since != "" {
		since, err := time.Parse(time.RFC3339, input.Since)
		if err != nil {
			return p, errors.NewInvalidInputError("since must be an RFC3339 timestamp")
		}
		p.Since = since.UTC()
		return p, nil
	}

	now, err := camunda.ResolveNow(input.AsOf, h.clock)
	if err != nil {
		return p, err
	}
	p.Since = now.Add(-h.config.PracticeWindow)
	return p, nil
}

func (h *Handler) mapError(ctx context.Context, queryType models.QueryType, input *Input, err error) error {
	switch {
	case stderrors.Is(err, queries.ErrUnknownQueryType):
		return errors.NewInvalidQueryTypeError(input.QueryType)
	case stderrors.Is(err, queries.ErrMissingParam):
		return errors.NewInvalidInputError(err.Error())
	case repository.IsNotFound(err):
		return errors.NewRecordNotFoundError(string(queryType), input.ApplicationID)
	case stderrors.Is(ctx.Err(), context.DeadlineExceeded), stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewQueryTimeoutError(string(queryType))
	}
	// store errors that already carry a code (search backend) keep it
	if stdErr, ok := errors.AsStandardError(err); ok {
		return stdErr.WithMetadata("userId", input.UserID)
	}
	return errors.NewQueryExecutionFailedError(string(queryType), err).
		WithMetadata("userId", input.UserID)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

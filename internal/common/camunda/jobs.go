// internal/common/camunda/jobs.go
package camunda

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobsearch-analytics/internal/common/errors"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/common/metrics"
	"jobsearch-analytics/internal/common/observability"
	"jobsearch-analytics/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// DecodeVariables validates the job variables against the schema registered for
// taskType and unmarshals them into out. Failures are INVALID_INPUT errors.
func DecodeVariables(job entities.Job, taskType string, v *validation.SchemaValidator, out interface{}) error {
	result, err := v.Validate(taskType, job.Variables)
	if err != nil {
		return errors.NewInvalidInputError(err.Error())
	}
	if !result.Valid {
		return errors.NewInvalidInputError(result.Error())
	}
	if err := json.Unmarshal([]byte(job.Variables), out); err != nil {
		return errors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
	}
	return nil
}

// ResolveNow parses an optional RFC3339 asOf variable, defaulting to clock().
func ResolveNow(asOf string, clock func() time.Time) (time.Time, error) {
	if asOf == "" {
		return clock().UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, asOf)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError(fmt.Sprintf("asOf: %v", err))
	}
	return t, nil
}

// Responder completes or fails jobs for one task type and records the outcome.
type Responder struct {
	taskType string
	errors   *errors.ErrorHandler
	obs      *observability.Observability
	logger   logger.Logger
}

func NewResponder(taskType string, obs *observability.Observability, log logger.Logger) *Responder {
	return &Responder{
		taskType: taskType,
		errors:   errors.NewErrorHandler(log),
		obs:      obs,
		logger:   log,
	}
}

func (r *Responder) Complete(ctx context.Context, client worker.JobClient, job entities.Job, output interface{}) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		r.logger.Error("failed to create complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		r.Fail(ctx, client, job, errors.NewInternalError(err))
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		r.logger.Error("failed to send complete job command", map[string]interface{}{
			"jobKey": job.Key,
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(r.taskType).Inc()
	r.obs.RecordJobProcessed(ctx, r.taskType, "completed")
	r.logger.Info("job completed", map[string]interface{}{"jobKey": job.Key})
}

func (r *Responder) Fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	code := string(errors.ErrCodeInternal)
	if stdErr, ok := errors.AsStandardError(err); ok {
		code = string(stdErr.Code)
	}
	metrics.WorkerJobsFailed.WithLabelValues(r.taskType, code).Inc()

	outcome := r.errors.HandleJobError(ctx, client, job, err)
	r.obs.RecordJobProcessed(ctx, r.taskType, string(outcome))
}

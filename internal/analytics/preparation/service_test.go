package preparation

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"jobsearch-analytics/internal/analytics/scoring"
	"jobsearch-analytics/internal/common/logger"
	"jobsearch-analytics/internal/models"
	"jobsearch-analytics/internal/repository"

	"github.com/stretchr/testify/assert"
)

type fakeReader struct {
	app       *models.Application
	appErr    error
	resume    *models.Resume
	resumeErr error
	panicOn   bool
}

func (f *fakeReader) GetApplication(ctx context.Context, userID, applicationID string) (*models.Application, error) {
	if f.panicOn {
		panic("unexpected row shape")
	}
	return f.app, f.appErr
}

func (f *fakeReader) GetResume(ctx context.Context, resumeID string) (*models.Resume, error) {
	return f.resume, f.resumeErr
}

func TestService_Score(t *testing.T) {
	full := fullApplication()
	fresh := freshResume().Resume

	tests := []struct {
		name       string
		reader     *fakeReader
		wantScore  int
		wantStatus scoring.Status
		wantResume int
	}{
		{name: "complete", reader: &fakeReader{app: &full, resume: fresh}, wantScore: 100, wantStatus: scoring.StatusComplete, wantResume: 100},
		{
			name:       "resume not found earns partial credit",
			reader:     &fakeReader{app: &full, resumeErr: fmt.Errorf("resume: %w", repository.ErrNotFound)},
			wantScore:  92,
			wantStatus: scoring.StatusComplete,
			wantResume: 70,
		},
		{name: "resume lookup error earns partial credit", reader: &fakeReader{app: &full, resumeErr: errors.New("timeout")}, wantScore: 92, wantStatus: scoring.StatusComplete, wantResume: 70},
		{name: "application missing", reader: &fakeReader{appErr: fmt.Errorf("app: %w", repository.ErrNotFound)}, wantScore: 0, wantStatus: scoring.StatusError},
		{name: "application query fails", reader: &fakeReader{appErr: errors.New("connection refused")}, wantScore: 0, wantStatus: scoring.StatusError},
		{name: "panic is contained", reader: &fakeReader{panicOn: true}, wantScore: 0, wantStatus: scoring.StatusError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.reader, logger.NewTestLogger(t))
			b := svc.Score(context.Background(), "user-1", "app-1", now)

			assert.Equal(t, tt.wantStatus, b.Status)
			assert.Equal(t, tt.wantScore, b.Score)
			if tt.wantStatus == scoring.StatusError {
				assert.False(t, b.HasData)
				return
			}
			assert.Equal(t, tt.wantResume, b.Subscores[SubResume].Score)
		})
	}
}

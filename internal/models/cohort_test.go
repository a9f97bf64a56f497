package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferJobLevel(t *testing.T) {
	tests := []struct {
		title string
		want  JobLevel
	}{
		{"Software Engineering Intern", JobLevelIntern},
		{"Junior Backend Developer", JobLevelJunior},
		{"Sr. Data Engineer", JobLevelSenior},
		{"Senior Engineering Manager", JobLevelSenior},
		{"Tech Lead", JobLevelLead},
		{"VP of Engineering", JobLevelExecutive},
		{"Internal Tools Engineer", JobLevelMid},
		{"Backend Engineer", JobLevelMid},
		{"", JobLevelMid},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, InferJobLevel(tt.title))
		})
	}
}

func TestCompanySizeBucket(t *testing.T) {
	assert.Equal(t, "", CompanySizeBucket(0))
	assert.Equal(t, "startup", CompanySizeBucket(49))
	assert.Equal(t, "small", CompanySizeBucket(50))
	assert.Equal(t, "medium", CompanySizeBucket(999))
	assert.Equal(t, "large", CompanySizeBucket(1000))
	assert.Equal(t, "enterprise", CompanySizeBucket(10000))
}

func TestApplicationCohortKey(t *testing.T) {
	app := Application{Industry: "fintech", JobType: "full-time", CompanySize: 120}
	assert.Equal(t, CohortKey{Industry: "fintech", JobType: "full-time", CompanySize: "small"}, app.CohortKey())

	app.CompanySizeBucket = "enterprise"
	assert.Equal(t, "enterprise", app.CohortKey().CompanySize)

	assert.Equal(t, "global", CohortKey{}.String())
	assert.Equal(t, "fintech/*/*", CohortKey{Industry: "fintech"}.String())
}

func TestApplicationStatusValid(t *testing.T) {
	assert.True(t, StatusPhoneScreen.Valid())
	assert.False(t, ApplicationStatus("Ghosted").Valid())
}

// internal/models/application.go
package models

import "time"

// ApplicationStatus is the externally managed lifecycle stage of an application.
type ApplicationStatus string

const (
	StatusInterested  ApplicationStatus = "Interested"
	StatusApplied     ApplicationStatus = "Applied"
	StatusPhoneScreen ApplicationStatus = "Phone Screen"
	StatusInterview   ApplicationStatus = "Interview"
	StatusOffer       ApplicationStatus = "Offer"
	StatusRejected    ApplicationStatus = "Rejected"
	StatusWithdrawn   ApplicationStatus = "Withdrawn"
)

var applicationStatuses = map[ApplicationStatus]bool{
	StatusInterested:  true,
	StatusApplied:     true,
	StatusPhoneScreen: true,
	StatusInterview:   true,
	StatusOffer:       true,
	StatusRejected:    true,
	StatusWithdrawn:   true,
}

func (s ApplicationStatus) Valid() bool {
	return applicationStatuses[s]
}

// Application is one tracked job opportunity. The analytics engine only reads it.
type Application struct {
	ID                string            `json:"id"`
	UserID            string            `json:"userId"`
	Status            ApplicationStatus `json:"status"`
	ResumeID          *string           `json:"resumeId,omitempty"`
	CoverLetter       *string           `json:"coverLetter,omitempty"`
	Company           string            `json:"company"`
	Title             string            `json:"title"`
	Location          string            `json:"location,omitempty"`
	SalaryMin         *int              `json:"salaryMin,omitempty"`
	SalaryMax         *int              `json:"salaryMax,omitempty"`
	SalaryText        string            `json:"salaryText,omitempty"`
	Description       string            `json:"description,omitempty"`
	PostingURL        string            `json:"postingUrl,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	Industry          string            `json:"industry,omitempty"`
	JobType           string            `json:"jobType,omitempty"`
	CompanySize       int               `json:"companySize,omitempty"`
	CompanySizeBucket string            `json:"companySizeBucket,omitempty"`
	SubmittedAt       *time.Time        `json:"submittedAt,omitempty"`
	FirstResponseAt   *time.Time        `json:"firstResponseAt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
}

// HasResume reports whether a resume reference is attached.
func (a Application) HasResume() bool {
	return a.ResumeID != nil && *a.ResumeID != ""
}

// HasSalary reports whether any salary information was recorded.
func (a Application) HasSalary() bool {
	return a.SalaryMin != nil || a.SalaryMax != nil || a.SalaryText != ""
}

// CohortKey derives the response-time cohort for this application.
// An explicit bucket wins over one derived from the employee count.
func (a Application) CohortKey() CohortKey {
	size := a.CompanySizeBucket
	if size == "" {
		size = CompanySizeBucket(a.CompanySize)
	}
	return CohortKey{Industry: a.Industry, JobType: a.JobType, CompanySize: size}
}

// Resume is the stored document an application may reference.
type Resume struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	FileURL   string    `json:"fileUrl,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r Resume) HasFile() bool {
	return r.FileURL != ""
}

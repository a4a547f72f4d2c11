package models

import "time"

// ApplicationStatusApplied is the initial status of a new application.
const ApplicationStatusApplied = "applied"

// Application is one user's application to one job. At most one exists per
// (user, job) pair, enforced by the store.
type Application struct {
	ID     string
	UserID string
	JobID  string
	// AppliedAt orders a user's applications chronologically.
	AppliedAt time.Time
	// ResumeKey addresses the uploaded resume in the blob store.
	ResumeKey string
	Status    string
}

// AppliedJob pairs an application with its resolved job posting.
type AppliedJob struct {
	Application *Application
	Job         *Job
}

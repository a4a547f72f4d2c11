package models

import "time"

// Employment types accepted for a job posting.
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
)

// Job is a posting created and managed by admins.
type Job struct {
	ID               string
	Title            string
	Experience       string
	Location         string
	Type             string
	Summary          string
	Responsibilities []string
	Requirements     []string
	Stack            []string
	// PostedBy is the id of the admin who created the posting, may be empty.
	PostedBy  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobPatch is the allow-listed set of mutable job fields. Nil fields are
// left untouched. Identity and ownership fields are deliberately absent so
// a generic patch cannot reach them.
type JobPatch struct {
	Title            *string
	Experience       *string
	Location         *string
	Type             *string
	Summary          *string
	Responsibilities *[]string
	Requirements     *[]string
	Stack            *[]string
}

// Empty reports whether the patch modifies nothing.
func (p *JobPatch) Empty() bool {
	return p.Title == nil && p.Experience == nil && p.Location == nil &&
		p.Type == nil && p.Summary == nil && p.Responsibilities == nil &&
		p.Requirements == nil && p.Stack == nil
}

package services

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/jobhub/internal/common"
	"github.com/dmitrijs2005/jobhub/internal/dbx"
	"github.com/dmitrijs2005/jobhub/internal/logging"
	"github.com/dmitrijs2005/jobhub/internal/server/models"
	applicationsrepo "github.com/dmitrijs2005/jobhub/internal/server/repositories/applications"
	jobsrepo "github.com/dmitrijs2005/jobhub/internal/server/repositories/jobs"
	"github.com/dmitrijs2005/jobhub/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/jobhub/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTestLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewJSONHandler(io.Discard, nil)))
}

// --- in-memory fakes ---

type fakeUsersRepo struct {
	mu     sync.Mutex
	users  map[string]*models.User
	nextID int

	createErr error
	lockErr   error
	lockCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: make(map[string]*models.User)}
}

func (f *fakeUsersRepo) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *u
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("u%d", f.nextID)
	}
	f.users[cp.ID] = &cp
	return &cp
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.mu.Lock()
	for _, e := range f.users {
		if e.Email == u.Email || e.MobileNumber == u.MobileNumber {
			f.mu.Unlock()
			return nil, common.ErrorDuplicate
		}
	}
	f.mu.Unlock()
	return f.add(u), nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsersRepo) GetByMobile(ctx context.Context, mobile string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.MobileNumber == mobile })
}

func (f *fakeUsersRepo) GetByNameAndMobile(ctx context.Context, fullName, mobile string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.FullName == fullName && u.MobileNumber == mobile })
}

func (f *fakeUsersRepo) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) LockByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	f.lockCalls++
	f.mu.Unlock()
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return f.GetByID(ctx, id)
}

func (f *fakeUsersRepo) SetOTP(ctx context.Context, id, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.OTPCode = code
	u.OTPExpires = expires
	return nil
}

func (f *fakeUsersRepo) ClearOTP(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.OTPCode = ""
	u.OTPExpires = time.Time{}
	return nil
}

func (f *fakeUsersRepo) UpdatePassword(ctx context.Context, id string, salt, hash []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Salt = salt
	u.PasswordHash = hash
	u.OTPCode = ""
	u.OTPExpires = time.Time{}
	return nil
}

type fakeJobsRepo struct {
	mu     sync.Mutex
	jobs   map[string]*models.Job
	nextID int

	createErr error
}

func newFakeJobsRepo() *fakeJobsRepo {
	return &fakeJobsRepo{jobs: make(map[string]*models.Job)}
}

func (f *fakeJobsRepo) add(j *models.Job) *models.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cp := *j
	if cp.ID == "" {
		cp.ID = fmt.Sprintf("j%d", f.nextID)
	}
	f.jobs[cp.ID] = &cp
	return &cp
}

func (f *fakeJobsRepo) Create(ctx context.Context, j *models.Job) (*models.Job, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.add(j), nil
}

func (f *fakeJobsRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[id]; ok {
		cp := *j
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeJobsRepo) List(ctx context.Context) ([]*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*models.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		cp := *j
		result = append(result, &cp)
	}
	return result, nil
}

func (f *fakeJobsRepo) Update(ctx context.Context, id string, patch *models.JobPatch) (*models.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil {
		j.Title = *patch.Title
	}
	if patch.Experience != nil {
		j.Experience = *patch.Experience
	}
	if patch.Location != nil {
		j.Location = *patch.Location
	}
	if patch.Type != nil {
		j.Type = *patch.Type
	}
	if patch.Summary != nil {
		j.Summary = *patch.Summary
	}
	if patch.Responsibilities != nil {
		j.Responsibilities = *patch.Responsibilities
	}
	if patch.Requirements != nil {
		j.Requirements = *patch.Requirements
	}
	if patch.Stack != nil {
		j.Stack = *patch.Stack
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.jobs, id)
	return nil
}

type fakeApplicationsRepo struct {
	mu     sync.Mutex
	apps   map[string]*models.Application
	nextID int

	jobs *fakeJobsRepo

	insertErr error
	updateErr error
}

func newFakeApplicationsRepo(jobs *fakeJobsRepo) *fakeApplicationsRepo {
	return &fakeApplicationsRepo{apps: make(map[string]*models.Application), jobs: jobs}
}

func (f *fakeApplicationsRepo) Insert(ctx context.Context, app *models.Application) (*models.Application, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.apps {
		if e.UserID == app.UserID && e.JobID == app.JobID {
			return nil, common.ErrorDuplicate
		}
	}
	f.nextID++
	cp := *app
	cp.ID = fmt.Sprintf("a%d", f.nextID)
	cp.AppliedAt = time.Now()
	f.apps[cp.ID] = &cp
	res := cp
	return &res, nil
}

func (f *fakeApplicationsRepo) GetByUserAndJob(ctx context.Context, userID, jobID string) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.apps {
		if a.UserID == userID && a.JobID == jobID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeApplicationsRepo) UpdateResume(ctx context.Context, id, resumeKey string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.apps[id]
	if !ok {
		return common.ErrorNotFound
	}
	a.ResumeKey = resumeKey
	return nil
}

func (f *fakeApplicationsRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.apps[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.apps, id)
	return nil
}

func (f *fakeApplicationsRepo) ListByUser(ctx context.Context, userID, status string) ([]*models.AppliedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*models.AppliedJob
	for _, a := range f.apps {
		if a.UserID != userID {
			continue
		}
		if status != "" && a.Status != status {
			continue
		}
		cp := *a
		item := &models.AppliedJob{Application: &cp}
		if f.jobs != nil {
			if j, err := f.jobs.GetByID(ctx, a.JobID); err == nil {
				item.Job = j
			}
		}
		result = append(result, item)
	}
	return result, nil
}

func (f *fakeApplicationsRepo) DeleteByJob(ctx context.Context, jobID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for id, a := range f.apps {
		if a.JobID == jobID {
			if a.ResumeKey != "" {
				keys = append(keys, a.ResumeKey)
			}
			delete(f.apps, id)
		}
	}
	return keys, nil
}

func (f *fakeApplicationsRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.apps)
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	j *fakeJobsRepo
	a *fakeApplicationsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	u := newFakeUsersRepo()
	j := newFakeJobsRepo()
	return &fakeRepoManager{u: u, j: j, a: newFakeApplicationsRepo(j)}
}

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Jobs(db dbx.DBTX) jobsrepo.Repository   { return m.j }
func (m *fakeRepoManager) Applications(db dbx.DBTX) applicationsrepo.Repository {
	return m.a
}
func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

type fakeSender struct {
	mu       sync.Mutex
	sent     []string
	messages []string

	sendErr error
}

func (f *fakeSender) Send(ctx context.Context, mobileNumber, message string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, mobileNumber)
	f.messages = append(f.messages, message)
	return nil
}

func (f *fakeSender) lastMessage() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return ""
	}
	return f.messages[len(f.messages)-1]
}

// resumeBody is a stand-in for uploaded file content.
func resumeBody() io.Reader {
	return strings.NewReader("%PDF-1.4 test resume")
}

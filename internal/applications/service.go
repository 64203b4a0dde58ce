// Package applications 实现职位申请流程：每个 (申请人, 职位) 只允许一次申请，
// 状态仅由职位发布者或管理员修改。
package applications

import (
	"context"
	"errors"
	"strings"
	"time"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/store"
)

// 申请状态，可在五个值之间任意切换。
const (
	StatusSubmitted   = "Submitted"
	StatusUnderReview = "Under Review"
	StatusShortlisted = "Shortlisted"
	StatusRejected    = "Rejected"
	StatusOffered     = "Offered"
)

var statuses = map[string]struct{}{
	StatusSubmitted:   {},
	StatusUnderReview: {},
	StatusShortlisted: {},
	StatusRejected:    {},
	StatusOffered:     {},
}

// ValidStatus reports whether s is one of the five application statuses.
func ValidStatus(s string) bool {
	_, ok := statuses[s]
	return ok
}

type Service struct {
	applications *store.ApplicationStore
	jobs         *store.JobStore
	users        *store.UserStore
	now          func() time.Time
}

func NewService(applications *store.ApplicationStore, jobs *store.JobStore, users *store.UserStore) *Service {
	return &Service{
		applications: applications,
		jobs:         jobs,
		users:        users,
		now:          time.Now,
	}
}

type ApplyInput struct {
	CoverLetter    string `json:"coverLetter"`
	ApplicantName  string `json:"applicantName"`
	ApplicantEmail string `json:"applicantEmail"`
}

// Apply 创建申请；重复申请返回 Conflict，不产生第二条记录。
func (s *Service) Apply(ctx context.Context, caller auth.Identity, jobID uint, in ApplyInput) (View, error) {
	if caller.Role != auth.RoleApplicant {
		return View{}, errcode.Forbidden("only applicants can apply for jobs")
	}

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return View{}, notFoundOr(err, "job not found")
	}

	name := strings.TrimSpace(in.ApplicantName)
	email := strings.TrimSpace(in.ApplicantEmail)
	if name == "" || email == "" {
		user, err := s.users.FindByID(ctx, caller.ID)
		if err != nil {
			return View{}, notFoundOr(err, "user not found")
		}
		if name == "" {
			name = user.Name
		}
		if email == "" {
			email = user.Email
		}
	}

	app := database.Application{
		ApplicantID:    caller.ID,
		JobID:          job.ID,
		JobTitle:       job.Title,
		CoverLetter:    strings.TrimSpace(in.CoverLetter),
		ApplicantName:  name,
		ApplicantEmail: email,
		Status:         StatusSubmitted,
		AppliedAt:      s.now().UTC(),
	}
	if err := s.applications.Create(ctx, &app); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return View{}, errcode.Conflict("you have already applied for this job")
		}
		return View{}, errcode.Unavailable(err)
	}
	return newView(&app), nil
}

// UpdateStatus 修改申请状态，调用者须为职位发布者或管理员。
func (s *Service) UpdateStatus(ctx context.Context, caller auth.Identity, applicationID uint, status string) (View, error) {
	if !ValidStatus(status) {
		return View{}, errcode.Validation("invalid status value")
	}

	app, err := s.applications.FindByID(ctx, applicationID)
	if err != nil {
		return View{}, notFoundOr(err, "application not found")
	}
	return s.setStatus(ctx, caller, app, status)
}

// UpdateStatusByJobAndApplicant 按 (职位, 申请人) 定位申请后修改状态。
func (s *Service) UpdateStatusByJobAndApplicant(ctx context.Context, caller auth.Identity, jobID, applicantID uint, status string) (View, error) {
	if !ValidStatus(status) {
		return View{}, errcode.Validation("invalid status value")
	}

	if _, err := s.ownedJob(ctx, caller, jobID, "not authorized to update this application"); err != nil {
		return View{}, err
	}
	app, err := s.applications.FindByApplicantAndJob(ctx, applicantID, jobID)
	if err != nil {
		return View{}, notFoundOr(err, "application not found")
	}
	return s.setStatus(ctx, caller, app, status)
}

func (s *Service) setStatus(ctx context.Context, caller auth.Identity, app *database.Application, status string) (View, error) {
	if _, err := s.ownedJob(ctx, caller, app.JobID, "not authorized to update this application"); err != nil {
		return View{}, err
	}
	if err := s.applications.UpdateStatus(ctx, app.ID, status); err != nil {
		return View{}, notFoundOr(err, "application not found")
	}
	updated, err := s.applications.FindByID(ctx, app.ID)
	if err != nil {
		return View{}, notFoundOr(err, "application not found")
	}
	return newView(updated), nil
}

// ListMine returns the caller's applications, newest first.
func (s *Service) ListMine(ctx context.Context, caller auth.Identity) ([]View, error) {
	apps, err := s.applications.ListByApplicant(ctx, caller.ID)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}
	return newViews(apps), nil
}

// ListForRecruiter returns applications to jobs the caller posted.
func (s *Service) ListForRecruiter(ctx context.Context, caller auth.Identity) ([]View, error) {
	jobIDs, err := s.jobs.IDsByPoster(ctx, caller.ID)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}
	apps, err := s.applications.ListByJobs(ctx, jobIDs)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}
	return newViews(apps), nil
}

// Query 查找指定申请人对指定职位的申请，结果为数组（零或一条）。
func (s *Service) Query(ctx context.Context, caller auth.Identity, applicantID, jobID uint) ([]View, error) {
	if _, err := s.ownedJob(ctx, caller, jobID, "not authorized to access this application"); err != nil {
		return nil, err
	}

	app, err := s.applications.FindByApplicantAndJob(ctx, applicantID, jobID)
	if errors.Is(err, store.ErrNotFound) {
		return []View{}, nil
	}
	if err != nil {
		return nil, errcode.Unavailable(err)
	}
	return []View{newView(app)}, nil
}

// ApplicantsForJob 返回职位的申请人列表，由申请记录推导。
func (s *Service) ApplicantsForJob(ctx context.Context, caller auth.Identity, jobID uint) ([]ApplicantView, error) {
	if _, err := s.ownedJob(ctx, caller, jobID, "not authorized to view applicants for this job"); err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByJobs(ctx, []uint{jobID})
	if err != nil {
		return nil, errcode.Unavailable(err)
	}

	ids := make([]uint, 0, len(apps))
	for i := range apps {
		ids = append(ids, apps[i].ApplicantID)
	}
	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}

	out := make([]ApplicantView, 0, len(apps))
	for i := range apps {
		v := newApplicantView(&apps[i])
		if user, ok := users[apps[i].ApplicantID]; ok {
			v.Nationality = user.Nationality
			v.CurrentLocation = user.CurrentLocation
			if v.ApplicantName == "" {
				v.ApplicantName = user.Name
			}
			if v.ApplicantEmail == "" {
				v.ApplicantEmail = user.Email
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *Service) ownedJob(ctx context.Context, caller auth.Identity, jobID uint, forbidden string) (*database.Job, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, notFoundOr(err, "job not found")
	}
	if job.PostedBy != caller.ID && !caller.IsAdmin() {
		return nil, errcode.Forbidden(forbidden)
	}
	return job, nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return errcode.NotFound(msg)
	}
	return errcode.Unavailable(err)
}

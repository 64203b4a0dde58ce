// Package jobs 实现职位列表、搜索、详情与发布管理。
package jobs

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

// Service 组合职位、公司与申请仓储。
type Service struct {
	jobs         *store.JobStore
	companies    *store.CompanyStore
	applications *store.ApplicationStore
	now          func() time.Time
}

func NewService(jobs *store.JobStore, companies *store.CompanyStore, applications *store.ApplicationStore) *Service {
	return &Service{
		jobs:         jobs,
		companies:    companies,
		applications: applications,
		now:          time.Now,
	}
}

// List 返回一页职位及分页信息；超出范围的页返回空数组。
func (s *Service) List(ctx context.Context, q ListQuery) (ListResult, error) {
	rows, total, err := s.jobs.List(ctx, q.Filter, q.Page, q.Limit)
	if err != nil {
		return ListResult{}, errcode.Unavailable(err)
	}
	return ListResult{
		Jobs:        newJobViews(rows),
		CurrentPage: q.Page,
		TotalPages:  totalPages(total, q.Limit),
		TotalJobs:   total,
		Limit:       q.Limit,
	}, nil
}

// Search 关键字搜索，最多 SearchLimit 条。支持全文排序的方言先按相关度返回，
// 再以子串匹配补足，按 id 去重。
func (s *Service) Search(ctx context.Context, query string) ([]JobView, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		rows, err := s.jobs.SearchSubstring(ctx, "", SearchLimit)
		if err != nil {
			return nil, errcode.Unavailable(err)
		}
		return newJobViews(rows), nil
	}

	ranked, err := s.jobs.SearchRanked(ctx, query, SearchLimit)
	if err != nil && !errors.Is(err, store.ErrRankingUnsupported) {
		return nil, errcode.Unavailable(err)
	}

	results := make([]database.Job, 0, SearchLimit)
	seen := make(map[uint]struct{}, SearchLimit)
	add := func(rows []database.Job) {
		for _, j := range rows {
			if len(results) == SearchLimit {
				return
			}
			if _, dup := seen[j.ID]; dup {
				continue
			}
			seen[j.ID] = struct{}{}
			results = append(results, j)
		}
	}
	add(ranked)

	if len(results) < SearchLimit {
		substring, err := s.jobs.SearchSubstring(ctx, query, SearchLimit)
		if err != nil {
			return nil, errcode.Unavailable(err)
		}
		add(substring)
	}
	return newJobViews(results), nil
}

// Detail 返回单个职位，公司名按 companyId 解析，失败时保留职位自身的公司名。
func (s *Service) Detail(ctx context.Context, id uint) (JobView, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return JobView{}, storeError(err)
	}

	if job.CompanyID != nil {
		if company, err := s.companies.FindByID(ctx, *job.CompanyID); err == nil && company.Name != "" {
			job.Company = company.Name
		}
	}

	counts, err := s.applications.CountByJobs(ctx, []uint{job.ID})
	if err != nil {
		return JobView{}, errcode.Unavailable(err)
	}
	view := newJobView(job)
	n := counts[job.ID]
	view.ApplicantCount = &n
	return view, nil
}

// MyJobs lists jobs posted by the caller with applicant counts.
func (s *Service) MyJobs(ctx context.Context, caller auth.Identity) ([]JobView, error) {
	rows, err := s.jobs.ListByPoster(ctx, caller.ID)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}

	ids := make([]uint, 0, len(rows))
	for _, j := range rows {
		ids = append(ids, j.ID)
	}
	counts, err := s.applications.CountByJobs(ctx, ids)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}

	views := newJobViews(rows)
	for i := range views {
		n := counts[views[i].ID]
		views[i].ApplicantCount = &n
	}
	return views, nil
}

// Create 发布职位。未提供公司时使用调用者的公司。
func (s *Service) Create(ctx context.Context, caller auth.Identity, in JobInput) (JobView, error) {
	if !caller.HasRole(auth.RoleRecruiter, auth.RoleAdmin) {
		return JobView{}, errcode.Forbidden("only recruiters and admins can post jobs")
	}

	job := database.Job{}
	if _, err := in.apply(&job); err != nil {
		return JobView{}, err
	}

	if err := s.resolveCompany(ctx, caller, &job); err != nil {
		return JobView{}, err
	}
	if err := validateJob(&job); err != nil {
		return JobView{}, err
	}

	job.PostedBy = caller.ID
	job.PostedAt = s.now().UTC()
	if err := s.jobs.Create(ctx, &job); err != nil {
		return JobView{}, errcode.Unavailable(err)
	}
	return newJobView(&job), nil
}

func (s *Service) resolveCompany(ctx context.Context, caller auth.Identity, job *database.Job) error {
	if job.CompanyID != nil {
		company, err := s.companies.FindByID(ctx, *job.CompanyID)
		if errors.Is(err, store.ErrNotFound) {
			return errcode.Validation("companyId does not exist")
		}
		if err != nil {
			return errcode.Unavailable(err)
		}
		if company.RecruiterID != caller.ID && !caller.IsAdmin() {
			return errcode.Forbidden("cannot post under another recruiter's company")
		}
		// 关联公司时以公司名为准，列表与详情保持一致。
		job.Company = company.Name
		return nil
	}

	if job.Company != "" {
		return nil
	}
	company, err := s.companies.FindByRecruiter(ctx, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return errcode.Unavailable(err)
	}
	job.Company = company.Name
	id := company.ID
	job.CompanyID = &id
	return nil
}

// Update 部分更新职位，仅发布者或管理员可操作。
func (s *Service) Update(ctx context.Context, caller auth.Identity, id uint, in JobInput) (JobView, error) {
	job, err := s.owned(ctx, caller, id, "not authorized to update this job")
	if err != nil {
		return JobView{}, err
	}

	replaceLanguages, err := in.apply(job)
	if err != nil {
		return JobView{}, err
	}
	if in.CompanyID != nil {
		if err := s.resolveCompany(ctx, caller, job); err != nil {
			return JobView{}, err
		}
	}
	if err := validateJob(job); err != nil {
		return JobView{}, err
	}

	if err := s.jobs.Update(ctx, job, replaceLanguages); err != nil {
		return JobView{}, storeError(err)
	}
	return newJobView(job), nil
}

// Delete 删除职位，仅发布者或管理员可操作。
func (s *Service) Delete(ctx context.Context, caller auth.Identity, id uint) error {
	if _, err := s.owned(ctx, caller, id, "not authorized to delete this job"); err != nil {
		return err
	}
	if err := s.jobs.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, caller auth.Identity, id uint, forbidden string) (*database.Job, error) {
	job, err := s.jobs.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if job.PostedBy != caller.ID && !caller.IsAdmin() {
		return nil, errcode.Forbidden(forbidden)
	}
	return job, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errcode.NotFound("job not found")
	}
	return errcode.Unavailable(err)
}

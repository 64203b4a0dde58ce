package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/database/dbtest"
)

func intPtr(v int) *int { return &v }

func seedJobs(t *testing.T, s *JobStore) []database.Job {
	t.Helper()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	jobs := []database.Job{
		{
			Title: "Backend Engineer", Company: "Harbour Tech", Location: "Central", Type: "full-time",
			Industry: "Technology", Description: "Build Go services",
			SalaryMin: intPtr(30000), SalaryMax: intPtr(40000),
			SuitableForExpats: true, VisaSponsorshipOffered: true,
			Languages: []database.JobLanguage{{Language: "English", Proficiency: "Professional"}},
			PostedBy:  1, PostedAt: base.Add(3 * time.Hour),
		},
		{
			Title: "Barista", Company: "Kowloon Coffee", Location: "Mong Kok", Type: "part-time",
			Industry: "Hospitality", Description: "Make 100% good coffee",
			SalaryMin: intPtr(12000), SalaryMax: intPtr(15000),
			Languages: []database.JobLanguage{{Language: "Cantonese", Proficiency: "Native"}},
			PostedBy:  1, PostedAt: base.Add(2 * time.Hour),
		},
		{
			Title: "Finance Analyst", Company: "Central Capital", Location: "Admiralty", Type: "full-time",
			Industry: "Finance", Description: "Analyse portfolios",
			PostedBy: 2, PostedAt: base.Add(1 * time.Hour), FeaturedJob: true,
		},
	}
	for i := range jobs {
		if err := s.Create(context.Background(), &jobs[i]); err != nil {
			t.Fatalf("create job %d: %v", i, err)
		}
	}
	return jobs
}

func titles(jobs []database.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.Title
	}
	return out
}

func TestJobStore_ListFilters(t *testing.T) {
	s := NewJobStore(dbtest.Open(t))
	seedJobs(t, s)
	ctx := context.Background()

	cases := []struct {
		name   string
		filter JobFilter
		want   []string
	}{
		{name: "no filter newest first", filter: JobFilter{}, want: []string{"Backend Engineer", "Barista", "Finance Analyst"}},
		{name: "location case insensitive", filter: JobFilter{Location: "central"}, want: []string{"Backend Engineer"}},
		{name: "type exact", filter: JobFilter{Type: "part-time"}, want: []string{"Barista"}},
		{name: "industry exact", filter: JobFilter{Industry: "Finance"}, want: []string{"Finance Analyst"}},
		{name: "min salary excludes unknown salary", filter: JobFilter{MinSalary: intPtr(20000)}, want: []string{"Backend Engineer"}},
		{name: "max salary", filter: JobFilter{MaxSalary: intPtr(20000)}, want: []string{"Barista"}},
		{name: "expat flag", filter: JobFilter{SuitableForExpats: true}, want: []string{"Backend Engineer"}},
		{name: "visa flag", filter: JobFilter{VisaSponsorshipOffered: true}, want: []string{"Backend Engineer"}},
		{name: "language membership", filter: JobFilter{Language: "cantonese"}, want: []string{"Barista"}},
		{name: "search over company", filter: JobFilter{Search: "CAPITAL"}, want: []string{"Finance Analyst"}},
		{name: "search escapes wildcard", filter: JobFilter{Search: "100%"}, want: []string{"Barista"}},
		{name: "combined", filter: JobFilter{Type: "full-time", Location: "Central"}, want: []string{"Backend Engineer"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			jobs, total, err := s.List(ctx, tc.filter, 1, 10)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			got := titles(jobs)
			if int(total) != len(tc.want) || len(got) != len(tc.want) {
				t.Fatalf("expected %v (total %d), got %v (total %d)", tc.want, len(tc.want), got, total)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestJobStore_ListPagination(t *testing.T) {
	s := NewJobStore(dbtest.Open(t))
	seedJobs(t, s)
	ctx := context.Background()

	page2, total, err := s.List(ctx, JobFilter{}, 2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(page2) != 1 || page2[0].Title != "Finance Analyst" {
		t.Fatalf("unexpected page 2: total=%d jobs=%v", total, titles(page2))
	}

	beyond, total, err := s.List(ctx, JobFilter{}, 5, 2)
	if err != nil {
		t.Fatalf("list beyond: %v", err)
	}
	if total != 3 || len(beyond) != 0 || beyond == nil {
		t.Fatalf("expected empty non-nil page beyond range, got %v total=%d", beyond, total)
	}
}

func TestJobStore_SearchRankedUnsupportedOnSQLite(t *testing.T) {
	s := NewJobStore(dbtest.Open(t))
	if _, err := s.SearchRanked(context.Background(), "engineer", 20); !errors.Is(err, ErrRankingUnsupported) {
		t.Fatalf("expected ErrRankingUnsupported, got %v", err)
	}
}

func TestJobStore_UpdateReplacesLanguages(t *testing.T) {
	s := NewJobStore(dbtest.Open(t))
	jobs := seedJobs(t, s)
	ctx := context.Background()

	job, err := s.FindByID(ctx, jobs[0].ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	job.Title = "Senior Backend Engineer"
	job.Languages = []database.JobLanguage{{Language: "Mandarin", Proficiency: "Basic"}, {Language: "English", Proficiency: "Native"}}
	if err := s.Update(ctx, job, true); err != nil {
		t.Fatalf("update: %v", err)
	}

	reloaded, err := s.FindByID(ctx, job.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Title != "Senior Backend Engineer" || len(reloaded.Languages) != 2 {
		t.Fatalf("unexpected reloaded job %+v", reloaded)
	}

	matches, _, err := s.List(ctx, JobFilter{Language: "mandarin"}, 1, 10)
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected language filter to see replaced rows, got %v err=%v", titles(matches), err)
	}
}

func TestJobStore_DeleteKeepsApplications(t *testing.T) {
	db := dbtest.Open(t)
	s := NewJobStore(db)
	apps := NewApplicationStore(db)
	jobs := seedJobs(t, s)
	ctx := context.Background()

	app := database.Application{ApplicantID: 9, JobID: jobs[0].ID, JobTitle: jobs[0].Title, Status: "Submitted", AppliedAt: time.Now()}
	if err := apps.Create(ctx, &app); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if err := s.Delete(ctx, jobs[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.FindByID(ctx, jobs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, jobs[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected second delete to be ErrNotFound, got %v", err)
	}

	kept, err := apps.FindByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("application should survive job delete: %v", err)
	}
	if kept.JobTitle != "Backend Engineer" {
		t.Fatalf("expected job title snapshot, got %q", kept.JobTitle)
	}
}

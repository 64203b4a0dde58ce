package applications

import (
	"context"
	"testing"
	"time"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/database/dbtest"
	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/store"
)

type fixture struct {
	svc       *Service
	users     *store.UserStore
	jobs      *store.JobStore
	owner     auth.Identity
	stranger  auth.Identity
	admin     auth.Identity
	applicant auth.Identity
	job       database.Job
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	f := &fixture{
		users: store.NewUserStore(db),
		jobs:  store.NewJobStore(db),
	}
	f.svc = NewService(store.NewApplicationStore(db), f.jobs, f.users)

	ctx := context.Background()
	mk := func(username, role string) auth.Identity {
		u := database.User{Username: username, PasswordHash: "x", Role: role, Name: username + " name", Email: username + "@example.com", Nationality: "British"}
		if err := f.users.Create(ctx, &u); err != nil {
			t.Fatalf("create user: %v", err)
		}
		return auth.Identity{ID: u.ID, Username: u.Username, Role: u.Role}
	}
	f.owner = mk("rita", auth.RoleRecruiter)
	f.stranger = mk("oscar", auth.RoleRecruiter)
	f.admin = mk("root", auth.RoleAdmin)
	f.applicant = mk("alice", auth.RoleApplicant)

	f.job = database.Job{Title: "Backend Engineer", Company: "Harbour", Location: "Central", Type: "full-time", Description: "Go", PostedBy: f.owner.ID, PostedAt: time.Now()}
	if err := f.jobs.Create(ctx, &f.job); err != nil {
		t.Fatalf("create job: %v", err)
	}
	return f
}

func TestApply_OncePerJob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.Apply(ctx, f.applicant, f.job.ID, ApplyInput{CoverLetter: "Hi"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if view.Status != StatusSubmitted || view.JobTitle != "Backend Engineer" || view.ApplicantName != "alice name" || view.ApplicantEmail != "alice@example.com" {
		t.Fatalf("unexpected application %+v", view)
	}

	if _, err := f.svc.Apply(ctx, f.applicant, f.job.ID, ApplyInput{}); !errcode.Is(err, errcode.KindConflict) {
		t.Fatalf("expected conflict on second apply, got %v", err)
	}

	mine, err := f.svc.ListMine(ctx, f.applicant)
	if err != nil || len(mine) != 1 {
		t.Fatalf("expected exactly one application, got %v err=%v", mine, err)
	}
}

func TestApply_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Apply(ctx, f.owner, f.job.ID, ApplyInput{}); !errcode.Is(err, errcode.KindForbidden) {
		t.Fatalf("expected forbidden for recruiter, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.applicant, 9999, ApplyInput{}); !errcode.Is(err, errcode.KindNotFound) {
		t.Fatalf("expected not found job, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.applicant, f.job.ID, ApplyInput{})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, f.owner, app.ID, "Hired"); !errcode.Is(err, errcode.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.stranger, app.ID, StatusRejected); !errcode.Is(err, errcode.KindForbidden) {
		t.Fatalf("expected forbidden for non-owner, got %v", err)
	}
	if _, err := f.svc.UpdateStatus(ctx, f.owner, 9999, StatusRejected); !errcode.Is(err, errcode.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	updated, err := f.svc.UpdateStatus(ctx, f.owner, app.ID, StatusShortlisted)
	if err != nil || updated.Status != StatusShortlisted {
		t.Fatalf("owner update: %+v err=%v", updated, err)
	}
	if !updated.UpdatedAt.After(app.UpdatedAt) {
		t.Fatalf("expected updatedAt to advance past %v, got %v", app.UpdatedAt, updated.UpdatedAt)
	}

	mine, err := f.svc.ListMine(ctx, f.applicant)
	if err != nil || len(mine) != 1 || mine[0].Status != StatusShortlisted {
		t.Fatalf("applicant should see Shortlisted, got %+v err=%v", mine, err)
	}
	if !mine[0].UpdatedAt.Equal(updated.UpdatedAt) {
		t.Fatalf("returned updatedAt %v differs from stored %v", updated.UpdatedAt, mine[0].UpdatedAt)
	}

	applicants, err := f.svc.ApplicantsForJob(ctx, f.owner, f.job.ID)
	if err != nil || len(applicants) != 1 || applicants[0].Status != StatusShortlisted {
		t.Fatalf("applicant list should agree with application, got %+v err=%v", applicants, err)
	}

	byAdmin, err := f.svc.UpdateStatusByJobAndApplicant(ctx, f.admin, f.job.ID, f.applicant.ID, StatusOffered)
	if err != nil || byAdmin.Status != StatusOffered {
		t.Fatalf("admin update by job/applicant: %+v err=%v", byAdmin, err)
	}
	if _, err := f.svc.UpdateStatusByJobAndApplicant(ctx, f.owner, f.job.ID, f.stranger.ID, StatusOffered); !errcode.Is(err, errcode.KindNotFound) {
		t.Fatalf("expected not found for missing application, got %v", err)
	}
}

func TestQueryAndRecruiterViews(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	app, err := f.svc.Apply(ctx, f.applicant, f.job.ID, ApplyInput{ApplicantName: "Alice W"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	found, err := f.svc.Query(ctx, f.owner, f.applicant.ID, f.job.ID)
	if err != nil || len(found) != 1 || found[0].ID != app.ID {
		t.Fatalf("unexpected query result %+v err=%v", found, err)
	}
	empty, err := f.svc.Query(ctx, f.owner, f.stranger.ID, f.job.ID)
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty array, got %+v err=%v", empty, err)
	}
	if _, err := f.svc.Query(ctx, f.stranger, f.applicant.ID, f.job.ID); !errcode.Is(err, errcode.KindForbidden) {
		t.Fatalf("expected forbidden query, got %v", err)
	}
	if _, err := f.svc.Query(ctx, f.owner, f.applicant.ID, 9999); !errcode.Is(err, errcode.KindNotFound) {
		t.Fatalf("expected not found job, got %v", err)
	}

	forOwner, err := f.svc.ListForRecruiter(ctx, f.owner)
	if err != nil || len(forOwner) != 1 {
		t.Fatalf("owner should see one application, got %+v err=%v", forOwner, err)
	}
	forStranger, err := f.svc.ListForRecruiter(ctx, f.stranger)
	if err != nil || len(forStranger) != 0 {
		t.Fatalf("stranger should see none, got %+v err=%v", forStranger, err)
	}

	applicants, err := f.svc.ApplicantsForJob(ctx, f.owner, f.job.ID)
	if err != nil || len(applicants) != 1 {
		t.Fatalf("applicants: %+v err=%v", applicants, err)
	}
	if applicants[0].ApplicantName != "Alice W" || applicants[0].Nationality != "British" || applicants[0].UserID != f.applicant.ID {
		t.Fatalf("unexpected applicant entry %+v", applicants[0])
	}
	if _, err := f.svc.ApplicantsForJob(ctx, f.stranger, f.job.ID); !errcode.Is(err, errcode.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

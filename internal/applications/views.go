package applications

import (
	"time"

	"hkexpatjobs/internal/database"
)

// View 是申请记录的 JSON 表示。
type View struct {
	ID             uint      `json:"id"`
	ApplicantID    uint      `json:"applicantId"`
	JobID          uint      `json:"jobId"`
	JobTitle       string    `json:"jobTitle"`
	CoverLetter    string    `json:"coverLetter,omitempty"`
	ApplicantName  string    `json:"applicantName,omitempty"`
	ApplicantEmail string    `json:"applicantEmail,omitempty"`
	Status         string    `json:"status"`
	AppliedAt      time.Time `json:"appliedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newView(a *database.Application) View {
	return View{
		ID:             a.ID,
		ApplicantID:    a.ApplicantID,
		JobID:          a.JobID,
		JobTitle:       a.JobTitle,
		CoverLetter:    a.CoverLetter,
		ApplicantName:  a.ApplicantName,
		ApplicantEmail: a.ApplicantEmail,
		Status:         a.Status,
		AppliedAt:      a.AppliedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func newViews(apps []database.Application) []View {
	out := make([]View, 0, len(apps))
	for i := range apps {
		out = append(out, newView(&apps[i]))
	}
	return out
}

// ApplicantView is one entry of a job's applicant list.
type ApplicantView struct {
	ApplicationID   uint      `json:"applicationId"`
	UserID          uint      `json:"userId"`
	Status          string    `json:"status"`
	AppliedAt       time.Time `json:"appliedAt"`
	ApplicantName   string    `json:"applicantName"`
	ApplicantEmail  string    `json:"applicantEmail"`
	Nationality     string    `json:"nationality,omitempty"`
	CurrentLocation string    `json:"currentLocation,omitempty"`
}

func newApplicantView(a *database.Application) ApplicantView {
	return ApplicantView{
		ApplicationID:  a.ID,
		UserID:         a.ApplicantID,
		Status:         a.Status,
		AppliedAt:      a.AppliedAt,
		ApplicantName:  a.ApplicantName,
		ApplicantEmail: a.ApplicantEmail,
	}
}

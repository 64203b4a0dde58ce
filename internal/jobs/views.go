package jobs

import (
	"time"

	"hkexpatjobs/internal/database"
)

const (
	defaultCurrency = "HKD"
	defaultPeriod   = "monthly"
)

type SalaryView struct {
	Min      *int   `json:"min"`
	Max      *int   `json:"max"`
	Currency string `json:"currency"`
	Period   string `json:"period"`
}

type LanguageView struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency,omitempty"`
}

// JobView 是职位的 JSON 表示；列表字段始终为数组。
type JobView struct {
	ID                     uint           `json:"id"`
	Title                  string         `json:"title"`
	Company                string         `json:"company"`
	CompanyID              *uint          `json:"companyId,omitempty"`
	Location               string         `json:"location"`
	District               string         `json:"district,omitempty"`
	Type                   string         `json:"type"`
	Industry               string         `json:"industry,omitempty"`
	Category               string         `json:"category,omitempty"`
	Description            string         `json:"description"`
	Responsibilities       []string       `json:"responsibilities"`
	Requirements           []string       `json:"requirements"`
	Qualifications         []string       `json:"qualifications"`
	Salary                 SalaryView     `json:"salary"`
	Benefits               []string       `json:"benefits"`
	Languages              []LanguageView `json:"languages"`
	RequiredExperience     *int           `json:"requiredExperience,omitempty"`
	VisaSponsorshipOffered bool           `json:"visaSponsorshipOffered"`
	SuitableForExpats      bool           `json:"suitableForExpats"`
	FeaturedJob            bool           `json:"featuredJob"`
	ExpiryDate             *time.Time     `json:"expiryDate,omitempty"`
	PostedBy               uint           `json:"postedBy"`
	PostedAt               time.Time      `json:"postedAt"`
	UpdatedAt              time.Time      `json:"updatedAt"`
	ApplicantCount         *int64         `json:"applicantCount,omitempty"`
}

func newJobView(j *database.Job) JobView {
	v := JobView{
		ID:               j.ID,
		Title:            j.Title,
		Company:          j.Company,
		CompanyID:        j.CompanyID,
		Location:         j.Location,
		District:         j.District,
		Type:             j.Type,
		Industry:         j.Industry,
		Category:         j.Category,
		Description:      j.Description,
		Responsibilities: listOrEmpty(j.Responsibilities),
		Requirements:     listOrEmpty(j.Requirements),
		Qualifications:   listOrEmpty(j.Qualifications),
		Salary: SalaryView{
			Min:      j.SalaryMin,
			Max:      j.SalaryMax,
			Currency: orDefault(j.SalaryCurrency, defaultCurrency),
			Period:   orDefault(j.SalaryPeriod, defaultPeriod),
		},
		Benefits:               listOrEmpty(j.Benefits),
		Languages:              make([]LanguageView, 0, len(j.Languages)),
		RequiredExperience:     j.RequiredExperience,
		VisaSponsorshipOffered: j.VisaSponsorshipOffered,
		SuitableForExpats:      j.SuitableForExpats,
		FeaturedJob:            j.FeaturedJob,
		ExpiryDate:             j.ExpiryDate,
		PostedBy:               j.PostedBy,
		PostedAt:               j.PostedAt,
		UpdatedAt:              j.UpdatedAt,
	}
	for _, l := range j.Languages {
		v.Languages = append(v.Languages, LanguageView{Language: l.Language, Proficiency: l.Proficiency})
	}
	return v
}

func newJobViews(jobs []database.Job) []JobView {
	out := make([]JobView, 0, len(jobs))
	for i := range jobs {
		out = append(out, newJobView(&jobs[i]))
	}
	return out
}

// ListResult 是分页列表的响应体。
type ListResult struct {
	Jobs        []JobView `json:"jobs"`
	CurrentPage int       `json:"currentPage"`
	TotalPages  int       `json:"totalPages"`
	TotalJobs   int64     `json:"totalJobs"`
	Limit       int       `json:"limit"`
}

func listOrEmpty(l database.TextList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package jobs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/errcode"
)

// TextInput 接受 JSON 数组或多行/逗号分隔的字符串。
type TextInput []string

func (t *TextInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = TextInput{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = TextInput(database.ParseTextList(s))
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("expected string or array of strings")
	}
	out := make(TextInput, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*t = out
	return nil
}

type SalaryInput struct {
	Min      *int    `json:"min"`
	Max      *int    `json:"max"`
	Currency *string `json:"currency"`
	Period   *string `json:"period"`
}

type LanguageInput struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

// JobInput 用于创建和部分更新职位；nil 字段表示未提供。
type JobInput struct {
	Title                  *string          `json:"title"`
	Company                *string          `json:"company"`
	CompanyID              *uint            `json:"companyId"`
	Location               *string          `json:"location"`
	District               *string          `json:"district"`
	Type                   *string          `json:"type"`
	Industry               *string          `json:"industry"`
	Category               *string          `json:"category"`
	Description            *string          `json:"description"`
	Responsibilities       *TextInput       `json:"responsibilities"`
	Requirements           *TextInput       `json:"requirements"`
	Qualifications         *TextInput       `json:"qualifications"`
	Benefits               *TextInput       `json:"benefits"`
	Salary                 *SalaryInput     `json:"salary"`
	Languages              *[]LanguageInput `json:"languages"`
	RequiredExperience     *int             `json:"requiredExperience"`
	VisaSponsorshipOffered *bool            `json:"visaSponsorshipOffered"`
	SuitableForExpats      *bool            `json:"suitableForExpats"`
	FeaturedJob            *bool            `json:"featuredJob"`
	ExpiryDate             *string          `json:"expiryDate"`
}

var salaryPeriods = map[string]struct{}{"monthly": {}, "annual": {}, "hourly": {}}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, errcode.Validation("expiryDate must be a date (YYYY-MM-DD)")
}

// apply 将输入写入 job，并返回语言是否被替换。
func (in JobInput) apply(job *database.Job) (bool, error) {
	setTrimmed(&job.Title, in.Title)
	setTrimmed(&job.Company, in.Company)
	setTrimmed(&job.Location, in.Location)
	setTrimmed(&job.District, in.District)
	setTrimmed(&job.Type, in.Type)
	setTrimmed(&job.Industry, in.Industry)
	setTrimmed(&job.Category, in.Category)
	setTrimmed(&job.Description, in.Description)
	if in.CompanyID != nil {
		id := *in.CompanyID
		job.CompanyID = &id
	}

	setList(&job.Responsibilities, in.Responsibilities)
	setList(&job.Requirements, in.Requirements)
	setList(&job.Qualifications, in.Qualifications)
	setList(&job.Benefits, in.Benefits)

	if s := in.Salary; s != nil {
		if s.Min != nil {
			job.SalaryMin = copyInt(s.Min)
		}
		if s.Max != nil {
			job.SalaryMax = copyInt(s.Max)
		}
		if s.Currency != nil {
			job.SalaryCurrency = strings.ToUpper(strings.TrimSpace(*s.Currency))
		}
		if s.Period != nil {
			job.SalaryPeriod = strings.ToLower(strings.TrimSpace(*s.Period))
		}
	}
	job.SalaryCurrency = orDefault(job.SalaryCurrency, defaultCurrency)
	job.SalaryPeriod = orDefault(job.SalaryPeriod, defaultPeriod)

	if in.RequiredExperience != nil {
		job.RequiredExperience = copyInt(in.RequiredExperience)
	}
	if in.VisaSponsorshipOffered != nil {
		job.VisaSponsorshipOffered = *in.VisaSponsorshipOffered
	}
	if in.SuitableForExpats != nil {
		job.SuitableForExpats = *in.SuitableForExpats
	}
	if in.FeaturedJob != nil {
		job.FeaturedJob = *in.FeaturedJob
	}
	if in.ExpiryDate != nil {
		expiry, err := parseDate(*in.ExpiryDate)
		if err != nil {
			return false, err
		}
		job.ExpiryDate = expiry
	}

	if in.Languages == nil {
		return false, nil
	}
	langs := make([]database.JobLanguage, 0, len(*in.Languages))
	for _, l := range *in.Languages {
		name := strings.TrimSpace(l.Language)
		if name == "" {
			return false, errcode.Validation("language name is required")
		}
		if l.Proficiency != "" && !database.ValidProficiency(l.Proficiency) {
			return false, errcode.Validation("proficiency must be one of Basic, Intermediate, Professional, Native")
		}
		langs = append(langs, database.JobLanguage{Language: name, Proficiency: l.Proficiency})
	}
	job.Languages = langs
	return true, nil
}

// validateJob checks the merged job before it is persisted.
func validateJob(job *database.Job) error {
	switch {
	case job.Title == "":
		return errcode.Validation("title is required")
	case job.Company == "":
		return errcode.Validation("company is required")
	case job.Location == "":
		return errcode.Validation("location is required")
	case job.Type == "":
		return errcode.Validation("type is required")
	case job.Description == "":
		return errcode.Validation("description is required")
	}
	if (job.SalaryMin != nil && *job.SalaryMin < 0) || (job.SalaryMax != nil && *job.SalaryMax < 0) {
		return errcode.Validation("salary cannot be negative")
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return errcode.Validation("salary min cannot exceed max")
	}
	if _, ok := salaryPeriods[job.SalaryPeriod]; !ok {
		return errcode.Validation("salary period must be one of monthly, annual, hourly")
	}
	if job.RequiredExperience != nil && *job.RequiredExperience < 0 {
		return errcode.Validation("requiredExperience cannot be negative")
	}
	return nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func setList(dst *database.TextList, v *TextInput) {
	if v != nil {
		*dst = database.TextList(*v)
	}
}

func copyInt(v *int) *int {
	n := *v
	return &n
}

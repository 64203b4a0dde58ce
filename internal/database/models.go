package database

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LanguageSkill 表示语言能力，如 {"English", "Native"}。
type LanguageSkill struct {
	Language    string `json:"language"`
	Proficiency string `json:"proficiency"`
}

var proficiencies = map[string]struct{}{
	"Basic":        {},
	"Intermediate": {},
	"Professional": {},
	"Native":       {},
}

// ValidProficiency reports whether p is a known language proficiency.
func ValidProficiency(p string) bool {
	_, ok := proficiencies[p]
	return ok
}

// Education 表示一段教育经历，日期保留客户端提交的原始字符串（如 "2019-09"）。
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Country     string `json:"country,omitempty"`
}

// WorkExperience 表示一段工作经历。
type WorkExperience struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Description  string `json:"description,omitempty"`
	IsInHongKong *bool  `json:"isInHongKong,omitempty"`
}

// User 表示系统中的账号及其求职资料。
type User struct {
	gorm.Model
	Username          string `gorm:"uniqueIndex;size:64;not null"`
	PasswordHash      string `gorm:"size:255;not null"`
	Role              string `gorm:"size:16;index;not null"`
	Name              string `gorm:"size:255;not null"`
	Email             string `gorm:"size:255;not null"`
	Phone             string `gorm:"size:64"`
	Nationality       string `gorm:"size:128"`
	CurrentLocation   string `gorm:"size:255"`
	VisaStatus        string `gorm:"size:128"`
	YearsOfExperience *int
	Skills            datatypes.JSONSlice[string]
	Languages         datatypes.JSONSlice[LanguageSkill]
	Education         datatypes.JSONSlice[Education]
	WorkExperience    datatypes.JSONSlice[WorkExperience]
	Resume            string `gorm:"size:512"`
	Photo             string `gorm:"size:512"`
	LastLoginAt       *time.Time
}

// Company 表示招聘方公司，每个招聘者至多一家。
type Company struct {
	gorm.Model
	Name                 string `gorm:"size:255;not null"`
	Logo                 string `gorm:"size:512"`
	Description          string `gorm:"type:text"`
	Industry             string `gorm:"size:128"`
	Website              string `gorm:"size:512"`
	Size                 string `gorm:"size:64"`
	Founded              *int
	AddressStreet        string `gorm:"size:255"`
	AddressDistrict      string `gorm:"size:128"`
	AddressCity          string `gorm:"size:128"`
	AddressCountry       string `gorm:"size:128"`
	AddressPostalCode    string `gorm:"size:32"`
	ContactName          string `gorm:"size:255"`
	ContactEmail         string `gorm:"size:255"`
	ContactPhone         string `gorm:"size:64"`
	ContactPosition      string `gorm:"size:128"`
	SocialLinkedIn       string `gorm:"size:512"`
	SocialFacebook       string `gorm:"size:512"`
	SocialTwitter        string `gorm:"size:512"`
	Benefits             datatypes.JSONSlice[string]
	Culture              string `gorm:"type:text"`
	Photos               datatypes.JSONSlice[string]
	InternationalOffices datatypes.JSONSlice[string]
	RecruiterID          uint `gorm:"uniqueIndex;not null"`
	Verified             bool `gorm:"not null;default:false"`
}

// Job 表示职位发布。列表字段以 TextList 存储，兼容历史纯文本数据。
type Job struct {
	gorm.Model
	Title                  string `gorm:"size:255;not null"`
	Company                string `gorm:"size:255;not null"`
	CompanyID              *uint  `gorm:"index"`
	Location               string `gorm:"size:255;not null"`
	District               string `gorm:"size:128"`
	Type                   string `gorm:"size:64;index;not null"`
	Industry               string `gorm:"size:128;index"`
	Category               string `gorm:"size:128"`
	Description            string `gorm:"type:text;not null"`
	Responsibilities       TextList
	Requirements           TextList
	Qualifications         TextList
	SalaryMin              *int
	SalaryMax              *int
	SalaryCurrency         string `gorm:"size:8;not null;default:HKD"`
	SalaryPeriod           string `gorm:"size:16;not null;default:monthly"`
	Benefits               TextList
	Languages              []JobLanguage `gorm:"constraint:OnDelete:CASCADE"`
	RequiredExperience     *int
	VisaSponsorshipOffered bool `gorm:"not null;default:false"`
	SuitableForExpats      bool `gorm:"not null;default:false"`
	FeaturedJob            bool `gorm:"not null;default:false"`
	ExpiryDate             *time.Time
	PostedBy               uint      `gorm:"index;not null"`
	PostedAt               time.Time `gorm:"index;not null"`
}

// JobLanguage 是职位所需语言的子表，用于语言过滤。
type JobLanguage struct {
	ID          uint   `gorm:"primaryKey"`
	JobID       uint   `gorm:"index;not null"`
	Language    string `gorm:"size:64;not null"`
	Proficiency string `gorm:"size:32"`
}

// Application 表示一次职位申请；(ApplicantID, JobID) 唯一。
type Application struct {
	gorm.Model
	ApplicantID    uint      `gorm:"not null;uniqueIndex:idx_applications_applicant_job,priority:1"`
	JobID          uint      `gorm:"not null;index;uniqueIndex:idx_applications_applicant_job,priority:2"`
	JobTitle       string    `gorm:"size:255;not null"`
	CoverLetter    string    `gorm:"type:text"`
	ApplicantName  string    `gorm:"size:255"`
	ApplicantEmail string    `gorm:"size:255"`
	Status         string    `gorm:"size:32;index;not null"`
	AppliedAt      time.Time `gorm:"index;not null"`
}

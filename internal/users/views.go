package users

import (
	"strings"
	"time"

	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/errcode"
)

// Summary 是可公开返回的账号摘要，不含密码哈希。
type Summary struct {
	ID              uint       `json:"id"`
	Username        string     `json:"username"`
	Role            string     `json:"role"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Nationality     string     `json:"nationality,omitempty"`
	CurrentLocation string     `json:"currentLocation,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
}

func newSummary(u *database.User) Summary {
	return Summary{
		ID:              u.ID,
		Username:        u.Username,
		Role:            u.Role,
		Name:            u.Name,
		Email:           u.Email,
		Nationality:     u.Nationality,
		CurrentLocation: u.CurrentLocation,
		CreatedAt:       u.CreatedAt,
		LastLogin:       u.LastLoginAt,
	}
}

type Profile struct {
	Name              string                    `json:"name"`
	Email             string                    `json:"email"`
	Phone             string                    `json:"phone,omitempty"`
	Nationality       string                    `json:"nationality,omitempty"`
	CurrentLocation   string                    `json:"currentLocation,omitempty"`
	VisaStatus        string                    `json:"visaStatus,omitempty"`
	YearsOfExperience *int                      `json:"yearsOfExperience,omitempty"`
	Skills            []string                  `json:"skills"`
	Languages         []database.LanguageSkill  `json:"languages"`
	Education         []database.Education      `json:"education"`
	WorkExperience    []database.WorkExperience `json:"workExperience"`
	Resume            string                    `json:"resume,omitempty"`
	Photo             string                    `json:"photo,omitempty"`
}

func newProfile(u *database.User) Profile {
	return Profile{
		Name:              u.Name,
		Email:             u.Email,
		Phone:             u.Phone,
		Nationality:       u.Nationality,
		CurrentLocation:   u.CurrentLocation,
		VisaStatus:        u.VisaStatus,
		YearsOfExperience: u.YearsOfExperience,
		Skills:            orEmpty(u.Skills),
		Languages:         orEmpty(u.Languages),
		Education:         orEmpty(u.Education),
		WorkExperience:    orEmpty(u.WorkExperience),
		Resume:            u.Resume,
		Photo:             u.Photo,
	}
}

// ProfileView 是 GET /api/profile 的响应体。
type ProfileView struct {
	ID          uint       `json:"id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	Profile     Profile    `json:"profile"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	AppliedJobs []uint     `json:"appliedJobs"`
}

func newProfileView(u *database.User, applied []uint) ProfileView {
	if applied == nil {
		applied = []uint{}
	}
	return ProfileView{
		ID:          u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Profile:     newProfile(u),
		CreatedAt:   u.CreatedAt,
		LastLogin:   u.LastLoginAt,
		AppliedJobs: applied,
	}
}

type PublicProfileView struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Profile  Profile `json:"profile"`
}

// ProfilePatch 描述 PUT /api/profile 中的 profile 对象；nil 字段保持不变。
type ProfilePatch struct {
	Name              *string                    `json:"name"`
	Email             *string                    `json:"email"`
	Phone             *string                    `json:"phone"`
	Nationality       *string                    `json:"nationality"`
	CurrentLocation   *string                    `json:"currentLocation"`
	VisaStatus        *string                    `json:"visaStatus"`
	YearsOfExperience *int                       `json:"yearsOfExperience"`
	Skills            *[]string                  `json:"skills"`
	Languages         *[]database.LanguageSkill  `json:"languages"`
	Education         *[]database.Education      `json:"education"`
	WorkExperience    *[]database.WorkExperience `json:"workExperience"`
}

func (p ProfilePatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return errcode.Validation("name cannot be empty")
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		if email == "" || !strings.Contains(email, "@") {
			return errcode.Validation("email is invalid")
		}
	}
	if p.YearsOfExperience != nil && *p.YearsOfExperience < 0 {
		return errcode.Validation("yearsOfExperience cannot be negative")
	}
	if p.Languages != nil {
		for _, l := range *p.Languages {
			if strings.TrimSpace(l.Language) == "" {
				return errcode.Validation("language name is required")
			}
			if !database.ValidProficiency(l.Proficiency) {
				return errcode.Validation("proficiency must be one of Basic, Intermediate, Professional, Native")
			}
		}
	}
	return nil
}

func (p ProfilePatch) apply(u *database.User) {
	setString(&u.Name, p.Name)
	setString(&u.Email, p.Email)
	setString(&u.Phone, p.Phone)
	setString(&u.Nationality, p.Nationality)
	setString(&u.CurrentLocation, p.CurrentLocation)
	setString(&u.VisaStatus, p.VisaStatus)
	if p.YearsOfExperience != nil {
		years := *p.YearsOfExperience
		u.YearsOfExperience = &years
	}
	if p.Skills != nil {
		u.Skills = cleanStrings(*p.Skills)
	}
	if p.Languages != nil {
		u.Languages = *p.Languages
	}
	if p.Education != nil {
		u.Education = *p.Education
	}
	if p.WorkExperience != nil {
		u.WorkExperience = *p.WorkExperience
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

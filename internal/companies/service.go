// Package companies 管理招聘者名下的公司资料（每个招聘者至多一家）。
package companies

import (
	"context"
	"errors"
	"strings"

	"gorm.io/datatypes"

	"hkexpatjobs/internal/auth"
	"hkexpatjobs/internal/database"
	"hkexpatjobs/internal/errcode"
	"hkexpatjobs/internal/store"
)

const notFoundMessage = "company not found"

// Input 是 POST /api/companies 的请求体；recruiterId 与 verified 不接受客户端设置。
type Input struct {
	Name                 string        `json:"name"`
	Logo                 string        `json:"logo"`
	Description          string        `json:"description"`
	Industry             string        `json:"industry"`
	Website              string        `json:"website"`
	Size                 string        `json:"size"`
	Founded              *int          `json:"founded"`
	Address              Address       `json:"address"`
	ContactPerson        ContactPerson `json:"contactPerson"`
	SocialMedia          SocialMedia   `json:"socialMedia"`
	Benefits             []string      `json:"benefits"`
	Culture              string        `json:"culture"`
	Photos               []string      `json:"photos"`
	InternationalOffices []string      `json:"internationalOffices"`
}

func (in Input) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errcode.Validation("company name is required")
	}
	if in.Founded != nil && *in.Founded < 0 {
		return errcode.Validation("founded must be a valid year")
	}
	if e := strings.TrimSpace(in.ContactPerson.Email); e != "" && !strings.Contains(e, "@") {
		return errcode.Validation("contact email is invalid")
	}
	return nil
}

func (in Input) apply(c *database.Company) {
	c.Name = strings.TrimSpace(in.Name)
	// logo 只能通过上传接口更新，空值不覆盖已有 Logo。
	if logo := strings.TrimSpace(in.Logo); logo != "" {
		c.Logo = logo
	}
	c.Description = in.Description
	c.Industry = strings.TrimSpace(in.Industry)
	c.Website = strings.TrimSpace(in.Website)
	c.Size = strings.TrimSpace(in.Size)
	c.Founded = in.Founded
	c.AddressStreet = in.Address.Street
	c.AddressDistrict = in.Address.District
	c.AddressCity = in.Address.City
	c.AddressCountry = in.Address.Country
	c.AddressPostalCode = in.Address.PostalCode
	c.ContactName = in.ContactPerson.Name
	c.ContactEmail = strings.TrimSpace(in.ContactPerson.Email)
	c.ContactPhone = in.ContactPerson.Phone
	c.ContactPosition = in.ContactPerson.Position
	c.SocialLinkedIn = in.SocialMedia.LinkedIn
	c.SocialFacebook = in.SocialMedia.Facebook
	c.SocialTwitter = in.SocialMedia.Twitter
	c.Benefits = datatypes.NewJSONSlice(clean(in.Benefits))
	c.Culture = in.Culture
	c.Photos = datatypes.NewJSONSlice(clean(in.Photos))
	c.InternationalOffices = datatypes.NewJSONSlice(clean(in.InternationalOffices))
}

type Service struct {
	companies *store.CompanyStore
}

func NewService(companies *store.CompanyStore) *Service {
	return &Service{companies: companies}
}

// Get 公开查询公司详情。
func (s *Service) Get(ctx context.Context, id uint) (View, error) {
	company, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return View{}, storeError(err)
	}
	return newView(company), nil
}

// List 公开列出全部公司。
func (s *Service) List(ctx context.Context) ([]View, error) {
	rows, err := s.companies.List(ctx)
	if err != nil {
		return nil, errcode.Unavailable(err)
	}
	out := make([]View, 0, len(rows))
	for i := range rows {
		out = append(out, newView(&rows[i]))
	}
	return out, nil
}

// Mine returns the caller's own company.
func (s *Service) Mine(ctx context.Context, caller auth.Identity) (View, error) {
	company, err := s.companies.FindByRecruiter(ctx, caller.ID)
	if err != nil {
		return View{}, storeError(err)
	}
	return newView(company), nil
}

// Save 按 recruiterId 创建或更新公司；created 表示是否新建。
func (s *Service) Save(ctx context.Context, caller auth.Identity, in Input) (View, bool, error) {
	if !caller.HasRole(auth.RoleRecruiter, auth.RoleAdmin) {
		return View{}, false, errcode.Forbidden("only recruiters can manage companies")
	}
	if err := in.validate(); err != nil {
		return View{}, false, err
	}

	company, created, err := s.companies.Upsert(ctx, caller.ID, in.apply)
	if err != nil {
		return View{}, false, errcode.Unavailable(err)
	}
	return newView(company), created, nil
}

// SetLogo 记录上传后的 Logo；调用者尚未创建公司时返回 NotFound。
func (s *Service) SetLogo(ctx context.Context, caller auth.Identity, url string) (View, error) {
	company, err := s.companies.SetLogo(ctx, caller.ID, url)
	if err != nil {
		return View{}, storeError(err)
	}
	return newView(company), nil
}

// HasCompany reports whether the caller already owns a company.
func (s *Service) HasCompany(ctx context.Context, caller auth.Identity) (bool, error) {
	_, err := s.companies.FindByRecruiter(ctx, caller.ID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errcode.Unavailable(err)
	}
	return true, nil
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return errcode.NotFound(notFoundMessage)
	}
	return errcode.Unavailable(err)
}

func clean(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

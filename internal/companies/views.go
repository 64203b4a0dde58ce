package companies

import (
	"time"

	"hkexpatjobs/internal/database"
)

type Address struct {
	Street     string `json:"street"`
	District   string `json:"district"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

type ContactPerson struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Position string `json:"position"`
}

type SocialMedia struct {
	LinkedIn string `json:"linkedin,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// View 是公司对外返回的形状，地址、联系人与社交链接还原为嵌套对象。
type View struct {
	ID                   uint          `json:"id"`
	Name                 string        `json:"name"`
	Logo                 string        `json:"logo,omitempty"`
	Description          string        `json:"description,omitempty"`
	Industry             string        `json:"industry,omitempty"`
	Website              string        `json:"website,omitempty"`
	Size                 string        `json:"size,omitempty"`
	Founded              *int          `json:"founded,omitempty"`
	Address              Address       `json:"address"`
	ContactPerson        ContactPerson `json:"contactPerson"`
	SocialMedia          SocialMedia   `json:"socialMedia"`
	Benefits             []string      `json:"benefits"`
	Culture              string        `json:"culture,omitempty"`
	Photos               []string      `json:"photos"`
	InternationalOffices []string      `json:"internationalOffices"`
	RecruiterID          uint          `json:"recruiterId"`
	Verified             bool          `json:"verified"`
	CreatedAt            time.Time     `json:"createdAt"`
}

func newView(c *database.Company) View {
	return View{
		ID:          c.ID,
		Name:        c.Name,
		Logo:        c.Logo,
		Description: c.Description,
		Industry:    c.Industry,
		Website:     c.Website,
		Size:        c.Size,
		Founded:     c.Founded,
		Address: Address{
			Street:     c.AddressStreet,
			District:   c.AddressDistrict,
			City:       c.AddressCity,
			Country:    c.AddressCountry,
			PostalCode: c.AddressPostalCode,
		},
		ContactPerson: ContactPerson{
			Name:     c.ContactName,
			Email:    c.ContactEmail,
			Phone:    c.ContactPhone,
			Position: c.ContactPosition,
		},
		SocialMedia: SocialMedia{
			LinkedIn: c.SocialLinkedIn,
			Facebook: c.SocialFacebook,
			Twitter:  c.SocialTwitter,
		},
		Benefits:             orEmpty(c.Benefits),
		Culture:              c.Culture,
		Photos:               orEmpty(c.Photos),
		InternationalOffices: orEmpty(c.InternationalOffices),
		RecruiterID:          c.RecruiterID,
		Verified:             c.Verified,
		CreatedAt:            c.CreatedAt,
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

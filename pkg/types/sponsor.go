package types

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength        = 255
	MaxURLLength         = 255
	MaxDescriptionLength = 1000
)

type Sponsor struct {
	ID          int64   `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	LogoURL     *string `db:"logo_url" json:"logo_url"`
	WebsiteURL  *string `db:"website_url" json:"website_url"`
	Description *string `db:"description" json:"description"`
	LevelID     *int64  `db:"level_id" json:"level_id"`
}

type Level struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`

	Sponsors []*Sponsor `db:"-" json:"sponsors"`
}

type SponsorCreate struct {
	Name        string  `json:"name"`
	LogoURL     *string `json:"logo_url"`
	WebsiteURL  *string `json:"website_url"`
	Description *string `json:"description"`
	LevelID     *int64  `json:"level_id"`
}

func (c *SponsorCreate) Validate() map[string]string {
	errs := map[string]string{}

	validateName(errs, &c.Name)
	validateMaxLength(errs, "logo_url", c.LogoURL, MaxURLLength)
	validateMaxLength(errs, "website_url", c.WebsiteURL, MaxURLLength)
	validateMaxLength(errs, "description", c.Description, MaxDescriptionLength)

	if c.LevelID == nil {
		errs["level_id"] = "Level is required."
	}

	return errs
}

// Sponsor builds the record to persist. LogoURL is copied as given; callers
// resolve it before inserting.
func (c *SponsorCreate) Sponsor() *Sponsor {
	return &Sponsor{
		Name:        strings.TrimSpace(c.Name),
		LogoURL:     c.LogoURL,
		WebsiteURL:  c.WebsiteURL,
		Description: c.Description,
		LevelID:     c.LevelID,
	}
}

type SponsorUpdate struct {
	Name        Optional[string] `json:"name"`
	LogoURL     Optional[string] `json:"logo_url"`
	WebsiteURL  Optional[string] `json:"website_url"`
	Description Optional[string] `json:"description"`
	LevelID     Optional[int64]  `json:"level_id"`
}

func (u *SponsorUpdate) Validate() map[string]string {
	errs := map[string]string{}

	if u.Name.Set {
		if u.Name.Value == nil {
			errs["name"] = "Name cannot be null."
		} else {
			validateName(errs, u.Name.Value)
		}
	}

	validateMaxLength(errs, "logo_url", u.LogoURL.Value, MaxURLLength)
	validateMaxLength(errs, "website_url", u.WebsiteURL.Value, MaxURLLength)
	validateMaxLength(errs, "description", u.Description.Value, MaxDescriptionLength)

	return errs
}

// Apply copies the fields present in the request onto s. Absent fields are
// left untouched; explicit nulls clear nullable columns.
func (u *SponsorUpdate) Apply(s *Sponsor) {
	if u.Name.Set && u.Name.Value != nil {
		s.Name = strings.TrimSpace(*u.Name.Value)
	}
	if u.LogoURL.Set {
		s.LogoURL = u.LogoURL.Value
	}
	if u.WebsiteURL.Set {
		s.WebsiteURL = u.WebsiteURL.Value
	}
	if u.Description.Set {
		s.Description = u.Description.Value
	}
	if u.LevelID.Set {
		s.LevelID = u.LevelID.Value
	}
}

type LevelCreate struct {
	Name string `json:"name"`
}

func (c *LevelCreate) Validate() map[string]string {
	errs := map[string]string{}
	validateName(errs, &c.Name)
	return errs
}

type LevelUpdate struct {
	Name Optional[string] `json:"name"`
}

func (u *LevelUpdate) Validate() map[string]string {
	errs := map[string]string{}

	if u.Name.Set {
		if u.Name.Value == nil {
			errs["name"] = "Name cannot be null."
		} else {
			validateName(errs, u.Name.Value)
		}
	}

	return errs
}

func (u *LevelUpdate) Apply(l *Level) {
	if u.Name.Set && u.Name.Value != nil {
		l.Name = strings.TrimSpace(*u.Name.Value)
	}
}

func validateName(errs map[string]string, name *string) {
	trimmed := strings.TrimSpace(*name)
	switch {
	case trimmed == "":
		errs["name"] = "Name is required."
	case utf8.RuneCountInString(trimmed) > MaxNameLength:
		errs["name"] = "Name must be at most 255 characters."
	}
}

func validateMaxLength(errs map[string]string, field string, v *string, max int) {
	if v == nil {
		return
	}

	if utf8.RuneCountInString(*v) > max {
		errs[field] = fieldLabel(field) + " is too long."
	}
}

func fieldLabel(field string) string {
	switch field {
	case "logo_url":
		return "Logo URL"
	case "website_url":
		return "Website URL"
	case "description":
		return "Description"
	default:
		return field
	}
}

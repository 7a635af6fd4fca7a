package types

// SponsorsComponent is the render-ready aggregate handed to the host page
// builder. It is assembled per request and never persisted.
type SponsorsComponent struct {
	Sponsors []*Sponsor `json:"sponsors"`
	Levels   []*Level   `json:"levels"`

	ComponentDisplay
}

type ComponentDisplay struct {
	DisplaySponsorLevel       bool `json:"display_sponsor_level" form:"display_sponsor_level"`
	DisplaySponsorWebsite     bool `json:"display_sponsor_website" form:"display_sponsor_website"`
	DisplaySponsorDescription bool `json:"display_sponsor_description" form:"display_sponsor_description"`
	DisplaySearch             bool `json:"display_search" form:"display_search"`
}

// ComponentDescriptor tells a host how to register and feed the component.
type ComponentDescriptor struct {
	Name     string          `json:"name"`
	DataPath string          `json:"data_path"`
	Flags    []ComponentFlag `json:"flags"`
}

type ComponentFlag struct {
	Name    string `json:"name"`
	Default bool   `json:"default"`
}
